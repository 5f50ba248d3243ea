package util

import "errors"

var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrModuleNotFound = errors.New("training module not found")
	ErrQuizNotFound   = errors.New("quiz not available for this module")
	ErrNoQuizLoaded   = errors.New("no quiz session loaded")
	ErrQuizSubmitted  = errors.New("quiz already submitted")
	ErrRouteNotFound  = errors.New("route not found")
)
