// Package portal holds the role-scoped view controllers. Each handler checks
// access against the session context, loads data through the request client
// and returns a declarative view; rendering belongs to the host.
package portal

import (
	"fmt"

	"starcomm_training_client/internal/router"
	"starcomm_training_client/internal/view"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// redirect navigates away and renders nothing for the current dispatch.
func redirect(r *router.Router, path string) (*view.View, error) {
	r.Navigate(path)
	return nil, nil
}

// ValidationError wraps validator output with a user-presentable message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	if errs, ok := e.Err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return fmt.Sprintf("invalid %s: failed %s check", first.Field(), first.Tag())
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func validateStruct(payload any) error {
	if err := validate.Struct(payload); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
