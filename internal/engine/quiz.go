package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"starcomm_training_client/internal/client"
	"starcomm_training_client/internal/config"
	"starcomm_training_client/internal/model"
	"starcomm_training_client/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Confirmer asks the user a yes/no question. The host supplies one; tests
// script it.
type Confirmer interface {
	Confirm(message string) bool
}

// QuizView is the declarative snapshot of an answering session for the host.
type QuizView struct {
	ModuleTitle    string
	AttemptID      string
	QuestionIndex  int
	QuestionCount  int
	Question       model.Question
	SelectedOption int // -1 when unanswered
	AnsweredCount  int
	Remaining      time.Duration
	TimeLimit      time.Duration
}

// QuizResults is the terminal snapshot after submission.
type QuizResults struct {
	Score          float64
	Passed         bool
	CorrectAnswers int
	TotalQuestions int
	Attempts       int
	PassingScore   float64
	TimeTaken      time.Duration
}

// Quiz runs one timed multiple-choice session to scored completion.
type Quiz struct {
	mu  sync.Mutex
	api *client.Client
	log *zap.Logger

	confirmer        Confirmer
	defaultLimit     time.Duration
	defaultThreshold float64

	employeeID   uint
	module       *model.TrainingModule
	questions    []model.Question
	attemptID    uuid.UUID
	index        int
	answers      map[uint]int
	startedAt    time.Time
	timeLimit    time.Duration
	passingScore float64

	submitting bool
	result     *model.QuizResult
	finishedAt time.Time

	stopTimer chan struct{}

	// OnExpire is invoked from the countdown goroutine after a forced
	// auto-submission, so the host can swap to the results screen.
	OnExpire func(results *QuizResults, err error)
}

func NewQuiz(api *client.Client, cfg *config.Config, confirmer Confirmer, log *zap.Logger) *Quiz {
	return &Quiz{
		api:              api,
		log:              log,
		confirmer:        confirmer,
		defaultLimit:     cfg.Quiz.TimeLimit,
		defaultThreshold: cfg.Quiz.PassingScore,
	}
}

// Init loads the module and its questions and opens a fresh session: index
// zero, no answers, the clock starting now. A module without questions maps
// to util.ErrQuizNotFound.
func (q *Quiz) Init(ctx context.Context, employeeID, moduleID uint) error {
	module, err := q.api.LoadModule(ctx, employeeID, moduleID)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrModuleNotFound, err)
	}
	if !module.HasQuiz() {
		return util.ErrQuizNotFound
	}

	threshold := module.PassingScore
	if threshold <= 0 {
		threshold = q.defaultThreshold
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.employeeID = employeeID
	q.module = module
	q.questions = module.QuizQuestions
	q.attemptID = uuid.New()
	q.index = 0
	q.answers = map[uint]int{}
	q.startedAt = time.Now()
	q.timeLimit = q.defaultLimit
	q.passingScore = threshold
	q.submitting = false
	q.result = nil
	return nil
}

// StartTimer begins the 1-second countdown. At zero the session is force
// submitted, bypassing the unanswered-question confirmation.
func (q *Quiz) StartTimer(ctx context.Context) {
	q.mu.Lock()
	if q.timeLimit <= 0 || q.stopTimer != nil {
		q.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	q.stopTimer = stop
	q.mu.Unlock()

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				if q.Remaining() > 0 {
					continue
				}
				result, err := q.Submit(ctx, true)
				q.mu.Lock()
				onExpire := q.OnExpire
				q.mu.Unlock()
				if onExpire != nil && (result != nil || err != nil) {
					onExpire(q.Results(), err)
				}
				return
			}
		}
	}()
}

// StopTimer halts the countdown. Safe to call repeatedly; always called on
// navigation away so no orphaned ticker fires against a torn-down screen.
func (q *Quiz) StopTimer() {
	q.mu.Lock()
	if q.stopTimer != nil {
		close(q.stopTimer)
		q.stopTimer = nil
	}
	q.mu.Unlock()
}

// Remaining recomputes the time left from the start timestamp, never from
// accumulated ticks.
func (q *Quiz) Remaining() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.timeLimit <= 0 {
		return 0
	}
	remaining := time.Until(q.startedAt.Add(q.timeLimit))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SelectAnswer records the chosen option for a question, overwriting any
// prior choice, and persists the in-progress state in the background so the
// UI never waits on the save.
func (q *Quiz) SelectAnswer(ctx context.Context, questionID uint, optionIndex int) error {
	q.mu.Lock()
	if q.questions == nil {
		q.mu.Unlock()
		return util.ErrNoQuizLoaded
	}
	q.answers[questionID] = optionIndex
	q.mu.Unlock()

	go q.saveState(ctx)
	return nil
}

// saveState persists the answer map and current index. Failures are logged
// and swallowed; the next selection is the retry.
func (q *Quiz) saveState(ctx context.Context) {
	q.mu.Lock()
	if q.module == nil {
		q.mu.Unlock()
		return
	}
	employeeID, moduleID := q.employeeID, q.module.ID
	answers := make(map[uint]int, len(q.answers))
	for id, sel := range q.answers {
		answers[id] = sel
	}
	index := q.index
	started := q.startedAt
	q.mu.Unlock()

	now := time.Now()
	err := q.api.SaveProgress(ctx, employeeID, moduleID, model.ProgressUpdate{
		QuizAnswers:     answers,
		CurrentQuestion: &index,
		TimeStarted:     &started,
		LastAccessed:    &now,
	})
	if err != nil {
		q.log.Warn("quiz state save failed", zap.Error(err))
	}
}

// Next moves to the following question, clamped at the last one. Recorded
// answers are never touched by navigation.
func (q *Quiz) Next() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index < len(q.questions)-1 {
		q.index++
	}
}

// Prev moves to the preceding question, clamped at the first one.
func (q *Quiz) Prev() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.index > 0 {
		q.index--
	}
}

// Unanswered counts the questions with no recorded answer.
func (q *Quiz) Unanswered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	count := 0
	for _, question := range q.questions {
		if _, ok := q.answers[question.ID]; !ok {
			count++
		}
	}
	return count
}

// Submit sends the answer map to the backend. Manual submission with
// unanswered questions requires explicit confirmation; auto-submission on
// timer expiry proceeds directly. The guard makes the timer/manual race
// produce exactly one network call: a second attempt while one is under way
// (or after success) is a no-op returning the existing result. A failed
// submission resets the guard so the same action can be retried.
func (q *Quiz) Submit(ctx context.Context, auto bool) (*model.QuizResult, error) {
	q.mu.Lock()
	if q.questions == nil {
		q.mu.Unlock()
		return nil, util.ErrNoQuizLoaded
	}
	if q.submitting || q.result != nil {
		result := q.result
		q.mu.Unlock()
		return result, nil
	}

	unanswered := 0
	for _, question := range q.questions {
		if _, ok := q.answers[question.ID]; !ok {
			unanswered++
		}
	}

	if unanswered > 0 && !auto {
		q.mu.Unlock()
		message := fmt.Sprintf("You have %d unanswered questions. Are you sure you want to submit the quiz?", unanswered)
		if !q.confirmer.Confirm(message) {
			return nil, nil
		}
		q.mu.Lock()
		if q.submitting || q.result != nil {
			result := q.result
			q.mu.Unlock()
			return result, nil
		}
	}

	q.submitting = true
	employeeID, moduleID := q.employeeID, q.module.ID
	answers := make(map[uint]int, len(q.answers))
	for id, sel := range q.answers {
		answers[id] = sel
	}
	q.mu.Unlock()

	q.StopTimer()

	result, err := q.api.SubmitQuiz(ctx, employeeID, moduleID, answers)

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		q.submitting = false
		return nil, err
	}
	q.result = result
	q.finishedAt = time.Now()
	return result, nil
}

// Submitted reports whether the session reached the results state.
func (q *Quiz) Submitted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result != nil
}

// Results builds the terminal snapshot. Pass/fail compares the unrounded
// score against the unrounded threshold, inclusive at the boundary; the
// score is rounded only when displayed.
func (q *Quiz) Results() *QuizResults {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.result == nil {
		return nil
	}
	return &QuizResults{
		Score:          q.result.Score,
		Passed:         q.result.Score >= q.passingScore,
		CorrectAnswers: q.result.CorrectAnswers,
		TotalQuestions: q.result.TotalQuestions,
		Attempts:       q.result.Attempts,
		PassingScore:   q.passingScore,
		TimeTaken:      q.finishedAt.Sub(q.startedAt),
	}
}

// Retake opens a fresh attempt on the same questions. This is the only path
// that clears recorded answers.
func (q *Quiz) Retake(ctx context.Context) error {
	q.mu.Lock()
	if q.questions == nil {
		q.mu.Unlock()
		return util.ErrNoQuizLoaded
	}
	q.attemptID = uuid.New()
	q.index = 0
	q.answers = map[uint]int{}
	q.startedAt = time.Now()
	q.submitting = false
	q.result = nil
	q.mu.Unlock()

	q.StartTimer(ctx)
	return nil
}

// Snapshot describes the current question for rendering.
func (q *Quiz) Snapshot() *QuizView {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.questions == nil {
		return nil
	}

	question := q.questions[q.index]
	selected := -1
	if sel, ok := q.answers[question.ID]; ok {
		selected = sel
	}

	remaining := time.Duration(0)
	if q.timeLimit > 0 {
		remaining = time.Until(q.startedAt.Add(q.timeLimit))
		if remaining < 0 {
			remaining = 0
		}
	}

	return &QuizView{
		ModuleTitle:    q.module.Title,
		AttemptID:      q.attemptID.String(),
		QuestionIndex:  q.index,
		QuestionCount:  len(q.questions),
		Question:       question,
		SelectedOption: selected,
		AnsweredCount:  len(q.answers),
		Remaining:      remaining,
		TimeLimit:      q.timeLimit,
	}
}
