package quiz

import (
	"errors"

	"github.com/abhisek/learneye/internal/course"
)

var (
	// ErrEmptyQuiz is returned when a runner is built without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")

	// ErrNoSelection is returned by Verify when no option is selected.
	ErrNoSelection = errors.New("no option selected")

	// ErrNotVerified is returned by Advance before the question is verified.
	ErrNotVerified = errors.New("question not verified")

	// ErrFinished is returned once the last question has been advanced past.
	ErrFinished = errors.New("quiz finished")
)

// Attempt records the outcome of one verified question.
type Attempt struct {
	Question    string `json:"question"`
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// Result is the finalized outcome of a quiz run.
type Result struct {
	Score    int
	Total    int
	Attempts []Attempt
}

// Runner drives one question at a time through a fixed question list.
type Runner struct {
	questions []course.QuizQuestion
	index     int
	selected  int
	verified  bool
	correct   bool
	score     int
	attempts  []Attempt
	finished  bool
}

// NewRunner creates a runner over questions. Any positive count is allowed.
func NewRunner(questions []course.QuizQuestion) (*Runner, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	return &Runner{
		questions: questions,
		selected:  -1,
	}, nil
}

// Current returns the active question.
func (r *Runner) Current() course.QuizQuestion {
	return r.questions[r.index]
}

// Index is the zero-based position of the active question.
func (r *Runner) Index() int { return r.index }

// Total is the number of questions in the run.
func (r *Runner) Total() int { return len(r.questions) }

// Score is the running count of correct answers.
func (r *Runner) Score() int { return r.score }

// Selected is the tentative choice, or -1.
func (r *Runner) Selected() int { return r.selected }

// Verified reports whether the active question has been checked.
func (r *Runner) Verified() bool { return r.verified }

// LastCorrect reports whether the verified answer was right.
func (r *Runner) LastCorrect() bool { return r.verified && r.correct }

// IsLast reports whether the active question is the final one.
func (r *Runner) IsLast() bool { return r.index == len(r.questions)-1 }

// Finished reports whether Advance has moved past the final question.
func (r *Runner) Finished() bool { return r.finished }

// Attempts returns a copy of the attempts recorded so far.
func (r *Runner) Attempts() []Attempt {
	return append([]Attempt(nil), r.attempts...)
}

// Select records a tentative choice. It is ignored once the question has
// been verified or when idx is not a valid option.
func (r *Runner) Select(idx int) {
	if r.finished || r.verified {
		return
	}
	if idx < 0 || idx >= len(r.Current().Options) {
		return
	}
	r.selected = idx
}

// Verify checks the selection against the correct index, records the
// attempt and locks the question until Advance. Verifying twice is a no-op.
func (r *Runner) Verify() (bool, error) {
	if r.finished {
		return false, ErrFinished
	}
	if r.verified {
		return r.correct, nil
	}
	if r.selected < 0 {
		return false, ErrNoSelection
	}

	q := r.Current()
	r.correct = r.selected == q.CorrectIndex
	if r.correct {
		r.score++
	}
	r.attempts = append(r.attempts, Attempt{
		Question:    q.Question,
		Correct:     r.correct,
		Explanation: q.Explanation,
	})
	r.verified = true
	return r.correct, nil
}

// Advance moves to the next question. After the last question it finalizes
// the run and returns the result with done set.
func (r *Runner) Advance() (res Result, done bool, err error) {
	if r.finished {
		return Result{}, true, ErrFinished
	}
	if !r.verified {
		return Result{}, false, ErrNotVerified
	}

	if r.IsLast() {
		r.finished = true
		return r.Result(), true, nil
	}

	r.index++
	r.selected = -1
	r.verified = false
	r.correct = false
	return Result{}, false, nil
}

// Result summarizes the attempts recorded so far.
func (r *Runner) Result() Result {
	return Result{
		Score:    r.score,
		Total:    len(r.questions),
		Attempts: r.Attempts(),
	}
}
