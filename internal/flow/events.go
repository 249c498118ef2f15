package flow

import (
	"fmt"

	"github.com/abhisek/learneye/internal/course"
)

// Event is an input to Machine.Fire.
type Event interface {
	fmt.Stringer
	isEvent()
}

// CourseReady reports that a course is available for the learner.
type CourseReady struct {
	Course *course.Course
}

// ContentFailed reports that course generation failed.
type ContentFailed struct {
	Err error
}

// Retry asks for another generation attempt after a failure.
type Retry struct{}

// SelectModule opens the lesson for the module at Index.
type SelectModule struct {
	Index int
}

// StartQuiz begins the knowledge check for the active module.
type StartQuiz struct{}

// FinishQuiz moves a completed quiz run to analysis.
type FinishQuiz struct{}

// Acknowledge closes the analysis view.
type Acknowledge struct{}

// Back navigates one level up, abandoning any quiz in progress.
type Back struct{}

func (CourseReady) isEvent() {}
func (ContentFailed) isEvent() {}
func (Retry) isEvent() {}
func (SelectModule) isEvent() {}
func (StartQuiz) isEvent() {}
func (FinishQuiz) isEvent() {}
func (Acknowledge) isEvent() {}
func (Back) isEvent() {}

func (CourseReady) String() string { return "course-ready" }
func (ContentFailed) String() string { return "content-failed" }
func (Retry) String() string { return "retry" }
func (e SelectModule) String() string { return fmt.Sprintf("select-module(%d)", e.Index) }
func (StartQuiz) String() string { return "start-quiz" }
func (FinishQuiz) String() string { return "finish-quiz" }
func (Acknowledge) String() string { return "acknowledge" }
func (Back) String() string { return "back" }
