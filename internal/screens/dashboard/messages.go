package dashboard

import (
	"time"

	"github.com/abhisek/learneye/internal/course"
)

// courseMsg carries the result of EnsureCourse.
type courseMsg struct {
	course *course.Course
	err    error
}

// statusTickMsg rotates the loading status line.
type statusTickMsg time.Time
