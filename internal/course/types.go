package course

// Status is a module's position in the mastery sequence.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusCurrent   Status = "current"
	StatusCompleted Status = "completed"
)

// Icon returns the roadmap marker for the status.
func (s Status) Icon() string {
	switch s {
	case StatusCompleted:
		return "✓"
	case StatusCurrent:
		return "◉"
	default:
		return "🔒"
	}
}

// InterviewTips helps a learner explain the module in an interview.
type InterviewTips struct {
	HowToAnswer       string   `json:"howToAnswer" validate:"required"`
	ExpectedQuestions []string `json:"expectedQuestions" validate:"required,min=1,dive,required"`
}

// LessonBody is the descriptive content of a module.
type LessonBody struct {
	Objective           string        `json:"objective" validate:"required"`
	KeyConcepts         []string      `json:"keyConcepts" validate:"required,min=1,dive,required"`
	ExplanationELI5     string        `json:"explanationELI5" validate:"required"`
	DetailedExplanation string        `json:"detailedExplanation" validate:"required"`
	RealWorldExample    string        `json:"realWorldExample" validate:"required"`
	Recap               []string      `json:"recap" validate:"required,min=1,dive,required"`
	InterviewTips       InterviewTips `json:"interviewTips"`
}

// QuizQuestion is a single multiple-choice question.
type QuizQuestion struct {
	Question     string   `json:"question" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectIndex int      `json:"correctIndex" validate:"gte=0"`
	Explanation  string   `json:"explanation" validate:"required"`
}

// Module is one unit of a course's sequential curriculum.
type Module struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Status   Status         `json:"status"`
	Lesson   *LessonBody    `json:"lesson,omitempty"`
	Quiz     []QuizQuestion `json:"quiz,omitempty"`
	Progress int            `json:"progress"`
}

// HasQuiz reports whether the module carries at least one question.
func (m Module) HasQuiz() bool {
	return len(m.Quiz) > 0
}

// Course is a topic plus its ordered modules.
type Course struct {
	ID            string   `json:"id"`
	Topic         string   `json:"topic"`
	VisualKeyword string   `json:"visualKeyword,omitempty"`
	Modules       []Module `json:"modules"`
}
