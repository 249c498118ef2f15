// Package content turns model replies into typed course content and runs
// the tutor chat.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/learner"
	"github.com/abhisek/learneye/internal/llm"
)

// ErrContentUnavailable is returned whenever a course cannot be produced:
// provider failure, malformed reply or a reply that fails validation.
var ErrContentUnavailable = errors.New("content unavailable")

// Config tunes generation requests. QuestionsPerQuiz follows the course
// policy rather than its own setting.
type Config struct {
	CourseMaxTokens  int     `mapstructure:"course_max_tokens"`
	TutorMaxTokens   int     `mapstructure:"tutor_max_tokens"`
	Temperature      float64 `mapstructure:"temperature"`
	QuestionsPerQuiz int     `mapstructure:"-"`
}

// DefaultConfig returns generation defaults.
func DefaultConfig() Config {
	return Config{
		CourseMaxTokens:  16384,
		TutorMaxTokens:   1024,
		Temperature:      0.7,
		QuestionsPerQuiz: 5,
	}
}

// Generator requests and validates learning paths.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(provider llm.Provider, cfg Config, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{provider: provider, cfg: cfg, log: log}
}

type courseOutput struct {
	VisualKeyword string         `json:"visualKeyword"`
	Modules       []moduleOutput `json:"modules" validate:"required,min=1,unique=ID,dive"`
}

type moduleOutput struct {
	ID     string                `json:"id" validate:"required"`
	Title  string                `json:"title" validate:"required"`
	Lesson *course.LessonBody    `json:"lesson" validate:"required"`
	Quiz   []course.QuizQuestion `json:"quiz" validate:"required,min=1,dive"`
}

// GenerateCourse asks the provider for a learning path toward goal and
// returns it as a new course. Every failure wraps ErrContentUnavailable.
func (g *Generator) GenerateCourse(ctx context.Context, goal string, persona learner.Persona, language string) (*course.Course, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeCourse)

	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, fmt.Errorf("%w: empty goal", ErrContentUnavailable)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: courseSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildCourseUserMessage(goal, persona, language, g.cfg.QuestionsPerQuiz)},
		},
		Schema:      LearningPathSchema,
		MaxTokens:   g.cfg.CourseMaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.log.Warn("course generation failed", zap.String("goal", goal), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}

	c, err := ParseCourse(goal, resp.Content)
	if err != nil {
		g.log.Warn("course reply rejected", zap.String("goal", goal), zap.Error(err))
		return nil, err
	}

	g.log.Info("course generated",
		zap.String("topic", c.Topic),
		zap.Int("modules", len(c.Modules)))
	return c, nil
}

// ParseCourse decodes a learning-path reply, validates every module and
// builds a course with the first module current.
func ParseCourse(topic string, raw json.RawMessage) (*course.Course, error) {
	var out courseOutput
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode reply: %w", ErrContentUnavailable, err)
	}

	if err := contentValidator().Struct(out); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrContentUnavailable, describeValidation(err))
	}

	modules := make([]course.Module, len(out.Modules))
	for i, m := range out.Modules {
		modules[i] = course.Module{
			ID:     m.ID,
			Title:  m.Title,
			Lesson: m.Lesson,
			Quiz:   m.Quiz,
		}
	}

	c, err := course.New(topic, out.VisualKeyword, modules)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentUnavailable, err)
	}
	return c, nil
}

var (
	validatorOnce sync.Once
	validate      *validator.Validate
)

func contentValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validate = validator.New()
		validate.RegisterStructValidation(func(sl validator.StructLevel) {
			q := sl.Current().Interface().(course.QuizQuestion)
			if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
				sl.ReportError(q.CorrectIndex, "CorrectIndex", "correctIndex", "option_index", "")
			}
		}, course.QuizQuestion{})
	})
	return validate
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
