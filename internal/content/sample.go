package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/learneye/internal/course"
	"github.com/abhisek/learneye/internal/llm"
)

// NewOfflineProvider returns a mock provider that answers course requests
// with a small built-in path and tutor requests with a canned nudge. It
// lets the app run without an API key.
func NewOfflineProvider() *llm.MockProvider {
	return llm.NewMockHandler(func(_ context.Context, req llm.Request) (*llm.Response, error) {
		if req.Schema != nil && req.Schema.Name == LearningPathSchema.Name {
			return &llm.Response{Content: SampleCourseJSON(), Model: "offline", StopReason: "end"}, nil
		}
		var last string
		if n := len(req.Messages); n > 0 {
			last = req.Messages[n-1].Content
		}
		reply := fmt.Sprintf("Good question! Before I answer, what do you already know about %q? "+
			"Try to describe it in one sentence.", strings.TrimSpace(last))
		return &llm.Response{Content: json.RawMessage(reply), Model: "offline", StopReason: "end"}, nil
	})
}

// SampleCourseJSON is a valid learning-path reply with two modules.
func SampleCourseJSON() json.RawMessage {
	type moduleJSON struct {
		ID     string                `json:"id"`
		Title  string                `json:"title"`
		Lesson course.LessonBody     `json:"lesson"`
		Quiz   []course.QuizQuestion `json:"quiz"`
	}
	mod := func(id, title, objective string) moduleJSON {
		quiz := make([]course.QuizQuestion, 5)
		for i := range quiz {
			quiz[i] = course.QuizQuestion{
				Question:     fmt.Sprintf("%s: question %d. Which option is correct?", title, i+1),
				Options:      []string{"This one", "Not this", "Nor this", "None"},
				CorrectIndex: 0,
				Explanation:  "The first option restates the objective.",
			}
		}
		return moduleJSON{
			ID:    id,
			Title: title,
			Lesson: course.LessonBody{
				Objective:           objective,
				KeyConcepts:         []string{"Vocabulary", "Mental model", "Practice"},
				ExplanationELI5:     "Think of it like learning to ride a bike: wobbly at first, then automatic.",
				DetailedExplanation: "Start with the words, connect them into a picture, then use the picture on small problems.",
				RealWorldExample:    "A new team member reads the glossary before the first stand-up.",
				Recap:               []string{"Learn the words", "Build the picture", "Practice daily"},
				InterviewTips: course.InterviewTips{
					HowToAnswer:       "Define the idea in one line, then give a concrete example.",
					ExpectedQuestions: []string{"What is it?", "Why does it matter?", "Where have you used it?"},
				},
			},
			Quiz: quiz,
		}
	}
	out := struct {
		VisualKeyword string       `json:"visualKeyword"`
		Modules       []moduleJSON `json:"modules"`
	}{
		VisualKeyword: "notebook",
		Modules: []moduleJSON{
			mod("m1", "Foundations", "Name the core ideas"),
			mod("m2", "Putting It Together", "Apply the ideas to a small problem"),
		},
	}
	b, _ := json.Marshal(out)
	return b
}
