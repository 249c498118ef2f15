package content

import "github.com/abhisek/learneye/internal/llm"

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

// LearningPathSchema is the structured reply requested for a new course.
var LearningPathSchema = &llm.Schema{
	Name:        "learning-path",
	Description: "A progressive learning path of modules, each with a lesson and a multiple-choice quiz",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"visualKeyword": map[string]any{
				"type":        "string",
				"description": "One or two words for topic imagery",
			},
			"modules": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string", "description": "Unique module id"},
						"title": map[string]any{"type": "string", "description": "Clear module name"},
						"lesson": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"objective":           map[string]any{"type": "string"},
								"keyConcepts":         stringArray("3-5 foundational concepts"),
								"explanationELI5":     map[string]any{"type": "string"},
								"detailedExplanation": map[string]any{"type": "string"},
								"realWorldExample":    map[string]any{"type": "string"},
								"recap":               stringArray("3 summary points"),
								"interviewTips": map[string]any{
									"type": "object",
									"properties": map[string]any{
										"howToAnswer":       map[string]any{"type": "string"},
										"expectedQuestions": stringArray("3 likely interview questions"),
									},
									"required":             []any{"howToAnswer", "expectedQuestions"},
									"additionalProperties": false,
								},
							},
							"required": []any{
								"objective", "keyConcepts", "explanationELI5", "detailedExplanation",
								"realWorldExample", "recap", "interviewTips",
							},
							"additionalProperties": false,
						},
						"quiz": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"question":     map[string]any{"type": "string"},
									"options":      stringArray("Answer choices"),
									"correctIndex": map[string]any{"type": "integer"},
									"explanation":  map[string]any{"type": "string"},
								},
								"required":             []any{"question", "options", "correctIndex", "explanation"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"id", "title", "lesson", "quiz"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"modules", "visualKeyword"},
		"additionalProperties": false,
	},
}
