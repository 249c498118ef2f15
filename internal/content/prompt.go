package content

import (
	"fmt"
	"strings"

	"github.com/abhisek/learneye/internal/learner"
)

const courseSystemPrompt = `You are an expert curriculum designer building adaptive learning paths for self-directed learners. Lessons are friendly, supportive and extremely clear.`

func buildCourseUserMessage(goal string, persona learner.Persona, language string, questions int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", goal)
	fmt.Fprintf(&b, "Language: %s\n", language)
	fmt.Fprintf(&b, "Learner persona: %s (%s)\n", persona, persona.Description())

	fmt.Fprintf(&b, `
Instructions:
1. Provide a visualKeyword for topic imagery.
2. Create 4-5 progressive modules. Each module builds on the previous one.
3. Each module has a unique id, a clear title and an extensive lesson:
   - objective: one clear, simple goal
   - keyConcepts: 3-5 foundational concepts
   - explanationELI5: a simple analogy or story that introduces the concept
   - detailedExplanation: step-by-step explanation a complete beginner can follow
   - realWorldExample: a practical, relatable scenario
   - recap: exactly 3 summary points
   - interviewTips: howToAnswer (how to explain this in a job interview) and 3 expectedQuestions
4. Each module has a quiz of exactly %d very easy, beginner-level multiple-choice questions.
   Every question has options, the zero-based correctIndex of the right option, and an explanation.
5. Match the tone to the learner persona.
6. Write every field in %s.`, questions, language)

	return b.String()
}

func tutorSystemPrompt(tc TutorContext) string {
	return fmt.Sprintf(`You are LearnEye, a world-class adaptive tutor.
Topic: %q. Language: %s. Persona: %s.
Be friendly and supportive, and guide the learner with stories and simple explanations. Never give answers directly; ask guiding questions instead.`,
		tc.Topic, tc.Language, tc.Persona)
}

// Greeting is the tutor's opening message for a learner.
func Greeting(name, topic string) string {
	if strings.TrimSpace(topic) == "" {
		topic = "your chosen topic"
	}
	return fmt.Sprintf("Hi %s! 👋 I'm your LearnEye Buddy. I've designed your learning path for %s. "+
		"If any concept feels complex, just ask and I'll break it down for you!", name, topic)
}
