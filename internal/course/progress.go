package course

import "fmt"

// Policy holds the tunable scoring constants for module completion.
type Policy struct {
	// PassThreshold is the minimum score that completes a module.
	PassThreshold int `mapstructure:"pass_threshold"`

	// TotalQuestions is the quiz length requested from the content provider.
	// It is a baseline for display and prompting, not a structural limit.
	TotalQuestions int `mapstructure:"total_questions"`

	// XPReward is granted once per newly completed module.
	XPReward int `mapstructure:"xp_reward"`
}

// DefaultPolicy is "3 of 5 to pass, 500 XP per module".
func DefaultPolicy() Policy {
	return Policy{
		PassThreshold:  3,
		TotalQuestions: 5,
		XPReward:       500,
	}
}

// Passed reports whether score meets the pass threshold.
func (p Policy) Passed(score int) bool {
	return score >= p.PassThreshold
}

// QuizOutcome is the result of applying a quiz score to a course.
type QuizOutcome struct {
	// Course is the updated course (a copy; the input is never mutated).
	Course *Course

	// Passed is true when the score met the threshold.
	Passed bool

	// XPDelta is the XP to award the learner.
	XPDelta int

	// Unlocked is the index of the newly current module, or -1.
	Unlocked int

	// Finished is true when this result completed the last module.
	Finished bool
}

// ApplyQuizResult applies a quiz score for the module at activeIdx.
//
// On a pass the current module is completed at 100% progress, the next
// module is unlocked and the policy's XP reward is returned. A failing
// score leaves the course untouched. Passing a quiz again for a module
// that is already completed is a review and changes nothing.
func ApplyQuizResult(c *Course, activeIdx, score int, policy Policy) (QuizOutcome, error) {
	out := QuizOutcome{Course: c.Clone(), Unlocked: -1}

	mod, err := out.Course.Module(activeIdx)
	if err != nil {
		return QuizOutcome{}, err
	}
	if mod.Status == StatusLocked {
		return QuizOutcome{}, fmt.Errorf("module %d is locked", activeIdx)
	}

	out.Passed = policy.Passed(score)
	if !out.Passed || mod.Status == StatusCompleted {
		return out, nil
	}

	mod.Status = StatusCompleted
	mod.Progress = 100
	out.XPDelta = policy.XPReward

	if next := activeIdx + 1; next < len(out.Course.Modules) {
		if out.Course.Modules[next].Status == StatusLocked {
			out.Course.Modules[next].Status = StatusCurrent
			out.Unlocked = next
		}
	}
	out.Finished = out.Course.Finished()

	return out, nil
}
