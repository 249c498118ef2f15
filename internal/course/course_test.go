package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModules(n int) []Module {
	mods := make([]Module, n)
	for i := range mods {
		mods[i] = Module{
			ID:    string(rune('a' + i)),
			Title: "Module",
			// Generated content may carry stray statuses; New must override them.
			Status:   StatusCompleted,
			Progress: 40,
			Lesson: &LessonBody{
				Objective:   "Understand it",
				KeyConcepts: []string{"one", "two", "three"},
				Recap:       []string{"r1", "r2", "r3"},
			},
			Quiz: []QuizQuestion{
				{Question: "q?", Options: []string{"x", "y"}, CorrectIndex: 1, Explanation: "because"},
			},
		}
	}
	return mods
}

func TestNew_FirstCurrentRestLocked(t *testing.T) {
	c, err := New("Go", "gopher", testModules(4))
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, StatusCurrent, c.Modules[0].Status)
	for i := 1; i < 4; i++ {
		assert.Equal(t, StatusLocked, c.Modules[i].Status, "module %d", i)
	}
	for _, m := range c.Modules {
		assert.Equal(t, 0, m.Progress)
	}
	assert.Equal(t, 0, c.CurrentIndex())
	require.NoError(t, c.CheckInvariants())
}

func TestNew_NoModules(t *testing.T) {
	_, err := New("Go", "", nil)
	assert.ErrorIs(t, err, ErrNoModules)
}

func TestClone_IsDeep(t *testing.T) {
	c, err := New("Go", "", testModules(2))
	require.NoError(t, err)

	cp := c.Clone()
	cp.Modules[0].Status = StatusCompleted
	cp.Modules[0].Lesson.KeyConcepts[0] = "changed"
	cp.Modules[0].Quiz[0].Options[0] = "changed"

	assert.Equal(t, StatusCurrent, c.Modules[0].Status)
	assert.Equal(t, "one", c.Modules[0].Lesson.KeyConcepts[0])
	assert.Equal(t, "x", c.Modules[0].Quiz[0].Options[0])
}

func TestApplyQuizResult_Pass(t *testing.T) {
	c, err := New("Go", "", testModules(3))
	require.NoError(t, err)

	out, err := ApplyQuizResult(c, 0, 3, DefaultPolicy())
	require.NoError(t, err)

	assert.True(t, out.Passed)
	assert.Equal(t, 500, out.XPDelta)
	assert.Equal(t, 1, out.Unlocked)
	assert.False(t, out.Finished)
	assert.Equal(t, StatusCompleted, out.Course.Modules[0].Status)
	assert.Equal(t, 100, out.Course.Modules[0].Progress)
	assert.Equal(t, StatusCurrent, out.Course.Modules[1].Status)
	assert.Equal(t, StatusLocked, out.Course.Modules[2].Status)
	require.NoError(t, out.Course.CheckInvariants())

	// Input is untouched.
	assert.Equal(t, StatusCurrent, c.Modules[0].Status)
}

func TestApplyQuizResult_Fail(t *testing.T) {
	c, err := New("Go", "", testModules(3))
	require.NoError(t, err)

	out, err := ApplyQuizResult(c, 0, 2, DefaultPolicy())
	require.NoError(t, err)

	assert.False(t, out.Passed)
	assert.Equal(t, 0, out.XPDelta)
	assert.Equal(t, -1, out.Unlocked)
	assert.Equal(t, c.Modules, out.Course.Modules)
}

func TestApplyQuizResult_RetryUnbounded(t *testing.T) {
	c, err := New("Go", "", testModules(2))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		out, err := ApplyQuizResult(c, 0, 0, DefaultPolicy())
		require.NoError(t, err)
		assert.False(t, out.Passed)
		c = out.Course
	}
	out, err := ApplyQuizResult(c, 0, 5, DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 500, out.XPDelta)
}

func TestApplyQuizResult_LastModuleFinishesCourse(t *testing.T) {
	c, err := New("Go", "", testModules(2))
	require.NoError(t, err)

	out, err := ApplyQuizResult(c, 0, 5, DefaultPolicy())
	require.NoError(t, err)
	out, err = ApplyQuizResult(out.Course, 1, 4, DefaultPolicy())
	require.NoError(t, err)

	assert.True(t, out.Finished)
	assert.Equal(t, -1, out.Unlocked)
	assert.True(t, out.Course.Finished())
	assert.Equal(t, -1, out.Course.CurrentIndex())
	require.NoError(t, out.Course.CheckInvariants())
}

func TestApplyQuizResult_ReviewGrantsNothing(t *testing.T) {
	c, err := New("Go", "", testModules(3))
	require.NoError(t, err)
	out, err := ApplyQuizResult(c, 0, 5, DefaultPolicy())
	require.NoError(t, err)

	again, err := ApplyQuizResult(out.Course, 0, 5, DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, again.Passed)
	assert.Equal(t, 0, again.XPDelta)
	assert.Equal(t, -1, again.Unlocked)
	assert.Equal(t, out.Course.Modules, again.Course.Modules)
}

func TestApplyQuizResult_LockedModule(t *testing.T) {
	c, err := New("Go", "", testModules(3))
	require.NoError(t, err)

	_, err = ApplyQuizResult(c, 2, 5, DefaultPolicy())
	assert.Error(t, err)

	_, err = ApplyQuizResult(c, 7, 5, DefaultPolicy())
	assert.ErrorIs(t, err, ErrModuleIndex)
}

func TestApplyQuizResult_CustomThreshold(t *testing.T) {
	c, err := New("Go", "", testModules(2))
	require.NoError(t, err)

	policy := Policy{PassThreshold: 8, TotalQuestions: 10, XPReward: 250}
	out, err := ApplyQuizResult(c, 0, 7, policy)
	require.NoError(t, err)
	assert.False(t, out.Passed)

	out, err = ApplyQuizResult(c, 0, 8, policy)
	require.NoError(t, err)
	assert.True(t, out.Passed)
	assert.Equal(t, 250, out.XPDelta)
}

func TestCheckInvariants(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		wantErr  bool
	}{
		{"fresh", []Status{StatusCurrent, StatusLocked, StatusLocked}, false},
		{"mid", []Status{StatusCompleted, StatusCurrent, StatusLocked}, false},
		{"finished", []Status{StatusCompleted, StatusCompleted}, false},
		{"two current", []Status{StatusCurrent, StatusCurrent}, true},
		{"skip ahead", []Status{StatusCurrent, StatusLocked, StatusCurrent}, true},
		{"completed after locked", []Status{StatusLocked, StatusCompleted}, true},
		{"none current", []Status{StatusCompleted, StatusLocked}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Course{}
			for i, s := range tt.statuses {
				c.Modules = append(c.Modules, Module{ID: string(rune('a' + i)), Status: s})
			}
			err := c.CheckInvariants()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	c, err := New("Go", "", testModules(4))
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Percent())

	out, err := ApplyQuizResult(c, 0, 3, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 0.25, out.Course.Percent())
	assert.Equal(t, 1, out.Course.CompletedCount())
}
