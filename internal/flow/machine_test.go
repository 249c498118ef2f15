package flow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learneye/internal/course"
)

type fakeCommitter struct {
	course *course.Course
	xp     int
	calls  int
	err    error
}

func (f *fakeCommitter) CommitQuizResult(idx, score int) (course.QuizOutcome, error) {
	f.calls++
	if f.err != nil {
		return course.QuizOutcome{}, f.err
	}
	out, err := course.ApplyQuizResult(f.course, idx, score, course.DefaultPolicy())
	if err != nil {
		return course.QuizOutcome{}, err
	}
	f.course = out.Course
	f.xp += out.XPDelta
	return out, nil
}

func (f *fakeCommitter) TotalXP() int { return f.xp }

func testCourse(t *testing.T, n int) *course.Course {
	t.Helper()
	mods := make([]course.Module, n)
	for i := range mods {
		mods[i] = course.Module{
			ID:     string(rune('a' + i)),
			Title:  "Module",
			Lesson: &course.LessonBody{Objective: "learn"},
		}
		for q := 0; q < 5; q++ {
			mods[i].Quiz = append(mods[i].Quiz, course.QuizQuestion{
				Question:     "q",
				Options:      []string{"right", "wrong"},
				CorrectIndex: 0,
				Explanation:  "because",
			})
		}
	}
	c, err := course.New("Go", "gopher", mods)
	require.NoError(t, err)
	return c
}

// answer runs the active quiz, getting the first `right` questions correct.
func answer(t *testing.T, m *Machine, right int) {
	t.Helper()
	r := m.Quiz()
	require.NotNil(t, r)
	for i := 0; ; i++ {
		if i < right {
			r.Select(0)
		} else {
			r.Select(1)
		}
		_, err := r.Verify()
		require.NoError(t, err)
		_, done, err := r.Advance()
		require.NoError(t, err)
		if done {
			break
		}
	}
	require.NoError(t, m.Fire(FinishQuiz{}))
}

func TestNew_StartsLoadingWithoutCourse(t *testing.T) {
	m := New(nil, course.DefaultPolicy(), &fakeCommitter{xp: 700})
	assert.Equal(t, ViewLoading, m.View())
	assert.Equal(t, []XPPoint{{Label: "Start", XP: 700}}, m.History())
}

func TestLoading_ReadyAndFailed(t *testing.T) {
	c := testCourse(t, 2)
	m := New(nil, course.DefaultPolicy(), &fakeCommitter{course: c})

	cause := errors.New("content unavailable")
	require.NoError(t, m.Fire(ContentFailed{Err: cause}))
	assert.Equal(t, ViewFailed, m.View())
	assert.Equal(t, cause, m.Failure())

	err := m.Fire(CourseReady{Course: c})
	assert.ErrorIs(t, err, ErrTransitionDenied)

	require.NoError(t, m.Fire(Retry{}))
	assert.Equal(t, ViewLoading, m.View())

	require.NoError(t, m.Fire(CourseReady{Course: c}))
	assert.Equal(t, ViewRoadmap, m.View())
	assert.Nil(t, m.Failure())
}

func TestRoadmap_LockedModuleDenied(t *testing.T) {
	c := testCourse(t, 3)
	m := New(c, course.DefaultPolicy(), &fakeCommitter{course: c})

	err := m.Fire(SelectModule{Index: 1})
	assert.ErrorIs(t, err, ErrTransitionDenied)
	assert.Equal(t, ViewRoadmap, m.View())
	assert.Equal(t, -1, m.ActiveIndex())

	err = m.Fire(SelectModule{Index: 9})
	assert.ErrorIs(t, err, ErrTransitionDenied)
}

func TestPassFlow(t *testing.T) {
	c := testCourse(t, 3)
	fc := &fakeCommitter{course: c}
	m := New(c, course.DefaultPolicy(), fc)

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	assert.Equal(t, ViewLesson, m.View())

	require.NoError(t, m.Fire(StartQuiz{}))
	assert.Equal(t, ViewQuiz, m.View())

	answer(t, m, 4)
	assert.Equal(t, ViewAnalysis, m.View())
	assert.True(t, m.Passed())
	assert.Equal(t, 4, m.Result().Score)

	require.NoError(t, m.Fire(Acknowledge{}))
	assert.Equal(t, ViewRoadmap, m.View())
	assert.Equal(t, 1, fc.calls)

	mods := m.Course().Modules
	assert.Equal(t, course.StatusCompleted, mods[0].Status)
	assert.Equal(t, course.StatusCurrent, mods[1].Status)
	assert.Equal(t, []XPPoint{{"Start", 0}, {"M1", 500}}, m.History())
	require.NotNil(t, m.LastOutcome())
	assert.Equal(t, 500, m.LastOutcome().XPDelta)
}

func TestFailFlow_ReturnsToLessonWithoutCommit(t *testing.T) {
	c := testCourse(t, 2)
	fc := &fakeCommitter{course: c}
	m := New(c, course.DefaultPolicy(), fc)

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	require.NoError(t, m.Fire(StartQuiz{}))
	answer(t, m, 2)

	assert.False(t, m.Passed())
	require.NoError(t, m.Fire(Acknowledge{}))
	assert.Equal(t, ViewLesson, m.View())
	assert.Equal(t, 0, fc.calls)
	assert.Equal(t, course.StatusCurrent, m.Course().Modules[0].Status)
	assert.Len(t, m.History(), 1)
}

func TestFinishQuiz_DeniedWhileInProgress(t *testing.T) {
	c := testCourse(t, 1)
	m := New(c, course.DefaultPolicy(), &fakeCommitter{course: c})

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	require.NoError(t, m.Fire(StartQuiz{}))

	err := m.Fire(FinishQuiz{})
	assert.ErrorIs(t, err, ErrTransitionDenied)
	assert.Equal(t, ViewQuiz, m.View())
}

func TestBack_AbandonsQuiz(t *testing.T) {
	c := testCourse(t, 2)
	fc := &fakeCommitter{course: c}
	m := New(c, course.DefaultPolicy(), fc)

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	require.NoError(t, m.Fire(StartQuiz{}))
	m.Quiz().Select(0)
	_, err := m.Quiz().Verify()
	require.NoError(t, err)

	require.NoError(t, m.Fire(Back{}))
	assert.Equal(t, ViewLesson, m.View())
	assert.Nil(t, m.Quiz())

	require.NoError(t, m.Fire(Back{}))
	assert.Equal(t, ViewRoadmap, m.View())
	assert.Equal(t, 0, fc.calls)
	assert.Equal(t, course.StatusCurrent, m.Course().Modules[0].Status)

	// restarting gives a fresh runner
	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	require.NoError(t, m.Fire(StartQuiz{}))
	assert.Equal(t, 0, m.Quiz().Index())
	assert.Equal(t, 0, m.Quiz().Score())
}

func TestStartQuiz_NoQuizDenied(t *testing.T) {
	c := testCourse(t, 1)
	c.Modules[0].Quiz = nil
	m := New(c, course.DefaultPolicy(), &fakeCommitter{course: c})

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	err := m.Fire(StartQuiz{})
	assert.ErrorIs(t, err, ErrTransitionDenied)
	assert.Equal(t, ViewLesson, m.View())
}

func TestAnalysis_CommitErrorKeepsState(t *testing.T) {
	c := testCourse(t, 1)
	fc := &fakeCommitter{course: c}
	m := New(c, course.DefaultPolicy(), fc)

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	require.NoError(t, m.Fire(StartQuiz{}))
	answer(t, m, 5)

	fc.err = errors.New("disk full")
	err := m.Fire(Acknowledge{})
	assert.Error(t, err)
	assert.Equal(t, ViewAnalysis, m.View())
	assert.Len(t, m.History(), 1)
}

func TestReviewCompletedModule(t *testing.T) {
	c := testCourse(t, 2)
	fc := &fakeCommitter{course: c}
	m := New(c, course.DefaultPolicy(), fc)

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	require.NoError(t, m.Fire(StartQuiz{}))
	answer(t, m, 5)
	require.NoError(t, m.Fire(Acknowledge{}))

	require.NoError(t, m.Fire(SelectModule{Index: 0}))
	require.NoError(t, m.Fire(StartQuiz{}))
	answer(t, m, 5)
	require.NoError(t, m.Fire(Acknowledge{}))

	assert.Equal(t, 500, fc.xp)
	assert.Equal(t, []XPPoint{{"Start", 0}, {"M1", 500}, {"M1", 500}}, m.History())
}

func TestUnexpectedEventsDenied(t *testing.T) {
	c := testCourse(t, 1)
	m := New(c, course.DefaultPolicy(), &fakeCommitter{course: c})

	for _, ev := range []Event{StartQuiz{}, FinishQuiz{}, Acknowledge{}, Back{}, Retry{}} {
		err := m.Fire(ev)
		assert.ErrorIs(t, err, ErrTransitionDenied, ev.String())
		assert.Equal(t, ViewRoadmap, m.View())
	}
}
