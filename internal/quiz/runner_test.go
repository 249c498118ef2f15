package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/learneye/internal/course"
)

func questions(n int) []course.QuizQuestion {
	qs := make([]course.QuizQuestion, n)
	for i := range qs {
		qs[i] = course.QuizQuestion{
			Question:     "Question",
			Options:      []string{"a", "b", "c", "d"},
			CorrectIndex: i % 4,
			Explanation:  "explained",
		}
	}
	return qs
}

func TestNewRunner_Empty(t *testing.T) {
	_, err := NewRunner(nil)
	assert.ErrorIs(t, err, ErrEmptyQuiz)
}

func TestRunner_AllCorrect(t *testing.T) {
	qs := questions(5)
	r, err := NewRunner(qs)
	require.NoError(t, err)

	var res Result
	for i := 0; i < len(qs); i++ {
		r.Select(qs[i].CorrectIndex)
		ok, err := r.Verify()
		require.NoError(t, err)
		assert.True(t, ok)

		var done bool
		res, done, err = r.Advance()
		require.NoError(t, err)
		assert.Equal(t, i == len(qs)-1, done)
	}

	assert.Equal(t, 5, res.Score)
	assert.Equal(t, 5, res.Total)
	assert.Len(t, res.Attempts, 5)
	assert.True(t, r.Finished())
}

func TestRunner_GenericOverCount(t *testing.T) {
	for _, n := range []int{1, 3, 8} {
		r, err := NewRunner(questions(n))
		require.NoError(t, err)

		var res Result
		done := false
		for !done {
			r.Select(0)
			_, err := r.Verify()
			require.NoError(t, err)
			res, done, err = r.Advance()
			require.NoError(t, err)
		}
		assert.Equal(t, n, res.Total)
		assert.Len(t, res.Attempts, n, "attempts must match questions presented")
	}
}

func TestRunner_ReselectAfterVerifyDoesNotChangeScore(t *testing.T) {
	qs := questions(2)
	r, err := NewRunner(qs)
	require.NoError(t, err)

	wrong := (qs[0].CorrectIndex + 1) % 4
	r.Select(wrong)
	ok, err := r.Verify()
	require.NoError(t, err)
	assert.False(t, ok)

	r.Select(qs[0].CorrectIndex)
	assert.Equal(t, wrong, r.Selected())

	ok, err = r.Verify()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Score())
	assert.Len(t, r.Attempts(), 1)
}

func TestRunner_VerifyRequiresSelection(t *testing.T) {
	r, err := NewRunner(questions(1))
	require.NoError(t, err)

	_, err = r.Verify()
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Empty(t, r.Attempts())
}

func TestRunner_AdvanceRequiresVerify(t *testing.T) {
	r, err := NewRunner(questions(2))
	require.NoError(t, err)

	r.Select(1)
	_, _, err = r.Advance()
	assert.ErrorIs(t, err, ErrNotVerified)
	assert.Equal(t, 0, r.Index())
}

func TestRunner_SelectOutOfRangeIgnored(t *testing.T) {
	r, err := NewRunner(questions(1))
	require.NoError(t, err)

	r.Select(9)
	assert.Equal(t, -1, r.Selected())
	r.Select(-2)
	assert.Equal(t, -1, r.Selected())
}

func TestRunner_AdvanceResetsSelection(t *testing.T) {
	r, err := NewRunner(questions(2))
	require.NoError(t, err)

	r.Select(2)
	_, err = r.Verify()
	require.NoError(t, err)
	_, done, err := r.Advance()
	require.NoError(t, err)
	assert.False(t, done)

	assert.Equal(t, 1, r.Index())
	assert.Equal(t, -1, r.Selected())
	assert.False(t, r.Verified())
}

func TestRunner_AfterFinish(t *testing.T) {
	r, err := NewRunner(questions(1))
	require.NoError(t, err)
	r.Select(0)
	_, err = r.Verify()
	require.NoError(t, err)
	_, done, err := r.Advance()
	require.NoError(t, err)
	require.True(t, done)

	_, err = r.Verify()
	assert.ErrorIs(t, err, ErrFinished)
	_, _, err = r.Advance()
	assert.ErrorIs(t, err, ErrFinished)
}

func TestRunner_MixedScore(t *testing.T) {
	qs := questions(5)
	r, err := NewRunner(qs)
	require.NoError(t, err)

	answers := []bool{true, false, true, false, true}
	var res Result
	for i, right := range answers {
		choice := qs[i].CorrectIndex
		if !right {
			choice = (choice + 1) % 4
		}
		r.Select(choice)
		_, err := r.Verify()
		require.NoError(t, err)
		res, _, err = r.Advance()
		require.NoError(t, err)
	}

	assert.Equal(t, 3, res.Score)
	for i, a := range res.Attempts {
		assert.Equal(t, answers[i], a.Correct, "attempt %d", i)
	}
}
