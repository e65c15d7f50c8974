package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func practiceBank() []PracticeQuestion {
	return []PracticeQuestion{
		{Prompt: "1", Options: []string{"x", "y"}, CorrectAnswer: "x", CorrectIndex: 0},
		{Prompt: "2", Options: []string{"x", "y"}, CorrectAnswer: "y", CorrectIndex: 1},
		{Prompt: "3", Options: []string{"x", "y"}, CorrectAnswer: "x", CorrectIndex: 0},
	}
}

func TestScorePractice(t *testing.T) {
	out := ScorePractice(practiceBank(), []PracticeAnswer{
		{Index: 0, Selected: 0},
		{Index: 1, Selected: 0},
		{Index: 2, Selected: 0},
	})
	assert.Equal(t, 3, out.Attempted)
	assert.Equal(t, 2, out.Correct)
	assert.Equal(t, 1, out.Incorrect)
	assert.Equal(t, 67, out.Percent)
}

func TestScorePracticeGradesByTextWhenIndexMissing(t *testing.T) {
	// correctIndex -1 happens when the answer cell matched no option at
	// ingestion; text comparison still applies.
	qs := []PracticeQuestion{
		{Options: []string{"right", "wrong"}, CorrectAnswer: "right", CorrectIndex: -1},
	}
	out := ScorePractice(qs, []PracticeAnswer{{Index: 0, Selected: 0}})
	assert.Equal(t, 1, out.Correct)
	assert.Equal(t, 100, out.Percent)
}

func TestScorePracticeSkipsInvalidIndices(t *testing.T) {
	out := ScorePractice(practiceBank(), []PracticeAnswer{
		{Index: -1, Selected: 0},
		{Index: 7, Selected: 0},
	})
	assert.Equal(t, 0, out.Attempted)
	assert.Equal(t, 0, out.Percent)
}

func TestScorePracticeUnansweredNotCounted(t *testing.T) {
	out := ScorePractice(practiceBank(), []PracticeAnswer{{Index: 1, Selected: 1}})
	assert.Equal(t, 1, out.Attempted)
	assert.Equal(t, 1, out.Correct)
	assert.Equal(t, 100, out.Percent)
}

func TestScorePracticeSelectionOutOfOptions(t *testing.T) {
	out := ScorePractice(practiceBank(), []PracticeAnswer{{Index: 0, Selected: 9}})
	assert.Equal(t, 1, out.Attempted)
	assert.Equal(t, 0, out.Correct)
}
