package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/grading"
	"github.com/prepnest/lms-backend/internal/model"
)

func practiceFixture() (*fakeCandidateRepo, *fakeSubjectRepo, *fakePracticeRepo) {
	practiceID := uint(5)
	subjects := &fakeSubjectRepo{byID: map[uint]*model.Subject{
		7: {ID: 7, Name: "Physics", Chapters: []model.Chapter{
			{ID: 3, SubjectID: 7, Name: "Optics", LinkedPracticeID: &practiceID},
		}},
	}}
	candidates := &fakeCandidateRepo{assigned: map[[2]uint]bool{{1, 7}: true}}
	practices := &fakePracticeRepo{byID: map[uint]*model.Practice{
		5: {
			ID: 5, Title: "Optics Drills", Category: "mixed", TotalQuestionCount: 3,
			Questions: []model.PracticeQuestion{
				{Position: 0, Prompt: "Q1", Options: []string{"a", "b"}, CorrectAnswer: "a", CorrectIndex: 0, Level: "easy"},
				{Position: 1, Prompt: "Q2", Options: []string{"a", "b"}, CorrectAnswer: "b", CorrectIndex: 1, Level: "hard"},
				{Position: 2, Prompt: "Q3", Options: []string{"a", "b"}, CorrectAnswer: "a", CorrectIndex: 0, Level: "easy"},
			},
		},
	}}
	return candidates, subjects, practices
}

func TestFetchPracticeHidesAnswers(t *testing.T) {
	candidates, subjects, practices := practiceFixture()
	svc := NewPracticeService(fakeTx{}, NewEligibilityService(candidates, subjects), practices, &fakeLedgerRepo{})

	resp, err := svc.FetchPractice(1, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, "Optics Drills", resp.Practice.Title)
	require.Len(t, resp.Practice.Questions, 3)
	for _, q := range resp.Practice.Questions {
		assert.Equal(t, -1, q.CorrectIndex)
	}
}

func TestFetchPracticeNoLinkage(t *testing.T) {
	candidates, subjects, practices := practiceFixture()
	subjects.byID[7].Chapters[0].LinkedPracticeID = nil
	svc := NewPracticeService(fakeTx{}, NewEligibilityService(candidates, subjects), practices, &fakeLedgerRepo{})

	_, err := svc.FetchPractice(1, 7, 3)
	assert.ErrorIs(t, err, ErrNoLinkage)
}

func TestFinishPracticeOverwritesPriorResult(t *testing.T) {
	candidates, subjects, practices := practiceFixture()
	ledger := &fakeLedgerRepo{}
	svc := NewPracticeService(fakeTx{}, NewEligibilityService(candidates, subjects), practices, ledger)

	// Level "easy" narrows the bank to Q1 and Q3, both with correct index 0.
	first := dto.FinishPracticeDTO{
		PracticeID: 5,
		Level:      "easy",
		Answers:    []grading.PracticeAnswer{{Index: 0, Selected: 0}, {Index: 1, Selected: 1}},
	}
	result, err := svc.FinishPractice(1, 7, 3, first)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 50, result.ScorePercent)

	second := dto.FinishPracticeDTO{
		PracticeID: 5,
		Level:      "easy",
		Answers:    []grading.PracticeAnswer{{Index: 0, Selected: 0}, {Index: 1, Selected: 0}},
	}
	result, err = svc.FinishPractice(1, 7, 3, second)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 100, result.ScorePercent)

	// A re-finish replaces the stored row, it never accumulates a second one.
	stored, err := ledger.FindPracticeResults(1)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].Correct)
	assert.Equal(t, 100, stored[0].ScorePercent)
	assert.Equal(t, "easy", stored[0].Level)
}

func TestFinishPracticeLinkMismatch(t *testing.T) {
	candidates, subjects, practices := practiceFixture()
	svc := NewPracticeService(fakeTx{}, NewEligibilityService(candidates, subjects), practices, &fakeLedgerRepo{})

	req := dto.FinishPracticeDTO{
		PracticeID: 99,
		Answers:    []grading.PracticeAnswer{{Index: 0, Selected: 0}},
	}
	_, err := svc.FinishPractice(1, 7, 3, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLevelQuestionsFiltering(t *testing.T) {
	_, _, practices := practiceFixture()
	qs := practices.byID[5].Questions

	assert.Len(t, levelQuestions(qs, ""), 3)
	assert.Len(t, levelQuestions(qs, "all"), 3)
	assert.Len(t, levelQuestions(qs, "ALL "), 3)

	easy := levelQuestions(qs, "Easy")
	require.Len(t, easy, 2)
	assert.Equal(t, "Q1", easy[0].Prompt)
	assert.Equal(t, "Q3", easy[1].Prompt)

	assert.Empty(t, levelQuestions(qs, "medium"))
}
