package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/grading"
	"github.com/prepnest/lms-backend/internal/model"
)

func chapterFixture() (*fakeCandidateRepo, *fakeSubjectRepo, *fakeTestRepo, *fakeLedgerRepo) {
	testID := uint(11)
	subjects := &fakeSubjectRepo{byID: map[uint]*model.Subject{
		7: {ID: 7, Name: "Physics", Chapters: []model.Chapter{
			{ID: 3, SubjectID: 7, Name: "Optics", LinkedTestID: &testID},
			{ID: 4, SubjectID: 7, Name: "Waves"},
		}},
	}}
	candidates := &fakeCandidateRepo{assigned: map[[2]uint]bool{{1, 7}: true}}
	tests := &fakeTestRepo{byID: map[uint]*model.Test{
		11: {
			ID: 11, Title: "Optics Test", DurationMin: 10, PassingPercentage: 50,
			TotalQuestionCount: 2,
			Questions: []model.TestQuestion{
				{Position: 0, Prompt: "Q1", OptionA: "yes", OptionB: "no", Answer: "yes"},
				{Position: 1, Prompt: "Q2", OptionA: "yes", OptionB: "no", Answer: "no"},
			},
		},
	}}
	return candidates, subjects, tests, &fakeLedgerRepo{}
}

func TestFetchChapterTestStripsAnswers(t *testing.T) {
	candidates, subjects, tests, ledger := chapterFixture()
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), tests, &fakeSubjectTestRepo{}, ledger)

	resp, err := svc.FetchChapterTest(1, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, "Optics Test", resp.Test.Title)
	require.Len(t, resp.Test.Questions, 2)
	assert.Equal(t, "yes", resp.Test.Questions[0].A)
	// The DTO has no answer field at all; positions survive for grading.
	assert.Equal(t, 1, resp.Test.Questions[1].Position)
}

func TestFetchChapterTestBlockedAfterPass(t *testing.T) {
	candidates, subjects, tests, ledger := chapterFixture()
	ledger.entries = map[[3]interface{}]*model.AttemptResult{
		ledgerKey(1, model.KindChapterTest, 11): {
			CandidateID: 1, Kind: model.KindChapterTest, TestID: 11,
			Status: model.StatusPass, ScorePercentage: 80, AttemptCount: 2,
			AttemptedAt: time.Now(),
		},
	}
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), tests, &fakeSubjectTestRepo{}, ledger)

	_, err := svc.FetchChapterTest(1, 7, 3)
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, 80.0, locked.Result.ScorePercentage)
	assert.Equal(t, 2, locked.Result.AttemptCount)
}

func TestFetchChapterTestNoLinkage(t *testing.T) {
	candidates, subjects, tests, ledger := chapterFixture()
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), tests, &fakeSubjectTestRepo{}, ledger)

	_, err := svc.FetchChapterTest(1, 7, 4)
	assert.ErrorIs(t, err, ErrNoLinkage)
}

func TestSubmitChapterTestLinkMismatch(t *testing.T) {
	candidates, subjects, tests, ledger := chapterFixture()
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), tests, &fakeSubjectTestRepo{}, ledger)

	req := dto.SubmitChapterTestDTO{
		TestID:  99,
		Answers: []grading.Answer{{Index: 0, Selected: "A"}},
	}
	_, err := svc.SubmitChapterTest(1, 7, 3, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitChapterTestOverwritesFailedAttempt(t *testing.T) {
	candidates, subjects, tests, ledger := chapterFixture()
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), tests, &fakeSubjectTestRepo{}, ledger)

	wrong := dto.SubmitChapterTestDTO{
		TestID:  11,
		Answers: []grading.Answer{{Index: 0, Selected: "B"}, {Index: 1, Selected: "A"}},
	}
	resp, err := svc.SubmitChapterTest(1, 7, 3, wrong)
	require.NoError(t, err)
	assert.False(t, resp.Grading.Passed)

	right := dto.SubmitChapterTestDTO{
		TestID:  11,
		Answers: []grading.Answer{{Index: 0, Selected: "A"}, {Index: 1, Selected: "B"}},
	}
	resp, err = svc.SubmitChapterTest(1, 7, 3, right)
	require.NoError(t, err)
	assert.True(t, resp.Grading.Passed)

	// One row per (candidate, kind, test): the retake overwrote, it did
	// not accumulate.
	require.Len(t, ledger.entries, 1)
	entry := ledger.entries[ledgerKey(1, model.KindChapterTest, 11)]
	require.NotNil(t, entry)
	assert.Equal(t, model.StatusPass, entry.Status)
	assert.Equal(t, 2, entry.AttemptCount)

	// The pass locks the ledger; a third submission is rejected.
	_, err = svc.SubmitChapterTest(1, 7, 3, right)
	var locked *LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, 2, entry.AttemptCount)
}

func TestSubmitChapterTestRetriesLostFirstInsert(t *testing.T) {
	candidates, subjects, tests, ledger := chapterFixture()
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), tests, &fakeSubjectTestRepo{}, ledger)

	// A concurrent first submission commits between our empty locked read
	// and our insert: the insert trips the unique index and the transition
	// is re-run against the committed row.
	ledger.saveHook = func(*model.AttemptResult) error {
		ledger.entries = map[[3]interface{}]*model.AttemptResult{
			ledgerKey(1, model.KindChapterTest, 11): {
				CandidateID: 1, Kind: model.KindChapterTest, TestID: 11,
				Status: model.StatusFail, AttemptCount: 1, AttemptedAt: time.Now(),
			},
		}
		return gorm.ErrDuplicatedKey
	}

	req := dto.SubmitChapterTestDTO{
		TestID:  11,
		Answers: []grading.Answer{{Index: 0, Selected: "A"}, {Index: 1, Selected: "B"}},
	}
	resp, err := svc.SubmitChapterTest(1, 7, 3, req)
	require.NoError(t, err)
	assert.True(t, resp.Grading.Passed)

	require.Len(t, ledger.entries, 1)
	entry := ledger.entries[ledgerKey(1, model.KindChapterTest, 11)]
	require.NotNil(t, entry)
	assert.Equal(t, model.StatusPass, entry.Status)
	assert.Equal(t, 2, entry.AttemptCount)
}

func TestListSubjectTestsFiltersPassed(t *testing.T) {
	subjects := &fakeSubjectRepo{byID: map[uint]*model.Subject{
		7: {ID: 7, Name: "Physics", LinkedSubjectTests: []model.LinkedSubjectTest{
			{SubjectID: 7, SubjectTestID: 21, Title: "Mock A"},
			{SubjectID: 7, SubjectTestID: 22, Title: "Mock B"},
		}},
	}}
	candidates := &fakeCandidateRepo{assigned: map[[2]uint]bool{{1, 7}: true}}
	subjectTests := &fakeSubjectTestRepo{byID: map[uint]*model.SubjectTest{
		21: {ID: 21, Title: "Mock A"},
		22: {ID: 22, Title: "Mock B"},
	}}
	ledger := &fakeLedgerRepo{entries: map[[3]interface{}]*model.AttemptResult{
		ledgerKey(1, model.KindSubjectTest, 21): {
			CandidateID: 1, Kind: model.KindSubjectTest, TestID: 21, Status: model.StatusPass,
		},
	}}
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), &fakeTestRepo{}, subjectTests, ledger)

	resp, err := svc.ListSubjectTests(1, 7)
	require.NoError(t, err)
	assert.False(t, resp.AllPassed)
	require.Len(t, resp.Tests, 1)
	assert.Equal(t, "Mock B", resp.Tests[0].Title)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.TotalLinked)
	assert.Equal(t, 1, resp.Meta.PassedCount)

	// Pass the second one: the list collapses to the all-passed signal.
	ledger.entries[ledgerKey(1, model.KindSubjectTest, 22)] = &model.AttemptResult{
		CandidateID: 1, Kind: model.KindSubjectTest, TestID: 22, Status: model.StatusPass,
	}
	resp, err = svc.ListSubjectTests(1, 7)
	require.NoError(t, err)
	assert.True(t, resp.AllPassed)
	assert.Empty(t, resp.Tests)
}

func TestListSubjectTestsNothingLinked(t *testing.T) {
	subjects := &fakeSubjectRepo{byID: map[uint]*model.Subject{7: {ID: 7, Name: "Physics"}}}
	candidates := &fakeCandidateRepo{assigned: map[[2]uint]bool{{1, 7}: true}}
	svc := NewAttemptService(fakeTx{}, NewEligibilityService(candidates, subjects), &fakeTestRepo{}, &fakeSubjectTestRepo{}, &fakeLedgerRepo{})

	resp, err := svc.ListSubjectTests(1, 7)
	require.NoError(t, err)
	assert.Zero(t, resp.Count)
	// An empty link list is not "all passed".
	assert.False(t, resp.AllPassed)
	assert.Nil(t, resp.Meta)
}
