package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/model"
)

func subjectFixture() (*fakeSubjectRepo, SubjectService) {
	subjects := &fakeSubjectRepo{byID: map[uint]*model.Subject{
		1: {ID: 1, Name: "Physics", Chapters: []model.Chapter{
			{ID: 10, SubjectID: 1, Name: "Optics", Topics: []model.Topic{
				{ID: 100, ChapterID: 10, Name: "Lenses", PDFPage: 3},
			}},
		}},
	}}
	tests := &fakeTestRepo{byID: map[uint]*model.Test{20: {ID: 20, Title: "Optics Test"}}}
	subjectTests := &fakeSubjectTestRepo{byID: map[uint]*model.SubjectTest{
		30: {ID: 30, Title: "Mock A"},
		31: {ID: 31, Title: "Mock B"},
	}}
	practices := &fakePracticeRepo{byID: map[uint]*model.Practice{40: {ID: 40, Title: "Drills"}}}
	return subjects, NewSubjectService(subjects, tests, subjectTests, practices)
}

func TestCreateSubjectRequiresName(t *testing.T) {
	_, svc := subjectFixture()

	_, err := svc.Create(dto.SubjectCreateDTO{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	subject, err := svc.Create(dto.SubjectCreateDTO{Name: " Chemistry ", Category: "science"})
	require.NoError(t, err)
	assert.Equal(t, "Chemistry", subject.Name)
}

func TestAddTopicValidatesVideoWindow(t *testing.T) {
	_, svc := subjectFixture()

	_, err := svc.AddTopic(1, 10, dto.TopicDTO{Name: "Mirrors", VideoStartSec: 120, VideoEndSec: 60})
	assert.ErrorIs(t, err, ErrValidation)

	topic, err := svc.AddTopic(1, 10, dto.TopicDTO{Name: "Mirrors", PDFPage: 0})
	require.NoError(t, err)
	// Page numbers are 1-based.
	assert.Equal(t, 1, topic.PDFPage)
}

func TestUpdateTopicUnknownTopic(t *testing.T) {
	_, svc := subjectFixture()

	_, err := svc.UpdateTopic(1, 10, 999, dto.TopicDTO{Name: "Mirrors"})
	assert.ErrorIs(t, err, ErrNotFound)

	topic, err := svc.UpdateTopic(1, 10, 100, dto.TopicDTO{Name: " Thin Lenses ", PDFPage: 5})
	require.NoError(t, err)
	assert.Equal(t, "Thin Lenses", topic.Name)
	assert.Equal(t, 5, topic.PDFPage)
}

func TestLinkChapterTestChecksExistence(t *testing.T) {
	_, svc := subjectFixture()

	_, err := svc.LinkChapterTest(1, 10, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	chapter, err := svc.LinkChapterTest(1, 10, 20)
	require.NoError(t, err)
	require.NotNil(t, chapter.LinkedTestID)
	assert.Equal(t, uint(20), *chapter.LinkedTestID)

	chapter, err = svc.UnlinkChapterTest(1, 10)
	require.NoError(t, err)
	assert.Nil(t, chapter.LinkedTestID)
}

func TestLinkSubjectTestsSkipsDuplicatesAndUnknown(t *testing.T) {
	subjects, svc := subjectFixture()
	subjects.byID[1].LinkedSubjectTests = []model.LinkedSubjectTest{
		{SubjectID: 1, SubjectTestID: 30, Title: "Mock A"},
	}

	subject, err := svc.LinkSubjectTests(1, []uint{30, 31, 999})
	require.NoError(t, err)
	require.Len(t, subject.LinkedSubjectTests, 2)
	assert.Equal(t, "Mock B", subject.LinkedSubjectTests[1].Title)
}

func TestUnlinkSubjectTestRequiresLink(t *testing.T) {
	subjects, svc := subjectFixture()

	err := svc.UnlinkSubjectTest(1, 30)
	assert.ErrorIs(t, err, ErrNotFound)

	subjects.byID[1].LinkedSubjectTests = []model.LinkedSubjectTest{
		{SubjectID: 1, SubjectTestID: 30, Title: "Mock A"},
	}
	require.NoError(t, svc.UnlinkSubjectTest(1, 30))
	assert.Empty(t, subjects.byID[1].LinkedSubjectTests)
}
