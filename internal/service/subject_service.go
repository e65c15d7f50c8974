package service

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
)

// SubjectService owns the subject aggregate: chapters, topics and the
// links from chapters to chapter tests / practice banks plus the
// subject-level test list. Linking caches the bank's title on the link row
// so listings never need a join.
type SubjectService interface {
	Create(req dto.SubjectCreateDTO) (*model.Subject, error)
	Get(id uint) (*model.Subject, error)
	List() ([]model.Subject, error)

	AddChapter(subjectID uint, req dto.ChapterCreateDTO) (*model.Chapter, error)
	AddTopic(subjectID, chapterID uint, req dto.TopicDTO) (*model.Topic, error)
	UpdateTopic(subjectID, chapterID, topicID uint, req dto.TopicDTO) (*model.Topic, error)

	LinkChapterTest(subjectID, chapterID, testID uint) (*model.Chapter, error)
	UnlinkChapterTest(subjectID, chapterID uint) (*model.Chapter, error)
	LinkChapterPractice(subjectID, chapterID, practiceID uint) (*model.Chapter, error)
	UnlinkChapterPractice(subjectID, chapterID uint) (*model.Chapter, error)

	LinkSubjectTests(subjectID uint, subjectTestIDs []uint) (*model.Subject, error)
	UnlinkSubjectTest(subjectID, subjectTestID uint) error
}

type subjectService struct {
	subjectRepo     repository.SubjectRepository
	testRepo        repository.TestRepository
	subjectTestRepo repository.SubjectTestRepository
	practiceRepo    repository.PracticeRepository
}

func NewSubjectService(subjectRepo repository.SubjectRepository, testRepo repository.TestRepository, subjectTestRepo repository.SubjectTestRepository, practiceRepo repository.PracticeRepository) SubjectService {
	return &subjectService{
		subjectRepo:     subjectRepo,
		testRepo:        testRepo,
		subjectTestRepo: subjectTestRepo,
		practiceRepo:    practiceRepo,
	}
}

func (s *subjectService) Create(req dto.SubjectCreateDTO) (*model.Subject, error) {
	subject := &model.Subject{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
	}
	if subject.Name == "" {
		return nil, validationErr("subject name is required")
	}
	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, err
	}
	log.Info().Uint("subject_id", subject.ID).Str("name", subject.Name).Msg("subject created")
	return subject, nil
}

func (s *subjectService) Get(id uint) (*model.Subject, error) {
	subject, err := s.subjectRepo.FindByIDWithChildren(id)
	if err != nil {
		return nil, asNotFound(err, "subject")
	}
	return subject, nil
}

func (s *subjectService) List() ([]model.Subject, error) {
	return s.subjectRepo.FindAll()
}

func (s *subjectService) AddChapter(subjectID uint, req dto.ChapterCreateDTO) (*model.Chapter, error) {
	if _, err := s.subjectRepo.FindByID(subjectID); err != nil {
		return nil, asNotFound(err, "subject")
	}
	ch := &model.Chapter{
		SubjectID:   subjectID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		PDFPath:     req.PDFPath,
		VideoPath:   req.VideoPath,
	}
	if err := s.subjectRepo.AddChapter(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *subjectService) AddTopic(subjectID, chapterID uint, req dto.TopicDTO) (*model.Topic, error) {
	if _, err := s.chapterOf(subjectID, chapterID); err != nil {
		return nil, err
	}
	if req.VideoEndSec > 0 && req.VideoEndSec < req.VideoStartSec {
		return nil, validationErr("video end precedes start")
	}
	t := &model.Topic{
		ChapterID:     chapterID,
		Name:          strings.TrimSpace(req.Name),
		PDFPage:       req.PDFPage,
		VideoStartSec: req.VideoStartSec,
		VideoEndSec:   req.VideoEndSec,
	}
	if t.PDFPage < 1 {
		t.PDFPage = 1
	}
	if err := s.subjectRepo.AddTopic(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *subjectService) UpdateTopic(subjectID, chapterID, topicID uint, req dto.TopicDTO) (*model.Topic, error) {
	chapter, err := s.chapterOf(subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	var topic *model.Topic
	for i := range chapter.Topics {
		if chapter.Topics[i].ID == topicID {
			topic = &chapter.Topics[i]
			break
		}
	}
	if topic == nil {
		return nil, notFoundErr("topic")
	}
	if req.VideoEndSec > 0 && req.VideoEndSec < req.VideoStartSec {
		return nil, validationErr("video end precedes start")
	}
	topic.Name = strings.TrimSpace(req.Name)
	topic.PDFPage = req.PDFPage
	if topic.PDFPage < 1 {
		topic.PDFPage = 1
	}
	topic.VideoStartSec = req.VideoStartSec
	topic.VideoEndSec = req.VideoEndSec
	if err := s.subjectRepo.SaveTopic(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *subjectService) LinkChapterTest(subjectID, chapterID, testID uint) (*model.Chapter, error) {
	chapter, err := s.chapterOf(subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.testRepo.FindByID(testID); err != nil {
		return nil, asNotFound(err, "test")
	}
	chapter.LinkedTestID = &testID
	if err := s.subjectRepo.SaveChapter(chapter); err != nil {
		return nil, err
	}
	log.Info().Uint("chapter_id", chapterID).Uint("test_id", testID).Msg("chapter test linked")
	return chapter, nil
}

func (s *subjectService) UnlinkChapterTest(subjectID, chapterID uint) (*model.Chapter, error) {
	chapter, err := s.chapterOf(subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	chapter.LinkedTestID = nil
	if err := s.subjectRepo.SaveChapter(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func (s *subjectService) LinkChapterPractice(subjectID, chapterID, practiceID uint) (*model.Chapter, error) {
	chapter, err := s.chapterOf(subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.practiceRepo.FindByID(practiceID); err != nil {
		return nil, asNotFound(err, "practice")
	}
	chapter.LinkedPracticeID = &practiceID
	if err := s.subjectRepo.SaveChapter(chapter); err != nil {
		return nil, err
	}
	log.Info().Uint("chapter_id", chapterID).Uint("practice_id", practiceID).Msg("chapter practice linked")
	return chapter, nil
}

func (s *subjectService) UnlinkChapterPractice(subjectID, chapterID uint) (*model.Chapter, error) {
	chapter, err := s.chapterOf(subjectID, chapterID)
	if err != nil {
		return nil, err
	}
	chapter.LinkedPracticeID = nil
	if err := s.subjectRepo.SaveChapter(chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

// LinkSubjectTests adds the given subject tests, skipping ids already
// linked and ids that do not resolve to a stored subject test.
func (s *subjectService) LinkSubjectTests(subjectID uint, subjectTestIDs []uint) (*model.Subject, error) {
	subject, err := s.subjectRepo.FindByIDWithChildren(subjectID)
	if err != nil {
		return nil, asNotFound(err, "subject")
	}

	existing := make(map[uint]struct{}, len(subject.LinkedSubjectTests))
	for _, l := range subject.LinkedSubjectTests {
		existing[l.SubjectTestID] = struct{}{}
	}

	tests, err := s.subjectTestRepo.FindByIDs(subjectTestIDs)
	if err != nil {
		return nil, err
	}
	var links []model.LinkedSubjectTest
	for _, t := range tests {
		if _, dup := existing[t.ID]; dup {
			continue
		}
		links = append(links, model.LinkedSubjectTest{
			SubjectID:     subjectID,
			SubjectTestID: t.ID,
			Title:         t.Title,
		})
	}
	if len(links) > 0 {
		if err := s.subjectRepo.AddLinkedSubjectTests(links); err != nil {
			return nil, err
		}
		log.Info().Uint("subject_id", subjectID).Int("added", len(links)).Msg("subject tests linked")
	}
	return s.subjectRepo.FindByIDWithChildren(subjectID)
}

func (s *subjectService) UnlinkSubjectTest(subjectID, subjectTestID uint) error {
	subject, err := s.subjectRepo.FindByIDWithChildren(subjectID)
	if err != nil {
		return asNotFound(err, "subject")
	}
	linked := false
	for _, l := range subject.LinkedSubjectTests {
		if l.SubjectTestID == subjectTestID {
			linked = true
			break
		}
	}
	if !linked {
		return notFoundErr("linked subject test")
	}
	return s.subjectRepo.RemoveLinkedSubjectTest(subjectID, subjectTestID)
}

func (s *subjectService) chapterOf(subjectID, chapterID uint) (*model.Chapter, error) {
	subject, err := s.subjectRepo.FindByIDWithChildren(subjectID)
	if err != nil {
		return nil, asNotFound(err, "subject")
	}
	for i := range subject.Chapters {
		if subject.Chapters[i].ID == chapterID {
			return &subject.Chapters[i], nil
		}
	}
	return nil, notFoundErr("chapter")
}
