package service

import (
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
)

// EligibilityService gates every candidate-facing fetch and submit: the
// candidate must be assigned the subject, and the requested bank must be
// reachable through the subject's own linkage. Fetch and submit paths run
// the exact same checks so a client cannot submit what it could not fetch.
type EligibilityService interface {
	// ChapterAccess verifies assignment and resolves the chapter inside the
	// subject. The returned subject carries its chapters and linked subject
	// tests preloaded.
	ChapterAccess(candidateID, subjectID, chapterID uint) (*model.Subject, *model.Chapter, error)
	// SubjectAccess verifies assignment and loads the subject with children.
	SubjectAccess(candidateID, subjectID uint) (*model.Subject, error)
}

type eligibilityService struct {
	candidateRepo repository.CandidateRepository
	subjectRepo   repository.SubjectRepository
}

func NewEligibilityService(candidateRepo repository.CandidateRepository, subjectRepo repository.SubjectRepository) EligibilityService {
	return &eligibilityService{candidateRepo: candidateRepo, subjectRepo: subjectRepo}
}

func (s *eligibilityService) SubjectAccess(candidateID, subjectID uint) (*model.Subject, error) {
	assigned, err := s.candidateRepo.IsAssigned(candidateID, subjectID)
	if err != nil {
		return nil, err
	}
	if !assigned {
		return nil, ErrNotAssigned
	}
	subject, err := s.subjectRepo.FindByIDWithChildren(subjectID)
	if err != nil {
		return nil, asNotFound(err, "subject")
	}
	return subject, nil
}

func (s *eligibilityService) ChapterAccess(candidateID, subjectID, chapterID uint) (*model.Subject, *model.Chapter, error) {
	subject, err := s.SubjectAccess(candidateID, subjectID)
	if err != nil {
		return nil, nil, err
	}
	for i := range subject.Chapters {
		if subject.Chapters[i].ID == chapterID {
			return subject, &subject.Chapters[i], nil
		}
	}
	return nil, nil, notFoundErr("chapter")
}
