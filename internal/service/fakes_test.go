package service

import (
	"github.com/prepnest/lms-backend/internal/model"
	"gorm.io/gorm"
)

// In-memory repository fakes. Lookups miss with gorm.ErrRecordNotFound,
// matching the real repositories.

// fakeTx runs the unit of work without a transaction; the fakes below
// ignore the tx handle.
type fakeTx struct{}

func (fakeTx) InTx(fn func(tx *gorm.DB) error) error { return fn(nil) }

type fakeTestRepo struct {
	created []*model.Test
	byID    map[uint]*model.Test
}

func (f *fakeTestRepo) Create(t *model.Test) error {
	t.ID = uint(len(f.created) + 1)
	f.created = append(f.created, t)
	return nil
}

func (f *fakeTestRepo) FindByID(id uint) (*model.Test, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTestRepo) FindByIDWithQuestions(id uint) (*model.Test, error) {
	return f.FindByID(id)
}

func (f *fakeTestRepo) FindAll() ([]model.Test, error) { return nil, nil }

func (f *fakeTestRepo) Delete(*model.Test) error { return nil }

type fakeSubjectTestRepo struct {
	created []*model.SubjectTest
	byID    map[uint]*model.SubjectTest
}

func (f *fakeSubjectTestRepo) Create(t *model.SubjectTest) error {
	t.ID = uint(len(f.created) + 1)
	f.created = append(f.created, t)
	return nil
}

func (f *fakeSubjectTestRepo) FindByID(id uint) (*model.SubjectTest, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubjectTestRepo) FindByIDWithQuestions(id uint) (*model.SubjectTest, error) {
	return f.FindByID(id)
}

func (f *fakeSubjectTestRepo) FindByIDs(ids []uint) ([]model.SubjectTest, error) {
	var out []model.SubjectTest
	for _, id := range ids {
		if t, ok := f.byID[id]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeSubjectTestRepo) FindAll() ([]model.SubjectTest, error) { return nil, nil }

func (f *fakeSubjectTestRepo) Delete(*model.SubjectTest) error { return nil }

type fakePracticeRepo struct {
	created []*model.Practice
	byID    map[uint]*model.Practice
}

func (f *fakePracticeRepo) Create(p *model.Practice) error {
	p.ID = uint(len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}

func (f *fakePracticeRepo) FindByID(id uint) (*model.Practice, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePracticeRepo) FindByIDWithQuestions(id uint) (*model.Practice, error) {
	return f.FindByID(id)
}

func (f *fakePracticeRepo) FindAll() ([]model.Practice, error) { return nil, nil }

func (f *fakePracticeRepo) Delete(*model.Practice) error { return nil }

type fakeCandidateRepo struct {
	candidates map[uint]*model.Candidate
	assigned   map[[2]uint]bool
	taken      map[string]bool
}

func (f *fakeCandidateRepo) Create(c *model.Candidate) error {
	c.ID = uint(len(f.candidates) + 1)
	if f.candidates == nil {
		f.candidates = map[uint]*model.Candidate{}
	}
	f.candidates[c.ID] = c
	return nil
}

func (f *fakeCandidateRepo) FindByID(id uint) (*model.Candidate, error) {
	if c, ok := f.candidates[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCandidateRepo) FindByIdentifier(identifier string) (*model.Candidate, error) {
	for _, c := range f.candidates {
		if c.ParentEmail == identifier || c.Username == identifier {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCandidateRepo) UsernameTaken(username string) (bool, error) {
	return f.taken[username], nil
}

func (f *fakeCandidateRepo) IsAssigned(candidateID, subjectID uint) (bool, error) {
	return f.assigned[[2]uint{candidateID, subjectID}], nil
}

func (f *fakeCandidateRepo) AssignedSubjectIDs(candidateID uint) ([]uint, error) {
	var ids []uint
	for key, ok := range f.assigned {
		if ok && key[0] == candidateID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

type fakeSubjectRepo struct {
	byID map[uint]*model.Subject
}

func (f *fakeSubjectRepo) Create(s *model.Subject) error {
	s.ID = uint(len(f.byID) + 1)
	if f.byID == nil {
		f.byID = map[uint]*model.Subject{}
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSubjectRepo) FindByID(id uint) (*model.Subject, error) {
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubjectRepo) FindByIDWithChildren(id uint) (*model.Subject, error) {
	return f.FindByID(id)
}

func (f *fakeSubjectRepo) FindByIDs(ids []uint) ([]model.Subject, error) {
	var out []model.Subject
	for _, id := range ids {
		if s, ok := f.byID[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSubjectRepo) FindByName(name string) (*model.Subject, error) {
	for _, s := range f.byID {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubjectRepo) FindByNamesOrIDs(names []string, ids []uint) ([]model.Subject, error) {
	var out []model.Subject
	seen := map[uint]bool{}
	for _, id := range ids {
		if s, ok := f.byID[id]; ok && !seen[s.ID] {
			seen[s.ID] = true
			out = append(out, *s)
		}
	}
	for _, n := range names {
		for _, s := range f.byID {
			if s.Name == n && !seen[s.ID] {
				seen[s.ID] = true
				out = append(out, *s)
			}
		}
	}
	return out, nil
}

func (f *fakeSubjectRepo) FindAll() ([]model.Subject, error) { return nil, nil }

func (f *fakeSubjectRepo) AddChapter(*model.Chapter) error { return nil }

func (f *fakeSubjectRepo) SaveChapter(*model.Chapter) error { return nil }

func (f *fakeSubjectRepo) AddTopic(*model.Topic) error { return nil }

func (f *fakeSubjectRepo) SaveTopic(*model.Topic) error { return nil }

func (f *fakeSubjectRepo) AddLinkedSubjectTests(links []model.LinkedSubjectTest) error {
	for _, l := range links {
		if s, ok := f.byID[l.SubjectID]; ok {
			s.LinkedSubjectTests = append(s.LinkedSubjectTests, l)
		}
	}
	return nil
}

func (f *fakeSubjectRepo) RemoveLinkedSubjectTest(subjectID, subjectTestID uint) error {
	s, ok := f.byID[subjectID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	kept := s.LinkedSubjectTests[:0]
	for _, l := range s.LinkedSubjectTests {
		if l.SubjectTestID != subjectTestID {
			kept = append(kept, l)
		}
	}
	s.LinkedSubjectTests = kept
	return nil
}

type fakeLedgerRepo struct {
	entries  map[[3]interface{}]*model.AttemptResult
	practice []*model.PracticeResult

	// saveHook, when set, intercepts the next Save call exactly once.
	saveHook func(r *model.AttemptResult) error
}

func ledgerKey(candidateID uint, kind model.TestKind, testID uint) [3]interface{} {
	return [3]interface{}{candidateID, kind, testID}
}

func (f *fakeLedgerRepo) Find(candidateID uint, kind model.TestKind, testID uint) (*model.AttemptResult, error) {
	return f.entries[ledgerKey(candidateID, kind, testID)], nil
}

func (f *fakeLedgerRepo) FindForUpdate(tx *gorm.DB, candidateID uint, kind model.TestKind, testID uint) (*model.AttemptResult, error) {
	return f.Find(candidateID, kind, testID)
}

func (f *fakeLedgerRepo) Save(tx *gorm.DB, r *model.AttemptResult) error {
	if hook := f.saveHook; hook != nil {
		f.saveHook = nil
		if err := hook(r); err != nil {
			return err
		}
	}
	if f.entries == nil {
		f.entries = map[[3]interface{}]*model.AttemptResult{}
	}
	f.entries[ledgerKey(r.CandidateID, r.Kind, r.TestID)] = r
	return nil
}

func (f *fakeLedgerRepo) FindAll(candidateID uint, kind model.TestKind) ([]model.AttemptResult, error) {
	var out []model.AttemptResult
	for key, r := range f.entries {
		if key[0] == candidateID && key[1] == kind {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) PassedTestIDs(candidateID uint, kind model.TestKind) ([]uint, error) {
	var ids []uint
	for key, r := range f.entries {
		if key[0] == candidateID && key[1] == kind && r.Status == model.StatusPass {
			ids = append(ids, r.TestID)
		}
	}
	return ids, nil
}

func (f *fakeLedgerRepo) ReplacePracticeResult(tx *gorm.DB, r *model.PracticeResult) error {
	kept := f.practice[:0]
	for _, p := range f.practice {
		if p.CandidateID != r.CandidateID || p.PracticeID != r.PracticeID {
			kept = append(kept, p)
		}
	}
	f.practice = append(kept, r)
	return nil
}

func (f *fakeLedgerRepo) FindPracticeResults(candidateID uint) ([]model.PracticeResult, error) {
	var out []model.PracticeResult
	for _, p := range f.practice {
		if p.CandidateID == candidateID {
			out = append(out, *p)
		}
	}
	return out, nil
}
