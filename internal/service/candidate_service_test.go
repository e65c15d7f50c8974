package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prepnest/lms-backend/config"
	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/model"
)

func testTokens() TokenService {
	return NewTokenService(&config.Config{Auth: config.Auth{JWTSecret: "test-secret"}})
}

func registerReq() dto.CandidateRegisterDTO {
	return dto.CandidateRegisterDTO{
		ParentEmail: "Parent@Example.COM",
		ParentPhone: "555-0100",
		Country:     "gb",
		Name:        "Alex Doe",
		Username:    "alex.doe",
		Password:    "s3cretpass",
		Method:      "online",
	}
}

func TestRegisterNormalizesAndAssignsSubjects(t *testing.T) {
	candidates := &fakeCandidateRepo{}
	subjects := &fakeSubjectRepo{byID: map[uint]*model.Subject{
		1: {ID: 1, Name: "Physics"},
		2: {ID: 2, Name: "Chemistry"},
	}}
	svc := NewCandidateService(candidates, subjects, testTokens())

	req := registerReq()
	req.Subjects = []string{" Physics ", ""}
	req.SubjectIDs = []uint{2}

	out, err := svc.Register(req)
	require.NoError(t, err)
	assert.Equal(t, "parent@example.com", out.ParentEmail)
	assert.Equal(t, "GB", out.Country)
	require.Len(t, out.Subjects, 2)

	stored := candidates.candidates[out.ID]
	require.NotNil(t, stored)
	// The hash is stored, never the password itself.
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")))
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := NewCandidateService(&fakeCandidateRepo{}, &fakeSubjectRepo{}, testTokens())

	req := registerReq()
	req.Password = "has space"
	_, err := svc.Register(req)
	assert.ErrorIs(t, err, ErrValidation)

	req = registerReq()
	req.Username = "x"
	_, err = svc.Register(req)
	assert.ErrorIs(t, err, ErrValidation)

	taken := &fakeCandidateRepo{taken: map[string]bool{"alex.doe": true}}
	_, err = NewCandidateService(taken, &fakeSubjectRepo{}, testTokens()).Register(registerReq())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginUniformRejection(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rightpass"), bcrypt.MinCost)
	require.NoError(t, err)
	candidates := &fakeCandidateRepo{candidates: map[uint]*model.Candidate{
		1: {ID: 1, Username: "alex", ParentEmail: "parent@example.com", PasswordHash: string(hash)},
	}}
	svc := NewCandidateService(candidates, &fakeSubjectRepo{}, testTokens())

	_, err = svc.Login(dto.CandidateLoginDTO{Identifier: "nobody", Password: "rightpass"})
	assert.ErrorIs(t, err, ErrInvalidAuth)

	_, err = svc.Login(dto.CandidateLoginDTO{Identifier: "alex", Password: "wrongpass"})
	assert.ErrorIs(t, err, ErrInvalidAuth)

	resp, err := svc.Login(dto.CandidateLoginDTO{Identifier: "parent@example.com", Password: "rightpass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, uint(1), resp.Candidate.ID)
}

func TestCheckUsername(t *testing.T) {
	candidates := &fakeCandidateRepo{taken: map[string]bool{"alex": true}}
	svc := NewCandidateService(candidates, &fakeSubjectRepo{}, testTokens())

	out := svc.CheckUsername("a!")
	assert.False(t, out.Available)
	assert.Equal(t, "invalid", out.Reason)

	out = svc.CheckUsername("alex")
	assert.False(t, out.Available)
	assert.Equal(t, "taken", out.Reason)
	assert.Len(t, out.Suggestions, 5)
	for _, s := range out.Suggestions {
		assert.NotEqual(t, "alex", s)
	}

	out = svc.CheckUsername("fresh-name")
	assert.True(t, out.Available)
	assert.Empty(t, out.Reason)
}

func TestMySubjectsResolvesAssignments(t *testing.T) {
	subjects := &fakeSubjectRepo{byID: map[uint]*model.Subject{
		1: {ID: 1, Name: "Physics"},
		2: {ID: 2, Name: "Chemistry"},
	}}
	candidates := &fakeCandidateRepo{assigned: map[[2]uint]bool{
		{9, 2}: true,
		{9, 1}: true,
	}}
	svc := NewCandidateService(candidates, subjects, testTokens())

	out, err := svc.MySubjects(9)
	require.NoError(t, err)
	require.Len(t, out, 2)
	names := []string{out[0].Name, out[1].Name}
	assert.ElementsMatch(t, []string{"Physics", "Chemistry"}, names)
}
