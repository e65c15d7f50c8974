package dto

import "time"

// CandidateRegisterDTO accepts subject selections as names and/or ids; both
// are resolved against the subject table and normalized into canonical
// {subjectId, name} pairs before anything is stored.
type CandidateRegisterDTO struct {
	ParentEmail string   `json:"parent_email" binding:"required,email"`
	ParentPhone string   `json:"parent_phone" binding:"required"`
	Country     string   `json:"country" binding:"required,len=2"`
	Name        string   `json:"name" binding:"required"`
	Username    string   `json:"username"`
	Password    string   `json:"password" binding:"required"`
	Method      string   `json:"method" binding:"required"`
	Subjects    []string `json:"subjects"`
	SubjectIDs  []uint   `json:"subject_ids"`
}

// CandidateLoginDTO identifier is parent email or username.
type CandidateLoginDTO struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type SubjectSelectionDTO struct {
	SubjectID uint   `json:"subject_id"`
	Name      string `json:"name"`
}

type CandidateDTO struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Username    string                `json:"username,omitempty"`
	ParentEmail string                `json:"parent_email"`
	Country     string                `json:"country"`
	Method      string                `json:"method"`
	Subjects    []SubjectSelectionDTO `json:"subjects"`
	CreatedAt   time.Time             `json:"created_at"`
}

type CandidateLoginResponse struct {
	Token     string       `json:"token"`
	Candidate CandidateDTO `json:"candidate"`
}

type UsernameCheckDTO struct {
	Available   bool     `json:"available"`
	Reason      string   `json:"reason,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}
