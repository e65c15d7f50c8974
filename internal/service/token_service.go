package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prepnest/lms-backend/config"
)

const (
	RoleAdmin     = "admin"
	RoleCandidate = "candidate"
)

// Claims is the verified caller identity: an administrator marker or a
// candidate identifier. The grading core only ever sees the resulting
// SubjectID, never the token machinery.
type Claims struct {
	Role      string `json:"role"`
	SubjectID uint   `json:"sub_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies bearer tokens. The secret comes in via
// configuration at construction; no global state is consulted.
type TokenService interface {
	Issue(role string, subjectID uint) (string, error)
	Verify(token string) (*Claims, error)
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(cfg *config.Config) TokenService {
	return &tokenService{secret: []byte(cfg.Auth.JWTSecret), ttl: 7 * 24 * time.Hour}
}

func (s *tokenService) Issue(role string, subjectID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:      role,
		SubjectID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *tokenService) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
