package candidate

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/middleware"
	"github.com/prepnest/lms-backend/internal/service"
)

// AuthController covers the candidate account surface: registration,
// login, username availability and the candidate's own views.
type AuthController struct {
	candidateService service.CandidateService
	attemptService   service.AttemptService
}

func NewAuthController(candidateService service.CandidateService, attemptService service.AttemptService) *AuthController {
	return &AuthController{candidateService: candidateService, attemptService: attemptService}
}

// Register godoc
// @Summary Register a candidate
// @Description Subject selections may arrive as names or ids; both resolve to canonical pairs.
// @Tags Candidate - Auth
// @Accept json
// @Produce json
// @Param candidate body dto.CandidateRegisterDTO true "Registration data"
// @Success 201 {object} dto.CandidateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid input or username taken"
// @Router /candidates/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.CandidateRegisterDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	cand, err := c.candidateService.Register(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, cand)
}

// Login godoc
// @Summary Log in with parent email or username
// @Tags Candidate - Auth
// @Accept json
// @Produce json
// @Param credentials body dto.CandidateLoginDTO true "Identifier (email or username) and password"
// @Success 200 {object} dto.CandidateLoginResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /candidates/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.CandidateLoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.candidateService.Login(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CheckUsername godoc
// @Summary Check username availability
// @Description Returns suggestions when the name is taken.
// @Tags Candidate - Auth
// @Produce json
// @Param u query string true "Username to check"
// @Success 200 {object} dto.UsernameCheckDTO
// @Router /candidates/check-username [get]
func (c *AuthController) CheckUsername(ctx *gin.Context) {
	result := c.candidateService.CheckUsername(ctx.Query("u"))
	if !result.Available && result.Reason == "invalid" {
		ctx.JSON(http.StatusBadRequest, result)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// Me godoc
// @Summary Get the authenticated candidate's profile
// @Tags Candidate - Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CandidateDTO
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	cand, err := c.candidateService.Me(middleware.CandidateID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, cand)
}

// MySubjects godoc
// @Summary Get the candidate's assigned subjects with chapters and topics
// @Tags Candidate - Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Subject
// @Router /me/subjects [get]
func (c *AuthController) MySubjects(ctx *gin.Context) {
	subjects, err := c.candidateService.MySubjects(middleware.CandidateID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"count": len(subjects), "subjects": subjects})
}

// MyResults godoc
// @Summary Get the candidate's accumulated test and practice results
// @Tags Candidate - Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CandidateResultsDTO
// @Router /me/results [get]
func (c *AuthController) MyResults(ctx *gin.Context) {
	results, err := c.attemptService.Results(middleware.CandidateID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func respondError(ctx *gin.Context, err error) {
	var locked *service.LockedError
	switch {
	case errors.As(err, &locked):
		ctx.JSON(http.StatusConflict, dto.LockedResponse{Message: locked.Reason, Locked: true, Result: locked.Result})
	case errors.Is(err, service.ErrValidation):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	case errors.Is(err, service.ErrInvalidAuth):
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid credentials"})
	case errors.Is(err, service.ErrNotAssigned):
		ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "You are not assigned to this subject."})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNoLinkage):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Msg("unhandled service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Server error"})
	}
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
