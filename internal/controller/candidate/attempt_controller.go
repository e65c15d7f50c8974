package candidate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/middleware"
	"github.com/prepnest/lms-backend/internal/service"
)

// AttemptController serves the candidate attempt lifecycle: fetching a
// chapter's linked test or practice, submitting answers, and the
// subject-level test list and submission.
type AttemptController struct {
	attemptService  service.AttemptService
	practiceService service.PracticeService
}

func NewAttemptController(attemptService service.AttemptService, practiceService service.PracticeService) *AttemptController {
	return &AttemptController{attemptService: attemptService, practiceService: practiceService}
}

// FetchChapterTest godoc
// @Summary Fetch the test linked to a chapter
// @Description Answers are stripped. Returns 409 with the stored result when the candidate already passed.
// @Tags Candidate - Attempts
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Success 200 {object} dto.FetchChapterTestResponse
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this subject"
// @Failure 404 {object} dto.ErrorResponse "Subject, chapter or linked test not found"
// @Failure 409 {object} dto.LockedResponse "Already passed"
// @Router /subjects/{subjectId}/chapters/{chapterId}/test [get]
func (c *AttemptController) FetchChapterTest(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subjectId")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	resp, err := c.attemptService.FetchChapterTest(middleware.CandidateID(ctx), subjectID, chapterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitChapterTest godoc
// @Summary Submit answers for a chapter test
// @Description Grades against the attempted-answer count and records the result; a passed ledger entry locks further attempts.
// @Tags Candidate - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Param submission body dto.SubmitChapterTestDTO true "Test id, answers and elapsed seconds"
// @Success 200 {object} dto.SubmitTestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid submission or mismatched link"
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this subject"
// @Failure 409 {object} dto.LockedResponse "Already passed"
// @Router /subjects/{subjectId}/chapters/{chapterId}/test/submit [post]
func (c *AttemptController) SubmitChapterTest(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subjectId")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	var req dto.SubmitChapterTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.attemptService.SubmitChapterTest(middleware.CandidateID(ctx), subjectID, chapterID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// FetchPractice godoc
// @Summary Fetch the practice bank linked to a chapter
// @Description Correct answers are never revealed on this path.
// @Tags Candidate - Attempts
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Success 200 {object} dto.FetchPracticeResponse
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this subject"
// @Failure 404 {object} dto.ErrorResponse "Subject, chapter or linked practice not found"
// @Router /subjects/{subjectId}/chapters/{chapterId}/practice [get]
func (c *AttemptController) FetchPractice(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subjectId")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	resp, err := c.practiceService.FetchPractice(middleware.CandidateID(ctx), subjectID, chapterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// FinishPractice godoc
// @Summary Finish a practice session
// @Description Scores server-side against the stored bank and overwrites the previous result for this practice.
// @Tags Candidate - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Param session body dto.FinishPracticeDTO true "Practice id, level and selections"
// @Success 201 {object} dto.PracticeResultDTO
// @Failure 400 {object} dto.ErrorResponse "Mismatched practice link"
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this subject"
// @Router /subjects/{subjectId}/chapters/{chapterId}/practice/finish [post]
func (c *AttemptController) FinishPractice(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subjectId")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	var req dto.FinishPracticeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	result, err := c.practiceService.FinishPractice(middleware.CandidateID(ctx), subjectID, chapterID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, result)
}

// ListSubjectTests godoc
// @Summary List a subject's linked subject tests not yet passed
// @Description Already-passed tests are filtered out; when all are passed the response is a 409 with all_passed=true.
// @Tags Candidate - Attempts
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Success 200 {object} dto.SubjectTestListResponse
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this subject"
// @Failure 409 {object} dto.SubjectTestListResponse "All linked subject tests passed"
// @Router /subjects/{subjectId}/subject-tests [get]
func (c *AttemptController) ListSubjectTests(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subjectId")
	if !ok {
		return
	}
	resp, err := c.attemptService.ListSubjectTests(middleware.CandidateID(ctx), subjectID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if resp.AllPassed && resp.Meta != nil && resp.Meta.TotalLinked > 0 {
		ctx.JSON(http.StatusConflict, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitSubjectTest godoc
// @Summary Submit answers for a subject test
// @Description Grades against the bank's declared total question count, unlike chapter tests.
// @Tags Candidate - Attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subjectId path int true "Subject ID"
// @Param submission body dto.SubmitSubjectTestDTO true "Subject test id, answers and elapsed seconds"
// @Success 200 {object} dto.SubmitTestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid submission or test not linked to subject"
// @Failure 403 {object} dto.ErrorResponse "Not assigned to this subject"
// @Failure 409 {object} dto.LockedResponse "Already passed"
// @Router /subjects/{subjectId}/subject-tests/submit [post]
func (c *AttemptController) SubmitSubjectTest(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subjectId")
	if !ok {
		return
	}
	var req dto.SubmitSubjectTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	resp, err := c.attemptService.SubmitSubjectTest(middleware.CandidateID(ctx), subjectID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
