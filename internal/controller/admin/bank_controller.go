package admin

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/service"
)

// BankController handles the three bank kinds an admin manages: chapter
// tests, subject tests and practice sets. Uploads are multipart with the
// workbook under the "file" field.
type BankController struct {
	ingestService service.IngestService
	bankService   service.BankService
}

func NewBankController(ingestService service.IngestService, bankService service.BankService) *BankController {
	return &BankController{ingestService: ingestService, bankService: bankService}
}

// UploadTest godoc
// @Summary (Admin) Upload a chapter-test workbook
// @Description Parses the workbook's metadata row and question rows and stores the bank alongside the original file.
// @Tags Admin - Banks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Workbook (.xlsx)"
// @Success 201 {object} model.Test
// @Failure 400 {object} dto.ErrorResponse "Missing file or unreadable workbook"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/tests [post]
func (c *BankController) UploadTest(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No file provided"})
		return
	}
	src, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Unreadable upload"})
		return
	}
	defer src.Close()

	test, err := c.ingestService.IngestTest(header.Filename, src)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, test)
}

// ListTests godoc
// @Summary (Admin) List chapter-test banks
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TestSummaryDTO
// @Router /admin/tests [get]
func (c *BankController) ListTests(ctx *gin.Context) {
	tests, err := c.bankService.ListTests()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// PreviewTest godoc
// @Summary (Admin) Preview a chapter-test workbook
// @Description Re-reads the stored workbook so the preview reflects the uploaded file, answers included.
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {object} dto.BankPreviewDTO
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{id}/preview [get]
func (c *BankController) PreviewTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	preview, err := c.bankService.PreviewTest(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, preview)
}

// DownloadTest godoc
// @Summary (Admin) Download the original chapter-test workbook
// @Tags Admin - Banks
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{id}/download [get]
func (c *BankController) DownloadTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	path, err := c.bankService.TestFile(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.FileAttachment(path, filepath.Base(path))
}

// DeleteTest godoc
// @Summary (Admin) Delete a chapter-test bank and its file
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Test ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Test not found"
// @Router /admin/tests/{id} [delete]
func (c *BankController) DeleteTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.bankService.DeleteTest(id); err != nil {
		respondError(ctx, err)
		return
	}
	log.Info().Uint("test_id", id).Msg("chapter test deleted")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Deleted"})
}

// UploadSubjectTest godoc
// @Summary (Admin) Upload a subject-test workbook
// @Tags Admin - Banks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Workbook (.xlsx)"
// @Success 201 {object} model.SubjectTest
// @Failure 400 {object} dto.ErrorResponse "Missing file or unreadable workbook"
// @Router /admin/subject-tests [post]
func (c *BankController) UploadSubjectTest(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No file provided"})
		return
	}
	src, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Unreadable upload"})
		return
	}
	defer src.Close()

	test, err := c.ingestService.IngestSubjectTest(header.Filename, src)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, test)
}

// ListSubjectTests godoc
// @Summary (Admin) List subject-test banks
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SubjectTestSummaryDTO
// @Router /admin/subject-tests [get]
func (c *BankController) ListSubjectTests(ctx *gin.Context) {
	tests, err := c.bankService.ListSubjectTests()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// PreviewSubjectTest godoc
// @Summary (Admin) Preview a subject-test workbook
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject test ID"
// @Success 200 {object} dto.BankPreviewDTO
// @Failure 404 {object} dto.ErrorResponse "Subject test not found"
// @Router /admin/subject-tests/{id}/preview [get]
func (c *BankController) PreviewSubjectTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	preview, err := c.bankService.PreviewSubjectTest(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, preview)
}

// DownloadSubjectTest godoc
// @Summary (Admin) Download the original subject-test workbook
// @Tags Admin - Banks
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Subject test ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Subject test not found"
// @Router /admin/subject-tests/{id}/download [get]
func (c *BankController) DownloadSubjectTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	path, err := c.bankService.SubjectTestFile(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.FileAttachment(path, filepath.Base(path))
}

// DeleteSubjectTest godoc
// @Summary (Admin) Delete a subject-test bank and its file
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject test ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Subject test not found"
// @Router /admin/subject-tests/{id} [delete]
func (c *BankController) DeleteSubjectTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.bankService.DeleteSubjectTest(id); err != nil {
		respondError(ctx, err)
		return
	}
	log.Info().Uint("subject_test_id", id).Msg("subject test deleted")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Deleted"})
}

// UploadPractice godoc
// @Summary (Admin) Upload a practice workbook
// @Description Header-addressed format: Question, Option1..Option4, CorrectAnswer, Category and a declared total column.
// @Tags Admin - Banks
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Workbook (.xlsx)"
// @Success 201 {object} model.Practice
// @Failure 400 {object} dto.ErrorResponse "Missing file or unreadable workbook"
// @Router /admin/practices [post]
func (c *BankController) UploadPractice(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No file uploaded"})
		return
	}
	src, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Unreadable upload"})
		return
	}
	defer src.Close()

	practice, err := c.ingestService.IngestPractice(header.Filename, src)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, practice)
}

// ListPractices godoc
// @Summary (Admin) List practice banks
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PracticeSummaryDTO
// @Router /admin/practices [get]
func (c *BankController) ListPractices(ctx *gin.Context) {
	practices, err := c.bankService.ListPractices()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, practices)
}

// PreviewPractice godoc
// @Summary (Admin) Preview a practice bank with answers
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Practice ID"
// @Success 200 {object} dto.PracticePreviewDTO
// @Failure 404 {object} dto.ErrorResponse "Practice not found"
// @Router /admin/practices/{id}/preview [get]
func (c *BankController) PreviewPractice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	preview, err := c.bankService.PreviewPractice(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, preview)
}

// DownloadPractice godoc
// @Summary (Admin) Download the original practice workbook
// @Tags Admin - Banks
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Practice ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse "Practice not found"
// @Router /admin/practices/{id}/download [get]
func (c *BankController) DownloadPractice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	path, err := c.bankService.PracticeFile(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.FileAttachment(path, filepath.Base(path))
}

// DeletePractice godoc
// @Summary (Admin) Delete a practice bank and its file
// @Tags Admin - Banks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Practice ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Practice not found"
// @Router /admin/practices/{id} [delete]
func (c *BankController) DeletePractice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.bankService.DeletePractice(id); err != nil {
		respondError(ctx, err)
		return
	}
	log.Info().Uint("practice_id", id).Msg("practice deleted")
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Deleted"})
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
