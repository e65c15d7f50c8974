package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepnest/lms-backend/internal/dto"
	"github.com/prepnest/lms-backend/internal/service"
)

// SubjectController manages the subject aggregate: subjects, chapters,
// topics, and the links from chapters to banks.
type SubjectController struct {
	subjectService service.SubjectService
}

func NewSubjectController(subjectService service.SubjectService) *SubjectController {
	return &SubjectController{subjectService: subjectService}
}

// CreateSubject godoc
// @Summary (Admin) Create a subject
// @Tags Admin - Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param subject body dto.SubjectCreateDTO true "Subject data"
// @Success 201 {object} model.Subject
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /admin/subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	subject, err := c.subjectService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, subject)
}

// ListSubjects godoc
// @Summary (Admin) List subjects
// @Tags Admin - Subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Subject
// @Router /admin/subjects [get]
func (c *SubjectController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.subjectService.List()
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// GetSubject godoc
// @Summary (Admin) Get a subject with chapters, topics and linked tests
// @Tags Admin - Subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Success 200 {object} model.Subject
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id} [get]
func (c *SubjectController) GetSubject(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	subject, err := c.subjectService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subject)
}

// AddChapter godoc
// @Summary (Admin) Add a chapter to a subject
// @Tags Admin - Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param chapter body dto.ChapterCreateDTO true "Chapter data"
// @Success 201 {object} model.Chapter
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id}/chapters [post]
func (c *SubjectController) AddChapter(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.ChapterCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	chapter, err := c.subjectService.AddChapter(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, chapter)
}

// AddTopic godoc
// @Summary (Admin) Add a topic to a chapter
// @Description A topic names a PDF page plus a video time range inside the chapter's assets.
// @Tags Admin - Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Param topic body dto.TopicDTO true "Topic data"
// @Success 201 {object} model.Topic
// @Failure 404 {object} dto.ErrorResponse "Subject or chapter not found"
// @Router /admin/subjects/{id}/chapters/{chapterId}/topics [post]
func (c *SubjectController) AddTopic(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	var req dto.TopicDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	topic, err := c.subjectService.AddTopic(id, chapterID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, topic)
}

// UpdateTopic godoc
// @Summary (Admin) Update a chapter topic
// @Tags Admin - Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Param topicId path int true "Topic ID"
// @Param topic body dto.TopicDTO true "Topic data"
// @Success 200 {object} model.Topic
// @Failure 404 {object} dto.ErrorResponse "Subject, chapter or topic not found"
// @Router /admin/subjects/{id}/chapters/{chapterId}/topics/{topicId} [put]
func (c *SubjectController) UpdateTopic(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	topicID, ok := pathID(ctx, "topicId")
	if !ok {
		return
	}
	var req dto.TopicDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	topic, err := c.subjectService.UpdateTopic(id, chapterID, topicID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, topic)
}

// LinkChapterTest godoc
// @Summary (Admin) Link a chapter test to a chapter
// @Tags Admin - Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Param link body dto.LinkTestDTO true "Test to link"
// @Success 200 {object} model.Chapter
// @Failure 404 {object} dto.ErrorResponse "Subject, chapter or test not found"
// @Router /admin/subjects/{id}/chapters/{chapterId}/test [post]
func (c *SubjectController) LinkChapterTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	var req dto.LinkTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	chapter, err := c.subjectService.LinkChapterTest(id, chapterID, req.TestID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chapter)
}

// UnlinkChapterTest godoc
// @Summary (Admin) Remove a chapter's linked test
// @Tags Admin - Subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Success 200 {object} model.Chapter
// @Failure 404 {object} dto.ErrorResponse "Subject or chapter not found"
// @Router /admin/subjects/{id}/chapters/{chapterId}/test [delete]
func (c *SubjectController) UnlinkChapterTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	chapter, err := c.subjectService.UnlinkChapterTest(id, chapterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chapter)
}

// LinkChapterPractice godoc
// @Summary (Admin) Link a practice bank to a chapter
// @Tags Admin - Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Param link body dto.LinkPracticeDTO true "Practice to link"
// @Success 200 {object} model.Chapter
// @Failure 404 {object} dto.ErrorResponse "Subject, chapter or practice not found"
// @Router /admin/subjects/{id}/chapters/{chapterId}/practice [post]
func (c *SubjectController) LinkChapterPractice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	var req dto.LinkPracticeDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	chapter, err := c.subjectService.LinkChapterPractice(id, chapterID, req.PracticeID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chapter)
}

// UnlinkChapterPractice godoc
// @Summary (Admin) Remove a chapter's linked practice
// @Tags Admin - Subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param chapterId path int true "Chapter ID"
// @Success 200 {object} model.Chapter
// @Failure 404 {object} dto.ErrorResponse "Subject or chapter not found"
// @Router /admin/subjects/{id}/chapters/{chapterId}/practice [delete]
func (c *SubjectController) UnlinkChapterPractice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	chapterID, ok := pathID(ctx, "chapterId")
	if !ok {
		return
	}
	chapter, err := c.subjectService.UnlinkChapterPractice(id, chapterID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, chapter)
}

// LinkSubjectTests godoc
// @Summary (Admin) Link subject tests to a subject
// @Description Already-linked and unknown ids are skipped; each link caches the test title.
// @Tags Admin - Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param link body dto.LinkSubjectTestsDTO true "Subject tests to link"
// @Success 200 {object} model.Subject
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /admin/subjects/{id}/subject-tests [post]
func (c *SubjectController) LinkSubjectTests(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.LinkSubjectTestsDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	subject, err := c.subjectService.LinkSubjectTests(id, req.SubjectTestIDs)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, subject)
}

// UnlinkSubjectTest godoc
// @Summary (Admin) Remove a linked subject test from a subject
// @Tags Admin - Subjects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subject ID"
// @Param subjectTestId path int true "Subject test ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Subject or link not found"
// @Router /admin/subjects/{id}/subject-tests/{subjectTestId} [delete]
func (c *SubjectController) UnlinkSubjectTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	subjectTestID, ok := pathID(ctx, "subjectTestId")
	if !ok {
		return
	}
	if err := c.subjectService.UnlinkSubjectTest(id, subjectTestID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Unlinked"})
}
