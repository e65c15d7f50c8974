package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/prepnest/lms-backend/config"
	"github.com/prepnest/lms-backend/database"
	_ "github.com/prepnest/lms-backend/docs" // Swagger docs
	adminctrl "github.com/prepnest/lms-backend/internal/controller/admin"
	candidatectrl "github.com/prepnest/lms-backend/internal/controller/candidate"
	"github.com/prepnest/lms-backend/internal/logger"
	"github.com/prepnest/lms-backend/internal/middleware"
	"github.com/prepnest/lms-backend/internal/model"
	"github.com/prepnest/lms-backend/internal/repository"
	"github.com/prepnest/lms-backend/internal/service"
)

// @title PrepNest LMS API
// @version 1.0
// @description Learning-management API: subjects, chapters, spreadsheet-ingested tests and practice banks, graded candidate attempts with lock-on-pass.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewTxRunner,
			repository.NewTestRepository,
			repository.NewSubjectTestRepository,
			repository.NewPracticeRepository,
			repository.NewSubjectRepository,
			repository.NewCandidateRepository,
			repository.NewLedgerRepository,
			repository.NewAdminRepository,
		),

		fx.Provide(
			service.NewTokenService,
			service.NewIngestService,
			service.NewBankService,
			service.NewSubjectService,
			service.NewEligibilityService,
			service.NewAttemptService,
			service.NewPracticeService,
			service.NewCandidateService,
			service.NewAdminService,
		),

		fx.Provide(
			adminctrl.NewAuthController,
			adminctrl.NewBankController,
			adminctrl.NewSubjectController,
			candidatectrl.NewAuthController,
			candidatectrl.NewAttemptController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Uploaded workbooks and chapter assets are served statically.
	r.Static("/uploads", cfg.Uploads.Dir)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer binds the HTTP surface and manages the
// server lifecycle via fx hooks.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	tokens service.TokenService,
	adminAuthCtrl *adminctrl.AuthController,
	bankCtrl *adminctrl.BankController,
	subjectCtrl *adminctrl.SubjectController,
	candAuthCtrl *candidatectrl.AuthController,
	attemptCtrl *candidatectrl.AttemptController,
) {
	api := router.Group("/api/v1")

	// Admin surface.
	adminAPI := api.Group("/admin")
	adminAPI.POST("/register", adminAuthCtrl.Register)
	adminAPI.POST("/login", adminAuthCtrl.Login)

	adminAuthed := adminAPI.Group("", middleware.RequireAdmin(tokens))
	{
		adminAuthed.GET("/me", adminAuthCtrl.Profile)

		tests := adminAuthed.Group("/tests")
		tests.POST("", bankCtrl.UploadTest)
		tests.GET("", bankCtrl.ListTests)
		tests.GET("/:id/preview", bankCtrl.PreviewTest)
		tests.GET("/:id/download", bankCtrl.DownloadTest)
		tests.DELETE("/:id", bankCtrl.DeleteTest)

		subjectTests := adminAuthed.Group("/subject-tests")
		subjectTests.POST("", bankCtrl.UploadSubjectTest)
		subjectTests.GET("", bankCtrl.ListSubjectTests)
		subjectTests.GET("/:id/preview", bankCtrl.PreviewSubjectTest)
		subjectTests.GET("/:id/download", bankCtrl.DownloadSubjectTest)
		subjectTests.DELETE("/:id", bankCtrl.DeleteSubjectTest)

		practices := adminAuthed.Group("/practices")
		practices.POST("", bankCtrl.UploadPractice)
		practices.GET("", bankCtrl.ListPractices)
		practices.GET("/:id/preview", bankCtrl.PreviewPractice)
		practices.GET("/:id/download", bankCtrl.DownloadPractice)
		practices.DELETE("/:id", bankCtrl.DeletePractice)

		subjects := adminAuthed.Group("/subjects")
		subjects.POST("", subjectCtrl.CreateSubject)
		subjects.GET("", subjectCtrl.ListSubjects)
		subjects.GET("/:id", subjectCtrl.GetSubject)
		subjects.POST("/:id/chapters", subjectCtrl.AddChapter)
		subjects.POST("/:id/chapters/:chapterId/topics", subjectCtrl.AddTopic)
		subjects.PUT("/:id/chapters/:chapterId/topics/:topicId", subjectCtrl.UpdateTopic)
		subjects.POST("/:id/chapters/:chapterId/test", subjectCtrl.LinkChapterTest)
		subjects.DELETE("/:id/chapters/:chapterId/test", subjectCtrl.UnlinkChapterTest)
		subjects.POST("/:id/chapters/:chapterId/practice", subjectCtrl.LinkChapterPractice)
		subjects.DELETE("/:id/chapters/:chapterId/practice", subjectCtrl.UnlinkChapterPractice)
		subjects.POST("/:id/subject-tests", subjectCtrl.LinkSubjectTests)
		subjects.DELETE("/:id/subject-tests/:subjectTestId", subjectCtrl.UnlinkSubjectTest)
	}

	// Candidate surface.
	candidates := api.Group("/candidates")
	candidates.POST("/register", candAuthCtrl.Register)
	candidates.POST("/login", candAuthCtrl.Login)
	candidates.GET("/check-username", candAuthCtrl.CheckUsername)

	candAuthed := api.Group("", middleware.RequireCandidate(tokens))
	{
		candAuthed.GET("/me", candAuthCtrl.Me)
		candAuthed.GET("/me/subjects", candAuthCtrl.MySubjects)
		candAuthed.GET("/me/results", candAuthCtrl.MyResults)

		chapters := candAuthed.Group("/subjects/:subjectId/chapters/:chapterId")
		chapters.GET("/test", attemptCtrl.FetchChapterTest)
		chapters.POST("/test/submit", attemptCtrl.SubmitChapterTest)
		chapters.GET("/practice", attemptCtrl.FetchPractice)
		chapters.POST("/practice/finish", attemptCtrl.FinishPractice)

		candAuthed.GET("/subjects/:subjectId/subject-tests", attemptCtrl.ListSubjectTests)
		candAuthed.POST("/subjects/:subjectId/subject-tests/submit", attemptCtrl.SubmitSubjectTest)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("LMS API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Admin{},
		&model.Test{},
		&model.TestQuestion{},
		&model.SubjectTest{},
		&model.SubjectTestQuestion{},
		&model.Practice{},
		&model.PracticeQuestion{},
		&model.Subject{},
		&model.Chapter{},
		&model.Topic{},
		&model.LinkedSubjectTest{},
		&model.Candidate{},
		&model.CandidateSubject{},
		&model.AttemptResult{},
		&model.PracticeResult{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
