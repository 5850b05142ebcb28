package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/Onvitec/adminportal-onvitech-sub001/config"
	"github.com/Onvitec/adminportal-onvitech-sub001/handlers"
	"github.com/Onvitec/adminportal-onvitech-sub001/internal/store"
	"github.com/Onvitec/adminportal-onvitech-sub001/internal/worker"
	"github.com/Onvitec/adminportal-onvitech-sub001/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := config.NewLogger(cfg.LogLevel)

	db, err := config.NewSupabaseClient(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize Supabase: %v", err)
	}

	st := store.New(db, logger)

	dispatcher := worker.NewDispatcher(cfg.AnalyticsWorkers, 256, logger)
	dispatcher.Run()

	h := handlers.NewApplicationHandler(logger, db, st, dispatcher, cfg.MediaBucket)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "Admin portal API is healthy",
		})
	})

	apiV1 := app.Group("/api/v1")

	apiV1.Post("/auth/login", h.Login)

	// Viewer-facing playback surface: no auth, read-mostly, plus the two
	// viewer writes (leads and watch events).
	apiV1.Get("/sessions/:sessionId/flow", h.GetSessionFlow)
	apiV1.Post("/sessions/:sessionId/resolve", h.ResolveSession)
	apiV1.Post("/sessions/:sessionId/leads", h.CreateLead)
	apiV1.Get("/videos/:videoId/links/active", h.GetActiveLinks)
	apiV1.Post("/events/watch", h.RecordWatchEvent)

	// Authoring and reporting surface: requires a Supabase-issued token.
	authed := apiV1.Group("", middleware.RequireAuth(db, logger))

	authed.Post("/sessions", h.CreateSession)
	authed.Get("/sessions", h.ListSessions)
	authed.Get("/sessions/:id", h.GetSession)
	authed.Patch("/sessions/:id", h.UpdateSession)
	authed.Delete("/sessions/:id", h.DeleteSession)

	authed.Post("/sessions/:sessionId/videos", h.CreateVideo)
	authed.Get("/sessions/:sessionId/videos", h.ListVideos)
	authed.Get("/videos/:videoId", h.GetVideo)
	authed.Patch("/videos/:videoId", h.UpdateVideo)
	authed.Delete("/videos/:videoId", h.DeleteVideo)
	authed.Post("/videos/:videoId/media", h.UploadVideoMedia)

	authed.Post("/videos/:videoId/links", h.CreateLink)
	authed.Get("/videos/:videoId/links", h.ListLinks)
	authed.Patch("/links/:linkId", h.UpdateLink)
	authed.Delete("/links/:linkId", h.DeleteLink)

	authed.Post("/videos/:videoId/questions", h.CreateQuestion)
	authed.Get("/videos/:videoId/questions", h.ListQuestions)
	authed.Patch("/questions/:questionId", h.UpdateQuestion)
	authed.Delete("/questions/:questionId", h.DeleteQuestion)

	authed.Post("/questions/:questionId/answers", h.CreateAnswer)
	authed.Get("/questions/:questionId/answers", h.ListAnswers)
	authed.Patch("/answers/:answerId", h.UpdateAnswer)
	authed.Delete("/answers/:answerId", h.DeleteAnswer)

	authed.Post("/sessions/:sessionId/combinations", h.CreateCombination)
	authed.Get("/sessions/:sessionId/combinations", h.ListCombinations)
	authed.Delete("/combinations/:combinationId", h.DeleteCombination)

	authed.Post("/sessions/:sessionId/solutions", h.CreateSolution)
	authed.Get("/sessions/:sessionId/solutions", h.ListSolutions)
	authed.Delete("/solutions/:solutionId", h.DeleteSolution)

	authed.Get("/sessions/:sessionId/leads", h.ListLeads)
	authed.Get("/sessions/:sessionId/analytics", h.GetSessionAnalytics)
	authed.Get("/videos/:videoId/analytics", h.GetVideoAnalytics)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatalf("Server stopped: %v", err)
		}
	}()
	logger.Infof("Admin portal API listening on port %s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := app.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	dispatcher.Stop()
}
