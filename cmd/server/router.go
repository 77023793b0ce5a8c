package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/lingo-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	if app.config.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(app.config.Server.RequestTimeout))
	}

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	enrollmentHandler := api.NewEnrollmentHandler(app.enrollmentService, app.logger)
	progressionHandler := api.NewProgressionHandler(app.progressionService, app.logger)
	catalogHandler := api.NewCatalogHandler(app.catalogService, app.logger)
	adminHandler := api.NewAdminHandler(app.generationService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Published catalog, readable before signing up.
		r.Get("/catalog/language-pairs", catalogHandler.ListLanguagePairs)
		r.Get("/catalog/units", catalogHandler.ListUnits)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/language-pairs/enroll", enrollmentHandler.Enroll)
			r.Get("/language-pairs", enrollmentHandler.ListLanguagePairs)
			r.Get("/language-pairs/{id}/learning-path", progressionHandler.GetLearningPath)

			r.Get("/units/{id}/vocabulary", catalogHandler.GetUnitVocabulary)
			r.Get("/lessons/{id}/questions", catalogHandler.GetLessonQuestions)

			r.Post("/lessons/{id}/complete", progressionHandler.CompleteLesson)
			r.Post("/questions/{id}/answer", progressionHandler.SubmitAnswer)
			r.Get("/reviews/due", progressionHandler.GetDueReviews)

			r.Route("/admin", func(r chi.Router) {
				r.Use(apiMiddleware.RequireRole(app.config.Auth.AdminRole))
				r.Post("/lessons/{id}/generate", adminHandler.GenerateQuestions)
			})
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
