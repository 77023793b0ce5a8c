package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service"
)

// AdminHandler exposes operator actions. Routes must be guarded by the
// admin role middleware.
type AdminHandler struct {
	generation service.GenerationService
	logger     *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(generation service.GenerationService, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AdminHandler")
	}
	return &AdminHandler{
		generation: generation,
		logger:     logger.With(slog.String("component", "admin_handler")),
	}
}

// GenerateQuestions handles POST /admin/lessons/{id}/generate.
func (h *AdminHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, lessonID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	n, err := h.generation.GenerateQuestions(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate questions")
		return
	}

	log.Info("questions regenerated", slog.String("lesson_id", lessonID.String()), slog.Int("questions", n))
	shared.RespondWithJSON(w, r, http.StatusOK, GenerateQuestionsResponse{LessonID: lessonID, Questions: n})
}
