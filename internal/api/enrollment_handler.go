package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service"
)

// EnrollmentHandler handles language pair enrollment requests.
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
	logger      *slog.Logger
}

// NewEnrollmentHandler creates a new EnrollmentHandler.
func NewEnrollmentHandler(enrollments service.EnrollmentService, logger *slog.Logger) *EnrollmentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EnrollmentHandler")
	}
	return &EnrollmentHandler{
		enrollments: enrollments,
		logger:      logger.With(slog.String("component", "enrollment_handler")),
	}
}

// Enroll handles POST /language-pairs/enroll.
func (h *EnrollmentHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req EnrollRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}
	// validated as a uuid above
	langPairID := uuid.MustParse(req.LangPairID)

	ulp, err := h.enrollments.Enroll(r.Context(), userID, langPairID, domain.CEFRLevel(req.CEFRLevel))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to enroll")
		return
	}

	log.Info("user enrolled",
		slog.String("lang_pair_id", langPairID.String()),
		slog.String("cefr_level", string(ulp.CEFRLevel())))
	shared.RespondWithJSON(w, r, http.StatusCreated, enrollmentToResponse(ulp))
}

// ListLanguagePairs handles GET /language-pairs.
func (h *EnrollmentHandler) ListLanguagePairs(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	list, err := h.enrollments.ListEnrollments(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list language pairs")
		return
	}

	resp := make([]EnrollmentResponse, 0, len(list))
	for _, ulp := range list {
		resp = append(resp, enrollmentToResponse(ulp))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
