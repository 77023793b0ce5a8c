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

// CatalogHandler serves course content.
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogService, logger *slog.Logger) *CatalogHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CatalogHandler")
	}
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger.With(slog.String("component", "catalog_handler")),
	}
}

// ListLanguagePairs handles GET /catalog/language-pairs.
func (h *CatalogHandler) ListLanguagePairs(w http.ResponseWriter, r *http.Request) {
	pairs, err := h.catalog.ListAvailableLanguagePairs(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load language pairs")
		return
	}

	resp := make([]LanguagePairResponse, 0, len(pairs))
	for _, p := range pairs {
		resp = append(resp, languagePairToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ListUnits handles GET /catalog/units?lang_pair_id=&cefr_level=&book=.
func (h *CatalogHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := UnitsQuery{
		LangPairID: query.Get("lang_pair_id"),
		CEFRLevel:  query.Get("cefr_level"),
		Book:       query.Get("book"),
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleValidationError(w, r, err)
		return
	}

	langPairID, err := uuid.Parse(req.LangPairID)
	if err != nil {
		HandleValidationError(w, r, domain.NewValidationError("lang_pair_id", "must be a valid UUID"))
		return
	}

	units, err := h.catalog.ListUnits(r.Context(), langPairID, service.UnitFilter{
		Level:     domain.CEFRLevel(req.CEFRLevel),
		BookTitle: req.Book,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load units")
		return
	}

	resp := make([]CatalogUnitResponse, 0, len(units))
	for _, u := range units {
		resp = append(resp, unitToResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetUnitVocabulary handles GET /units/{id}/vocabulary.
func (h *CatalogHandler) GetUnitVocabulary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, unitID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	vocab, err := h.catalog.GetUnitVocabulary(r.Context(), unitID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load vocabulary")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, vocab)
}

// GetLessonQuestions handles GET /lessons/{id}/questions.
func (h *CatalogHandler) GetLessonQuestions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, lessonID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	questions, err := h.catalog.GetLessonQuestions(r.Context(), lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load questions")
		return
	}

	resp := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, questionToResponse(q))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
