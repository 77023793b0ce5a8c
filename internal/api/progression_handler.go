package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingo-api/internal/api/shared"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/service"
)

// ProgressionHandler handles lesson completion, answers, the learning path
// and reviews.
type ProgressionHandler struct {
	progression service.ProgressionService
	logger      *slog.Logger
}

// NewProgressionHandler creates a new ProgressionHandler.
func NewProgressionHandler(progression service.ProgressionService, logger *slog.Logger) *ProgressionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressionHandler")
	}
	return &ProgressionHandler{
		progression: progression,
		logger:      logger.With(slog.String("component", "progression_handler")),
	}
}

// CompleteLesson handles POST /lessons/{id}/complete.
func (h *ProgressionHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req CompleteLessonRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	outcome, err := h.progression.CompleteLesson(r.Context(), service.CompleteLessonRequest{
		UserID:   userID,
		LessonID: lessonID,
		Input: domain.CompletionInput{
			StarsEarned:        req.StarsEarned,
			QuestionsCompleted: req.QuestionsCompleted,
			QuestionsCorrect:   req.QuestionsCorrect,
			XPEarned:           req.XPEarned,
		},
		SubmissionID: req.SubmissionID,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to complete lesson")
		return
	}

	log.Debug("lesson completed",
		slog.String("lesson_id", lessonID.String()),
		slog.Bool("first_completion", outcome.FirstCompletion),
		slog.Bool("level_advanced", outcome.LevelAdvanced))
	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}

// SubmitAnswer handles POST /questions/{id}/answer.
func (h *ProgressionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, questionID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	result, err := h.progression.SubmitAnswer(r.Context(), service.SubmitAnswerRequest{
		UserID:       userID,
		QuestionID:   questionID,
		Answer:       req.Answer,
		TimeSpentSec: req.TimeSpentSec,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		IsCorrect:          result.IsCorrect,
		CorrectAnswer:      result.CorrectAnswer,
		Explanation:        result.Explanation,
		ReviewIntervalDays: result.ReviewIntervalDays,
		NextReviewDate:     result.NextReviewDate.Format(dateLayout),
	})
}

// GetLearningPath handles GET /language-pairs/{id}/learning-path, where id
// is the user's enrollment.
func (h *ProgressionHandler) GetLearningPath(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, enrollmentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	units, err := h.progression.GetLearningPath(r.Context(), userID, enrollmentID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load learning path")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, learningPathToResponse(units))
}

// GetDueReviews handles GET /reviews/due?limit=N.
func (h *ProgressionHandler) GetDueReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	limit, err := getQueryInt(r, "limit", service.DefaultDueReviewLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	due, err := h.progression.GetDueReviews(r.Context(), userID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load reviews")
		return
	}

	resp := make([]DueReviewResponse, 0, len(due))
	for _, d := range due {
		resp = append(resp, dueReviewToResponse(d))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
