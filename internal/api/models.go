package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
)

// dateLayout renders calendar days such as review dates.
const dateLayout = "2006-01-02"

// EnrollRequest defines the payload for enrolling in a language pair.
type EnrollRequest struct {
	LangPairID string `json:"lang_pair_id" validate:"required,uuid"`
	// CEFRLevel is the starting level, A1 when omitted.
	CEFRLevel string `json:"cefr_level" validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
}

// CompleteLessonRequest defines the payload for finishing a lesson.
type CompleteLessonRequest struct {
	StarsEarned        int `json:"stars_earned"        validate:"gte=0"`
	QuestionsCompleted int `json:"questions_completed" validate:"gte=0"`
	QuestionsCorrect   int `json:"questions_correct"   validate:"gte=0,ltefield=QuestionsCompleted"`
	XPEarned           int `json:"xp_earned"           validate:"gte=0"`
	// SubmissionID makes retries of the same completion safe.
	SubmissionID string `json:"submission_id" validate:"omitempty,max=64"`
}

// SubmitAnswerRequest defines the payload for answering a question.
type SubmitAnswerRequest struct {
	Answer       string `json:"answer"         validate:"required,max=500"`
	TimeSpentSec *int   `json:"time_spent_sec" validate:"omitempty,gte=0"`
}

// UnitsQuery holds the query parameters of the unit listing.
type UnitsQuery struct {
	LangPairID string `json:"lang_pair_id" validate:"required,uuid"`
	CEFRLevel  string `json:"cefr_level"   validate:"omitempty,oneof=A1 A2 B1 B2 C1 C2"`
	Book       string `json:"book"         validate:"omitempty,max=200"`
}

// LanguagePairResponse is a language pair open for enrollment.
type LanguagePairResponse struct {
	ID         uuid.UUID `json:"id"`
	FromLang   string    `json:"from_lang"`
	TargetLang string    `json:"target_lang"`
}

// CatalogLessonResponse is a lesson as published in the catalog.
type CatalogLessonResponse struct {
	ID           uuid.UUID `json:"id"`
	Order        int       `json:"order"`
	Title        string    `json:"title"`
	LessonType   string    `json:"lesson_type"`
	TotalStars   int       `json:"total_stars"`
	XPReward     int       `json:"xp_reward"`
	GrammarTopic *string   `json:"grammar_topic,omitempty"`
}

// CatalogUnitResponse is a unit and its lessons.
type CatalogUnitResponse struct {
	ID         uuid.UUID               `json:"id"`
	LangPairID uuid.UUID               `json:"lang_pair_id"`
	Number     int                     `json:"number"`
	Title      string                  `json:"title"`
	BookTitle  string                  `json:"book_title"`
	CEFRLevel  string                  `json:"cefr_level"`
	Lessons    []CatalogLessonResponse `json:"lessons"`
}

// EnrollmentResponse is a learner's standing in one language pair.
type EnrollmentResponse struct {
	ID                   uuid.UUID `json:"id"`
	LangPairID           uuid.UUID `json:"lang_pair_id"`
	CEFRLevel            string    `json:"cefr_level"`
	LevelProgressPercent int       `json:"level_progress_percent"`
	CompletedLevels      []string  `json:"completed_levels"`
	TotalXP              int       `json:"total_xp"`
	CurrStreak           int       `json:"curr_streak"`
	LongestStreak        int       `json:"longest_streak"`
	LastPracticeDate     *string   `json:"last_practice_date"`
	TotalWordsLearned    int       `json:"total_words_learned"`
	TotalGrammarTopics   int       `json:"total_grammar_topics"`
	CreatedAt            time.Time `json:"created_at"`
}

// PathLessonResponse is a lesson on the learning path.
type PathLessonResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	LessonType  string    `json:"lesson_type"`
	Status      string    `json:"status"`
	StarsEarned int       `json:"stars_earned"`
	TotalStars  int       `json:"total_stars"`
}

// PathUnitResponse is a unit on the learning path.
type PathUnitResponse struct {
	UnitID     uuid.UUID            `json:"unit_id"`
	UnitNumber int                  `json:"unit_number"`
	Title      string               `json:"title"`
	BookTitle  string               `json:"book_title"`
	Lessons    []PathLessonResponse `json:"lessons"`
}

// LearningPathResponse lists the units of the learner's current level.
type LearningPathResponse struct {
	Units []PathUnitResponse `json:"units"`
}

// OptionResponse is a multiple choice option without its correctness flag.
type OptionResponse struct {
	ID    uuid.UUID `json:"id"`
	Text  string    `json:"text"`
	Order int       `json:"order"`
}

// QuestionResponse is a question as shown to a learner. Answers stay on the
// server and are revealed by SubmitAnswer.
type QuestionResponse struct {
	ID           uuid.UUID        `json:"id"`
	LessonID     uuid.UUID        `json:"lesson_id"`
	Order        int              `json:"order"`
	QuestionType string           `json:"question_type"`
	Prompt       string           `json:"prompt"`
	Audio        string           `json:"audio,omitempty"`
	Options      []OptionResponse `json:"options"`
}

// AnswerResponse grades an answer and reports its review schedule.
type AnswerResponse struct {
	IsCorrect          bool   `json:"is_correct"`
	CorrectAnswer      string `json:"correct_answer"`
	Explanation        string `json:"explanation,omitempty"`
	ReviewIntervalDays int    `json:"review_interval_days"`
	NextReviewDate     string `json:"next_review_date"`
}

// DueReviewResponse is a question due for review.
type DueReviewResponse struct {
	Question           QuestionResponse `json:"question"`
	LastAnswerCorrect  bool             `json:"last_answer_correct"`
	ReviewIntervalDays int              `json:"review_interval_days"`
	NextReviewDate     string           `json:"next_review_date"`
}

// GenerateQuestionsResponse reports an admin regeneration.
type GenerateQuestionsResponse struct {
	LessonID  uuid.UUID `json:"lesson_id"`
	Questions int       `json:"questions"`
}

func enrollmentToResponse(ulp *domain.UserLanguagePair) EnrollmentResponse {
	state := ulp.State()

	completed := make([]string, 0, len(state.CompletedLevels))
	for _, level := range state.CompletedLevels {
		completed = append(completed, string(level))
	}

	var lastPractice *string
	if state.LastPracticeDate != nil {
		d := state.LastPracticeDate.Format(dateLayout)
		lastPractice = &d
	}

	return EnrollmentResponse{
		ID:                   state.ID,
		LangPairID:           state.LangPairID,
		CEFRLevel:            string(state.CEFRLevel),
		LevelProgressPercent: state.LevelProgressPercent,
		CompletedLevels:      completed,
		TotalXP:              state.TotalXP,
		CurrStreak:           state.CurrStreak,
		LongestStreak:        state.LongestStreak,
		LastPracticeDate:     lastPractice,
		TotalWordsLearned:    state.TotalWordsLearned,
		TotalGrammarTopics:   state.TotalGrammarTopics,
		CreatedAt:            state.CreatedAt,
	}
}

func languagePairToResponse(p domain.LanguagePair) LanguagePairResponse {
	return LanguagePairResponse{ID: p.ID, FromLang: p.FromLang, TargetLang: p.TargetLang}
}

func unitToResponse(u store.UnitWithLessons) CatalogUnitResponse {
	lessons := make([]CatalogLessonResponse, 0, len(u.Lessons))
	for _, l := range u.Lessons {
		lessons = append(lessons, CatalogLessonResponse{
			ID:           l.ID,
			Order:        l.Order,
			Title:        l.Title,
			LessonType:   string(l.LessonType),
			TotalStars:   l.TotalStars,
			XPReward:     l.XPReward,
			GrammarTopic: l.GrammarTopic,
		})
	}
	return CatalogUnitResponse{
		ID:         u.Unit.ID,
		LangPairID: u.Unit.LangPairID,
		Number:     u.Unit.Number,
		Title:      u.Unit.Title,
		BookTitle:  u.Unit.BookTitle,
		CEFRLevel:  string(u.Unit.CEFRLevel),
		Lessons:    lessons,
	}
}

func learningPathToResponse(units []service.PathUnit) LearningPathResponse {
	resp := LearningPathResponse{Units: make([]PathUnitResponse, 0, len(units))}
	for _, u := range units {
		lessons := make([]PathLessonResponse, 0, len(u.Lessons))
		for _, l := range u.Lessons {
			lessons = append(lessons, PathLessonResponse{
				ID:          l.ID,
				Title:       l.Title,
				LessonType:  string(l.Type),
				Status:      string(l.Status),
				StarsEarned: l.StarsEarned,
				TotalStars:  l.TotalStars,
			})
		}
		resp.Units = append(resp.Units, PathUnitResponse{
			UnitID:     u.UnitID,
			UnitNumber: u.UnitNumber,
			Title:      u.Title,
			BookTitle:  u.BookTitle,
			Lessons:    lessons,
		})
	}
	return resp
}

func questionToResponse(q domain.Question) QuestionResponse {
	options := make([]OptionResponse, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, OptionResponse{ID: o.ID, Text: o.Text, Order: o.Order})
	}
	return QuestionResponse{
		ID:           q.ID,
		LessonID:     q.LessonID,
		Order:        q.Order,
		QuestionType: string(q.QuestionType),
		Prompt:       q.Prompt,
		Audio:        q.Audio,
		Options:      options,
	}
}

func dueReviewToResponse(d store.DueReview) DueReviewResponse {
	return DueReviewResponse{
		Question:           questionToResponse(d.Question),
		LastAnswerCorrect:  d.Attempt.IsCorrect,
		ReviewIntervalDays: d.Attempt.ReviewIntervalDays,
		NextReviewDate:     d.Attempt.NextReviewDate.Format(dateLayout),
	}
}
