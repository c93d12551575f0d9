package handlers

import (
	"errors"
	"log"
	"net/http"

	"mathadventure/internal/models"
	"mathadventure/internal/quiz"
	"mathadventure/internal/service"
)

// QuizHandler serves the single-player quiz API
type QuizHandler struct {
	generator *quiz.Generator
	registry  *quiz.Registry
	reports   *service.ReportService
	feedback  *service.FeedbackService
	timing    quiz.Timing
}

// NewQuizHandler creates a new quiz handler
func NewQuizHandler(generator *quiz.Generator, registry *quiz.Registry, reports *service.ReportService, feedback *service.FeedbackService, timing quiz.Timing) *QuizHandler {
	return &QuizHandler{
		generator: generator,
		registry:  registry,
		reports:   reports,
		feedback:  feedback,
		timing:    timing,
	}
}

type startQuizRequest struct {
	Table int    `json:"table"`
	Mode  string `json:"mode"`
}

type answerRequest struct {
	Answer int `json:"answer"`
}

// questionView is the client-facing question. The answer is withheld
// while the question is open and revealed during feedback.
type questionView struct {
	Prompt        string `json:"prompt"`
	Options       []int  `json:"options"`
	CorrectAnswer *int   `json:"correctAnswer,omitempty"`
}

type wrongAnswerView struct {
	Prompt   string `json:"prompt"`
	Solution string `json:"solution"`
}

type quizResultView struct {
	Score        int               `json:"score"`
	Total        int               `json:"total"`
	Perfect      bool              `json:"perfect"`
	WrongAnswers []wrongAnswerView `json:"wrongAnswers"`
}

type quizStateResponse struct {
	SessionID   string              `json:"sessionId"`
	Table       int                 `json:"table"`
	Mode        models.Mode         `json:"mode"`
	State       quiz.State          `json:"state"`
	Index       int                 `json:"index"`
	Total       int                 `json:"total"`
	Question    questionView        `json:"question"`
	Score       int                 `json:"score"`
	Selected    *int                `json:"selected,omitempty"`
	LastCorrect *bool               `json:"lastCorrect,omitempty"`
	Result      *quizResultView     `json:"result,omitempty"`
	Report      *quiz.ReportOutcome `json:"report,omitempty"`
}

// Start creates a quiz session and returns the first question
func (h *QuizHandler) Start(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	var req startQuizRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	mode := models.Mode(req.Mode)
	questions, err := h.generator.Generate(req.Table, mode)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	session := &quiz.Session{
		PlayerID: playerID,
		Table:    req.Table,
		Mode:     mode,
	}
	// The engine finishes on a timer goroutine, after the answer request
	// has already returned, so failures here can only be logged
	session.Engine = quiz.NewEngine(questions, h.timing, func(result models.QuizResult) {
		outcome, err := h.reports.ReportResult(playerID, req.Table, mode, result)
		if err != nil {
			log.Printf("Failed to record quiz result for player %s: %v", playerID, err)
			return
		}
		session.SetReport(outcome)
	})
	h.registry.Add(session)

	writeJSON(w, http.StatusCreated, h.stateResponse(session))
}

// Get returns the current quiz state
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Touch()
	writeJSON(w, http.StatusOK, h.stateResponse(session))
}

// Answer submits an option for the current question
func (h *QuizHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	session.Touch()
	session.Engine.SubmitAnswer(req.Answer)
	writeJSON(w, http.StatusOK, h.stateResponse(session))
}

// Quit abandons the quiz. Nothing is recorded.
func (h *QuizHandler) Quit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.registry.Remove(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

type claimResponse struct {
	Claimed bool   `json:"claimed"`
	Sticker string `json:"sticker"`
}

// ClaimSticker collects the sticker offered for a finished quiz
func (h *QuizHandler) ClaimSticker(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	report := session.Report()
	if report == nil || report.StickerOffer == "" {
		respondWithError(w, http.StatusConflict, "No sticker on offer", nil)
		return
	}

	claimed, err := h.reports.ClaimSticker(session.PlayerID, session.Table)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, claimResponse{Claimed: claimed, Sticker: report.StickerOffer})
}

type feedbackResponse struct {
	Feedback string `json:"feedback"`
}

// Feedback returns the teacher's comment on a finished quiz
func (h *QuizHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	snapshot := session.Engine.Snapshot()
	if snapshot.State != quiz.StateFinished || snapshot.Result == nil {
		respondWithError(w, http.StatusConflict, "Quiz is not finished", nil)
		return
	}

	text := h.feedback.GetFeedback(r.Context(), snapshot.Result.Score, snapshot.Result.Total, session.Table, session.Mode)
	writeJSON(w, http.StatusOK, feedbackResponse{Feedback: text})
}

func (h *QuizHandler) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	playerID := playerFromContext(r.Context())
	session, err := h.registry.Get(r.PathValue("id"), playerID)
	if err != nil {
		if errors.Is(err, quiz.ErrSessionNotFound) {
			respondWithError(w, http.StatusNotFound, ErrSessionNotFound, nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, err)
		}
		return nil, false
	}
	if session.Engine == nil {
		respondWithError(w, http.StatusNotFound, ErrSessionNotFound, nil)
		return nil, false
	}
	return session, true
}

func (h *QuizHandler) stateResponse(session *quiz.Session) quizStateResponse {
	snapshot := session.Engine.Snapshot()

	resp := quizStateResponse{
		SessionID: session.ID,
		Table:     session.Table,
		Mode:      session.Mode,
		State:     snapshot.State,
		Index:     snapshot.Index,
		Total:     snapshot.Total,
		Question:  toQuestionView(snapshot.Question, snapshot.State != quiz.StateAwaitingAnswer),
		Score:     snapshot.Score,
	}

	if snapshot.State == quiz.StateFeedback {
		selected := snapshot.Selected
		lastCorrect := snapshot.LastCorrect
		resp.Selected = &selected
		resp.LastCorrect = &lastCorrect
	}
	if snapshot.Result != nil {
		resp.Result = toResultView(*snapshot.Result)
		resp.Report = session.Report()
	}
	return resp
}

func toQuestionView(q models.Question, revealAnswer bool) questionView {
	view := questionView{
		Prompt:  q.Prompt(),
		Options: q.Options,
	}
	if revealAnswer {
		answer := q.Answer
		view.CorrectAnswer = &answer
	}
	return view
}

func toResultView(result models.QuizResult) *quizResultView {
	wrong := make([]wrongAnswerView, 0, len(result.WrongAnswers))
	for _, q := range result.WrongAnswers {
		wrong = append(wrong, wrongAnswerView{
			Prompt:   q.Prompt(),
			Solution: q.Solution(),
		})
	}
	return &quizResultView{
		Score:        result.Score,
		Total:        result.Total,
		Perfect:      result.Perfect(),
		WrongAnswers: wrong,
	}
}
