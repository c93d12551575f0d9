package handlers

import (
	"errors"
	"net/http"
	"time"

	"mathadventure/internal/models"
	"mathadventure/internal/quiz"
)

// Per-question countdown choices offered by the client, in seconds.
// Zero disables the countdown.
var versusTimeLimits = map[int]bool{0: true, 5: true, 10: true, 30: true}

// VersusHandler serves the two-player race API. Both players share one
// device, so a single session carries the whole match.
type VersusHandler struct {
	generator *quiz.Generator
	registry  *quiz.Registry
	timing    quiz.Timing
}

// NewVersusHandler creates a new versus handler
func NewVersusHandler(generator *quiz.Generator, registry *quiz.Registry, timing quiz.Timing) *VersusHandler {
	return &VersusHandler{
		generator: generator,
		registry:  registry,
		timing:    timing,
	}
}

type startVersusRequest struct {
	Table     int    `json:"table"`
	Mode      string `json:"mode"`
	TimeLimit int    `json:"timeLimit"`
}

type versusAnswerRequest struct {
	Player int `json:"player"`
	Answer int `json:"answer"`
}

type versusResultView struct {
	P1Score int `json:"p1Score"`
	P2Score int `json:"p2Score"`
	Total   int `json:"total"`
	Winner  int `json:"winner"`
}

type versusStateResponse struct {
	SessionID     string            `json:"sessionId"`
	Table         int               `json:"table"`
	Mode          models.Mode       `json:"mode"`
	Index         int               `json:"index"`
	Total         int               `json:"total"`
	Question      questionView      `json:"question"`
	Round         quiz.RoundState   `json:"round"`
	Winner        int               `json:"winner"`
	P1Score       int               `json:"p1Score"`
	P2Score       int               `json:"p2Score"`
	P1Flinch      bool              `json:"p1Flinch"`
	P2Flinch      bool              `json:"p2Flinch"`
	TimeRemaining *float64          `json:"timeRemaining,omitempty"`
	Finished      bool              `json:"finished"`
	Result        *versusResultView `json:"result,omitempty"`
}

// Start creates a two-player match and opens the first round
func (h *VersusHandler) Start(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	var req startVersusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	if !versusTimeLimits[req.TimeLimit] {
		respondWithError(w, http.StatusBadRequest, "Time limit must be 0, 5, 10 or 30 seconds", nil)
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
	// Versus matches are not recorded: the race rewards speed over the
	// recall the single-player stats track
	session.Versus = quiz.NewVersus(questions, time.Duration(req.TimeLimit)*time.Second, h.timing, nil)
	h.registry.Add(session)

	writeJSON(w, http.StatusCreated, h.stateResponse(session))
}

// Get returns the current match state
func (h *VersusHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Touch()
	writeJSON(w, http.StatusOK, h.stateResponse(session))
}

// Answer submits one player's option for the current round
func (h *VersusHandler) Answer(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req versusAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}
	if req.Player != 1 && req.Player != 2 {
		respondWithError(w, http.StatusBadRequest, "Player must be 1 or 2", nil)
		return
	}

	session.Touch()
	session.Versus.SubmitAnswer(req.Answer, req.Player)
	writeJSON(w, http.StatusOK, h.stateResponse(session))
}

// Quit abandons the match
func (h *VersusHandler) Quit(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.registry.Remove(session.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *VersusHandler) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
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
	if session.Versus == nil {
		respondWithError(w, http.StatusNotFound, ErrSessionNotFound, nil)
		return nil, false
	}
	return session, true
}

func (h *VersusHandler) stateResponse(session *quiz.Session) versusStateResponse {
	snapshot := session.Versus.Snapshot()

	resp := versusStateResponse{
		SessionID: session.ID,
		Table:     session.Table,
		Mode:      session.Mode,
		Index:     snapshot.Index,
		Total:     snapshot.Total,
		Question:  toQuestionView(snapshot.Question, snapshot.Round != quiz.RoundOpen),
		Round:     snapshot.Round,
		Winner:    snapshot.Winner,
		P1Score:   snapshot.P1Score,
		P2Score:   snapshot.P2Score,
		P1Flinch:  snapshot.P1Flinch,
		P2Flinch:  snapshot.P2Flinch,
		Finished:  snapshot.Finished,
	}

	if snapshot.Round == quiz.RoundOpen && snapshot.TimeRemaining > 0 {
		seconds := snapshot.TimeRemaining.Seconds()
		resp.TimeRemaining = &seconds
	}
	if snapshot.Result != nil {
		resp.Result = &versusResultView{
			P1Score: snapshot.Result.P1Score,
			P2Score: snapshot.Result.P2Score,
			Total:   snapshot.Result.Total,
			Winner:  snapshot.Result.Winner(),
		}
	}
	return resp
}
