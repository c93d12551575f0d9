package handlers

import (
	"net/http"
	"strings"

	"mathadventure/internal/audio"
)

const maxSpeechTextLength = 500

// SpeechHandler turns teacher phrases into cached audio files.
// Failures return 502 and the client simply stays silent.
type SpeechHandler struct {
	tts *audio.TTSService
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(tts *audio.TTSService) *SpeechHandler {
	return &SpeechHandler{tts: tts}
}

type speechRequest struct {
	Text string `json:"text"`
}

type speechResponse struct {
	AudioURL string `json:"audioUrl"`
}

// Generate converts text to speech and returns the audio file URL
func (h *SpeechHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequestBody, err)
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		respondWithError(w, http.StatusBadRequest, "Text is required", nil)
		return
	}
	if len(text) > maxSpeechTextLength {
		respondWithError(w, http.StatusBadRequest, "Text is too long", nil)
		return
	}

	filename, err := h.tts.GenerateAudioFile(r.Context(), text)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, "Speech generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, speechResponse{AudioURL: "/audio/" + filename})
}
