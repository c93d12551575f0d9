package audio

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	ttsBaseURL        = "https://generativelanguage.googleapis.com/v1beta/models"
	ttsRequestTimeout = 15 * time.Second
	ttsVoice          = "Puck"

	// Gemini TTS returns 16-bit mono PCM at this rate
	ttsSampleRate = 24000
)

// TTSService converts teacher phrases to speech via the Gemini TTS model
// and caches the generated audio on disk. Speech is an optional garnish:
// callers treat a missing file as "no audio" and move on.
type TTSService struct {
	audioDir string
	apiKey   string
	model    string
	client   *http.Client
}

// NewTTSService creates a new TTS service writing files under audioDir
func NewTTSService(audioDir, apiKey, model string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// GenerateAudioFile converts text to speech and saves it as WAV.
// Returns the filename (not full path) on success.
func (s *TTSService) GenerateAudioFile(ctx context.Context, text string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("speech generation is disabled: no API key")
	}

	filename := cachedFilename(text)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	pcm, err := s.generateSpeech(ctx, text)
	if err != nil {
		return "", fmt.Errorf("failed to generate audio: %w", err)
	}

	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}
	if err := os.WriteFile(path, wrapWAV(pcm), 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return filename, nil
}

// cachedFilename derives the cache filename for a phrase. Phrases are
// free-form Vietnamese, so the key is a content hash rather than a
// sanitized copy of the text.
func cachedFilename(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("speech_%x.wav", sum[:8])
}

// DeleteAudioFile removes a cached audio file
func (s *TTSService) DeleteAudioFile(filename string) error {
	path := filepath.Join(s.audioDir, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path)
}

type ttsRequest struct {
	Contents         []ttsContent        `json:"contents"`
	GenerationConfig ttsGenerationConfig `json:"generationConfig"`
}

type ttsContent struct {
	Parts []ttsPart `json:"parts"`
}

type ttsPart struct {
	Text string `json:"text"`
}

type ttsGenerationConfig struct {
	ResponseModalities []string        `json:"responseModalities"`
	SpeechConfig       ttsSpeechConfig `json:"speechConfig"`
}

type ttsSpeechConfig struct {
	VoiceConfig ttsVoiceConfig `json:"voiceConfig"`
}

type ttsVoiceConfig struct {
	PrebuiltVoiceConfig ttsPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type ttsPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type ttsResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					Data string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (s *TTSService) generateSpeech(ctx context.Context, text string) ([]byte, error) {
	prompt := "Đọc giọng cô giáo hiền hậu, diễn cảm bằng tiếng Việt: " + text

	reqBody := ttsRequest{
		Contents: []ttsContent{
			{Parts: []ttsPart{{Text: prompt}}},
		},
		GenerationConfig: ttsGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: ttsSpeechConfig{
				VoiceConfig: ttsVoiceConfig{
					PrebuiltVoiceConfig: ttsPrebuiltVoice{VoiceName: ttsVoice},
				},
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", ttsBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result ttsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no audio in response")
	}

	data := result.Candidates[0].Content.Parts[0].InlineData.Data
	if data == "" {
		return nil, fmt.Errorf("no audio in response")
	}

	pcm, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio data: %w", err)
	}
	return pcm, nil
}

// wrapWAV prefixes raw 16-bit mono PCM with a RIFF header so the file is
// playable directly
func wrapWAV(pcm []byte) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := ttsSampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(channels))
	binary.Write(buf, binary.LittleEndian, uint32(ttsSampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
