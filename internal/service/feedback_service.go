package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"mathadventure/internal/models"
)

const (
	geminiBaseURL         = "https://generativelanguage.googleapis.com/v1beta/models"
	feedbackRequestTimeout = 10 * time.Second
)

// Canned teacher voice lines used whenever the model is unavailable, so
// the result screen always has something kind to say
const (
	fallbackPerfect = "Giỏi quá! Em đã hoàn thành xuất sắc bài học hôm nay! Chúc mừng em nhé. 🎉"
	fallbackGood    = "Em làm rất tốt, chỉ sai một chút xíu thôi. Cố gắng lên nhé! 🌟"
	fallbackTryHard = "Em đã rất cố gắng rồi. Hãy ôn lại bài một chút và thử lại nhé, cô tin em sẽ làm được! 💪"

	fallbackSuggestions = "Em hãy luyện tập mỗi ngày một bảng tính nhé. Chăm chỉ từng chút một, em sẽ thuộc hết các bảng thôi! 💪"
)

// FeedbackService asks Gemini for short encouraging teacher comments.
// Every call degrades to a canned Vietnamese line on any failure; the
// quiz flow never blocks on the model.
type FeedbackService struct {
	apiKey string
	model  string
	client *http.Client
}

// NewFeedbackService creates a new feedback service. An empty API key
// disables the model and every call returns the canned fallback.
func NewFeedbackService(apiKey, model string) *FeedbackService {
	return &FeedbackService{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: feedbackRequestTimeout},
	}
}

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"topP,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GetFeedback returns a short comment on a finished quiz in the voice of
// the app's teacher character
func (s *FeedbackService) GetFeedback(ctx context.Context, score, total, table int, mode models.Mode) string {
	if s.apiKey == "" {
		return defaultFeedback(score, total)
	}

	modeText := "nhân"
	if mode == models.ModeDivision {
		modeText = "chia"
	}

	prompt := fmt.Sprintf(`Bạn là một cô giáo tiểu học hiền hậu và yêu trẻ tên là "Cô Linh".
Học sinh vừa hoàn thành bài kiểm tra bảng %s %d.
Kết quả: %d/%d.
Hãy đưa ra một lời nhận xét ngắn gọn (dưới 50 từ), khích lệ, dùng các emoji đáng yêu.
Nếu điểm thấp, hãy động viên bé cố gắng hơn. Nếu điểm cao, hãy khen ngợi nhiệt tình.
LƯU Ý QUAN TRỌNG: Chỉ trả lời bằng văn bản thuần túy, KHÔNG sử dụng các ký tự định dạng như dấu sao (*), dấu thăng (#) hay gạch đầu dòng. Trả lời bằng tiếng Việt.`,
		modeText, table, score, total)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("Feedback generation failed, using fallback: %v", err)
		return defaultFeedback(score, total)
	}
	return text
}

// GetSuggestions returns study advice based on the player's recorded
// quiz history
func (s *FeedbackService) GetSuggestions(ctx context.Context, progress *models.ProgressData) string {
	if s.apiKey == "" || len(progress.QuizHistory) == 0 {
		return fallbackSuggestions
	}

	var summary strings.Builder
	for _, stats := range progress.QuizHistory {
		modeText := "nhân"
		if stats.Mode == models.ModeDivision {
			modeText = "chia"
		}
		fmt.Fprintf(&summary, "- Bảng %s %d: %d lần làm, điểm cao nhất %d/10, điểm trung bình %.1f\n",
			modeText, stats.Table, stats.Attempts, stats.BestScore, stats.AverageScore())
	}

	prompt := fmt.Sprintf(`Bạn là một cô giáo tiểu học hiền hậu tên là "Cô Linh".
Đây là kết quả luyện tập bảng cửu chương của học sinh:
%s
Hãy đưa ra gợi ý ngắn gọn (dưới 60 từ) về những bảng em nên ôn thêm, giọng khích lệ, có emoji.
Chỉ trả lời bằng văn bản thuần túy, không dùng ký tự định dạng. Trả lời bằng tiếng Việt.`,
		summary.String())

	text, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("Suggestion generation failed, using fallback: %v", err)
		return fallbackSuggestions
	}
	return text
}

func (s *FeedbackService) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature: 0.8,
			TopP:        0.95,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := stripFormatting(extractText(result))
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

func extractText(resp geminiResponse) string {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
}

// stripFormatting removes markdown characters the prompt forbids but the
// model sometimes emits anyway
func stripFormatting(text string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '*', '#', '_', '~':
			return -1
		}
		return r
	}, text)
}

func defaultFeedback(score, total int) string {
	switch {
	case total > 0 && score == total:
		return fallbackPerfect
	case float64(score) >= float64(total)*0.8:
		return fallbackGood
	default:
		return fallbackTryHard
	}
}
