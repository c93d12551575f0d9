package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"mathadventure/internal/models"
)

// EmailService sends parent progress reports via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. An empty fromEmail yields
// a disabled service that skips all sends.
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendProgressReport emails a summary of a player's practice history to
// a parent
func (s *EmailService) SendProgressReport(ctx context.Context, toEmail, playerID string, progress *models.ProgressData) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): progress report to %s", toEmail)
		return nil
	}

	subject := "Báo cáo học tập bảng cửu chương"

	var htmlRows, textRows strings.Builder
	for _, stats := range progress.QuizHistory {
		modeText := "Nhân"
		if stats.Mode == models.ModeDivision {
			modeText = "Chia"
		}
		fmt.Fprintf(&htmlRows, "<tr><td>%s %d</td><td>%d</td><td>%d/10</td><td>%.1f</td></tr>\n",
			modeText, stats.Table, stats.Attempts, stats.BestScore, stats.AverageScore())
		fmt.Fprintf(&textRows, "- Bảng %s %d: %d lần làm, điểm cao nhất %d/10, trung bình %.1f\n",
			strings.ToLower(modeText), stats.Table, stats.Attempts, stats.BestScore, stats.AverageScore())
	}
	if len(progress.QuizHistory) == 0 {
		htmlRows.WriteString("<tr><td colspan=\"4\">Chưa có bài kiểm tra nào</td></tr>\n")
		textRows.WriteString("Chưa có bài kiểm tra nào.\n")
	}

	learned := len(progress.Multiplication) + len(progress.Division)
	stickers := strings.Join(progress.Stickers, " ")
	if stickers == "" {
		stickers = "Chưa có"
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #ec4899; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #fdf2f8; padding: 30px; border-radius: 0 0 5px 5px; }
		table { width: 100%%; border-collapse: collapse; }
		th, td { padding: 8px; border-bottom: 1px solid #fbcfe8; text-align: left; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Báo cáo học tập</h1>
		</div>
		<div class="content">
			<p>Bé đã thuộc <strong>%d</strong> bảng tính và sưu tầm các hình dán: %s</p>
			<table>
				<tr><th>Bảng</th><th>Số lần làm</th><th>Điểm cao nhất</th><th>Trung bình</th></tr>
				%s
			</table>
		</div>
		<div class="footer">
			<p>Email tự động từ Toán Vui. Vui lòng không trả lời.</p>
		</div>
	</div>
</body>
</html>
`, learned, stickers, htmlRows.String())

	textBody := fmt.Sprintf(`Báo cáo học tập bảng cửu chương

Bé đã thuộc %d bảng tính.
Hình dán đã sưu tầm: %s

Kết quả luyện tập:
%s
---
Email tự động từ Toán Vui. Vui lòng không trả lời.
`, learned, stickers, textRows.String())

	if s.debug {
		log.Printf("[DEBUG] Sending progress report: player=%s, to=%s", playerID, toEmail)
	}

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] SES message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
