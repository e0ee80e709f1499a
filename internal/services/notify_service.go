package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gopkg.in/gomail.v2"

	"taskmanager/internal/models"
)

func overdueLines(tasks []models.Task) []string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, fmt.Sprintf("#%d %s (due %s, %s)",
			t.ID, t.Title, models.FormatDate(t.DueDate), t.Priority))
	}
	return lines
}

// ===== Telegram =====

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

// NewTelegramNotifier returns nil when token or chatID is empty.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		log.Printf("[tg][skip] token or chatID empty (token? %v chatID=%d)", token != "", chatID)
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (t *TelegramNotifier) Name() string { return "telegram" }

func (t *TelegramNotifier) NotifyOverdue(_ context.Context, today models.Date, tasks []models.Task) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Overdue tasks on %s</b>\n", today)
	for _, line := range overdueLines(tasks) {
		b.WriteString(html.EscapeString(line))
		b.WriteByte('\n')
	}

	msg := tgbotapi.NewMessage(t.chatID, b.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	log.Printf("[tg][send] chatID=%d tasks=%d", t.chatID, len(tasks))
	return nil
}

// ===== E-mail =====

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailNotifier struct {
	dialer mailSender
	from   string
	to     []string
}

func NewEmailNotifier(smtpHost string, smtpPort int, smtpUser, smtpPassword, from string, to []string) *EmailNotifier {
	if smtpHost == "" || len(to) == 0 {
		return nil
	}
	return &EmailNotifier{
		dialer: gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword),
		from:   from,
		to:     to,
	}
}

func (e *EmailNotifier) Name() string { return "email" }

func (e *EmailNotifier) NotifyOverdue(_ context.Context, today models.Date, tasks []models.Task) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", e.to...)
	m.SetHeader("Subject", fmt.Sprintf("%d task(s) overdue on %s", len(tasks), today))

	var items strings.Builder
	for _, line := range overdueLines(tasks) {
		items.WriteString("<li>" + html.EscapeString(line) + "</li>")
	}
	body := fmt.Sprintf(`
		<h3>Tasks moved to DELAYED</h3>
		<ul>%s</ul>
	`, items.String())
	m.SetBody("text/html", body)

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send overdue email: %w", err)
	}
	return nil
}
