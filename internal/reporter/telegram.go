package reporter

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// RunSummary is the data sent to chat after a run.
type RunSummary struct {
	Date           time.Time
	Accepted       int
	Fetched        int
	PerLocation    map[string]int
	FailedSearches int
	IssueURL       string
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramReporter struct {
	bot    sender
	chatID int64
}

func NewTelegramReporter(token string, chatID int64) (*TelegramReporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}

	//turn this on in case of debug
	//bot.Debug = true

	return &TelegramReporter{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (t *TelegramReporter) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := t.bot.Send(msg)
	return err
}

func (t *TelegramReporter) SendSummary(s RunSummary) error {
	return t.SendMessage(FormatSummary(s))
}

func (t *TelegramReporter) SendError(errReq error) error {
	text := fmt.Sprintf("⚠️ <b>Job search failed</b>:\n%s", html.EscapeString(errReq.Error()))
	return t.SendMessage(text)
}

// FormatSummary renders s as Telegram HTML.
func FormatSummary(s RunSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>Weekly Jobs Report - %s</b>\n", s.Date.Format("2006-01-02"))
	fmt.Fprintf(&b, "✅ %d new jobs (%d fetched)\n", s.Accepted, s.Fetched)

	locations := make([]string, 0, len(s.PerLocation))
	for loc := range s.PerLocation {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	for _, loc := range locations {
		fmt.Fprintf(&b, "📍 %s: %d\n", html.EscapeString(loc), s.PerLocation[loc])
	}

	if s.FailedSearches > 0 {
		fmt.Fprintf(&b, "⚠️ %d searches failed\n", s.FailedSearches)
	}
	if s.IssueURL != "" {
		fmt.Fprintf(&b, "🔗 <a href=\"%s\">View on GitHub</a>\n", html.EscapeString(s.IssueURL))
	}
	return b.String()
}
