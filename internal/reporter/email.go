package reporter

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"regexp"
	"time"

	"github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
)

const sslPort = 465

var (
	detailsTagRegex = regexp.MustCompile(`(?i)</?details>`)
	summaryTagRegex = regexp.MustCompile(`(?is)<summary>(.*?)</summary>`)
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

type EmailConfig struct {
	SMTPServer     string
	SMTPPort       int
	Username       string
	Password       string
	Receivers      []string
	GitHubIssueURL string
}

// MailSender delivers prepared messages. *mail.Client satisfies it.
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type EmailNotifier struct {
	cfg       EmailConfig
	logger    *zap.Logger
	newSender func(cfg EmailConfig) (MailSender, error)
}

func NewEmailNotifier(cfg EmailConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:       cfg,
		logger:    logger,
		newSender: newSMTPClient,
	}
}

// newSMTPClient uses implicit TLS on port 465 and STARTTLS everywhere else.
func newSMTPClient(cfg EmailConfig) (MailSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(30 * time.Second),
	}
	if cfg.SMTPPort == sslPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.SMTPServer, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

// Enabled reports whether credentials and recipients are configured.
func (n *EmailNotifier) Enabled() bool {
	return n.cfg.Username != "" && n.cfg.Password != "" && len(n.cfg.Receivers) > 0
}

// ReportSubject is the subject line for the report sent on date.
func ReportSubject(date time.Time) string {
	return "Weekly Jobs Report - " + date.Format("2006-01-02")
}

// SendReport mails the Markdown file at bodyPath to every receiver, one
// message each. Missing credentials, receivers or file are logged and skipped.
func (n *EmailNotifier) SendReport(ctx context.Context, subject, bodyPath string) error {
	if n.cfg.Username == "" || n.cfg.Password == "" {
		n.logger.Warn("Email credentials not provided, skipping email notification")
		return nil
	}
	if len(n.cfg.Receivers) == 0 {
		n.logger.Warn("No receiver emails provided, skipping email notification")
		return nil
	}

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		n.logger.Error("Report file not readable, skipping email notification", zap.String("path", bodyPath), zap.Error(err))
		return nil
	}

	messages := make([]*mail.Msg, 0, len(n.cfg.Receivers))
	for _, receiver := range n.cfg.Receivers {
		msg, err := n.buildMessage(receiver, subject, string(body))
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	client, err := n.newSender(n.cfg)
	if err != nil {
		return err
	}

	n.logger.Info("Sending report email", zap.String("server", n.cfg.SMTPServer), zap.Int("port", n.cfg.SMTPPort), zap.Int("receivers", len(messages)))
	if err := client.DialAndSendWithContext(ctx, messages...); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	n.logger.Info("Report email sent", zap.Strings("receivers", n.cfg.Receivers))
	return nil
}

func (n *EmailNotifier) buildMessage(receiver, subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.cfg.Username); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(receiver); err != nil {
		return nil, fmt.Errorf("invalid receiver address %q: %w", receiver, err)
	}
	msg.Subject(subject)

	text := body
	if n.cfg.GitHubIssueURL != "" {
		text = fmt.Sprintf("View on GitHub: %s\n\n%s", n.cfg.GitHubIssueURL, body)
	}
	htmlBody, err := RenderHTML(body, subject, n.cfg.GitHubIssueURL)
	if err != nil {
		return nil, err
	}

	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

// RenderHTML converts the Markdown report into a standalone HTML document.
// <details> wrappers are dropped and <summary> text becomes bold, since most
// mail clients do not support collapsible sections.
func RenderHTML(body, title, issueURL string) (string, error) {
	body = detailsTagRegex.ReplaceAllString(body, "")
	body = summaryTagRegex.ReplaceAllString(body, "**$1**")

	var content bytes.Buffer
	if err := markdown.Convert([]byte(body), &content); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>table{border-collapse:collapse}th,td{border:1px solid #d0d7de;padding:4px 8px}</style>\n")
	b.WriteString("</head>\n<body>\n")
	if issueURL != "" {
		fmt.Fprintf(&b, "<p><a href=\"%s\">View on GitHub</a></p>\n", html.EscapeString(issueURL))
	}
	b.Write(content.Bytes())
	b.WriteString("</body>\n</html>\n")
	return b.String(), nil
}
