package notify

import (
	"context"
	"fmt"
	"html"
)

type Message struct {
	Subject string
	HTML    string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Nop drops every message.
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }

type Config struct {
	Driver   string
	From     string
	FromName string
	To       string
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string

	MailjetKey    string
	MailjetSecret string
}

// New picks the transport by Driver: "smtp", "mailjet" or anything else for Nop.
func New(cfg Config) (Notifier, error) {
	switch cfg.Driver {
	case "smtp":
		if cfg.SMTPHost == "" || cfg.To == "" {
			return nil, fmt.Errorf("smtp notifier needs host and recipient")
		}
		return NewSMTPMailer(cfg), nil
	case "mailjet":
		if cfg.MailjetKey == "" || cfg.MailjetSecret == "" {
			return nil, fmt.Errorf("MAILJET_API_KEY or MAILJET_SECRET_KEY not set")
		}
		return NewMailjetMailer(cfg), nil
	case "", "none":
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown notify driver %q", cfg.Driver)
}

// NewTransferRequest renders the admin notification for a new request.
func NewTransferRequest(id int64, from, to, amount string) Message {
	body := fmt.Sprintf(`<body style="margin:0;padding:0;background:#f6f6f6;">
  <table width="100%%" cellpadding="0" cellspacing="0" border="0" style="max-width:600px;background:#f3f2f0;border-radius:28px;">
    <tr>
      <td style="padding:32px;font-family:Arial,sans-serif;">
        <h1 style="margin:0 0 12px 0;font-size:28px;color:#111;">New transfer request #%d</h1>
        <table cellpadding="0" cellspacing="0" border="0" style="width:100%%;">
          <tr><td style="color:#555;padding:6px 0;">From:</td><td style="color:#111;font-weight:bold;">%s</td></tr>
          <tr><td style="color:#555;padding:6px 0;">To:</td><td style="color:#111;font-weight:bold;">%s</td></tr>
          <tr><td style="color:#555;padding:6px 0;">Amount:</td><td style="color:#111;font-weight:bold;">%s</td></tr>
        </table>
        <p style="color:#aaa;font-size:13px;">The user has to approve the request in their wallet.</p>
      </td>
    </tr>
  </table>
</body>`, id, html.EscapeString(from), html.EscapeString(to), html.EscapeString(amount))

	return Message{
		Subject: fmt.Sprintf("Transfer request #%d for %s", id, amount),
		HTML:    body,
	}
}
