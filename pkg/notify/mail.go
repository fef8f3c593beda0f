package notify

import (
	"context"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
	}
}

func (m *SMTPMailer) message(msg Message) *gomail.Message {
	g := gomail.NewMessage()
	g.SetHeader("From", m.cfg.From)
	g.SetHeader("To", m.cfg.To)
	g.SetHeader("Subject", msg.Subject)
	g.SetHeader("Reply-To", m.cfg.From)
	g.SetBody("text/html", msg.HTML)
	return g
}

// Notify sends over SMTP. gomail has no context support, so ctx is only
// checked before dialing.
func (m *SMTPMailer) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.message(msg)); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	logrus.WithField("subject", msg.Subject).Info("mail sent via smtp")
	return nil
}

type MailjetMailer struct {
	cfg    Config
	client *mailjet.Client
}

func NewMailjetMailer(cfg Config) *MailjetMailer {
	return &MailjetMailer{
		cfg:    cfg,
		client: mailjet.NewMailjetClient(cfg.MailjetKey, cfg.MailjetSecret),
	}
}

func (m *MailjetMailer) messages(msg Message) *mailjet.MessagesV31 {
	name := m.cfg.FromName
	if name == "" {
		name = "Wallet Dashboard"
	}
	return &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: m.cfg.From,
				Name:  name,
			},
			To: &mailjet.RecipientsV31{
				{Email: m.cfg.To},
			},
			Subject:  msg.Subject,
			HTMLPart: msg.HTML,
		},
	}}
}

func (m *MailjetMailer) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := m.client.SendMailV31(m.messages(msg))
	if err != nil {
		return errors.Wrap(err, "mailjet send")
	}
	logrus.WithField("results", len(res.ResultsV31)).Info("mail sent via mailjet")
	return nil
}
