package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

//go:embed templates/*.html
var templates embed.FS

var digestTemplate = template.Must(template.ParseFS(templates, "templates/digest.html"))

// Dialer sends prepared messages; *gomail.Dialer satisfies it.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string, to []string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// WithDialer swaps the SMTP dialer.
func (s *EmailSender) WithDialer(d Dialer) *EmailSender {
	s.dialer = d
	return s
}

func renderDigest(d *usecase.Digest) (string, error) {
	var body bytes.Buffer
	if err := digestTemplate.Execute(&body, newDigestEmailData(d)); err != nil {
		return "", fmt.Errorf("render digest template: %w", err)
	}
	return body.String(), nil
}

func (s *EmailSender) digestMessage(d *usecase.Digest) (*gomail.Message, error) {
	body, err := renderDigest(d)
	if err != nil {
		return nil, err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To...)
	m.SetHeader("Subject", fmt.Sprintf("Pipeline digest %s: %d follow-ups", d.Date, len(d.FollowUps)))
	m.SetBody("text/html", body)
	return m, nil
}

// SendDigest mails the daily digest to every configured recipient.
func (s *EmailSender) SendDigest(ctx context.Context, d *usecase.Digest) error {
	if len(s.To) == 0 {
		return fmt.Errorf("send digest: no recipients configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.digestMessage(d)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send digest via smtp: %w", err)
	}
	return nil
}
