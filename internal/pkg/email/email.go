package email

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// EmailService sends transactional mail to members
type EmailService interface {
	SendStatusEmail(toEmail, toName, title, message string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	BaseURL   string
}

// Configured reports whether enough settings are present to send mail
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.FromEmail != ""
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailServiceImpl implements EmailService on top of gomail
type EmailServiceImpl struct {
	config SMTPConfig
	dialer dialer
	logger zerolog.Logger
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) EmailService {
	return &EmailServiceImpl{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		logger: logger,
	}
}

var statusTemplate = template.Must(template.New("status").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">{{.Title}}</h2>
		<p>Hello {{.Name}},</p>
		<p>{{.Message}}</p>
		{{if .BaseURL}}<p><a href="{{.BaseURL}}/dashboard">Open your dashboard</a></p>{{end}}
		<p>Best regards,<br>{{.From}}</p>
	</div>
</body>
</html>`))

// SendStatusEmail mails the outcome of a review to the member
func (s *EmailServiceImpl) SendStatusEmail(toEmail, toName, title, message string) error {
	if !s.config.Configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("title", title).
			Msg("SMTP not configured - status email not sent")
		return nil
	}

	var body bytes.Buffer
	err := statusTemplate.Execute(&body, map[string]string{
		"Title":   title,
		"Name":    toName,
		"Message": message,
		"BaseURL": s.config.BaseURL,
		"From":    s.config.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetAddressHeader("To", toEmail, toName)
	m.SetHeader("Subject", title)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
