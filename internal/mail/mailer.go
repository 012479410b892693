// Package mail delivers reminder e-mails over SMTP.
package mail

import (
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"taskmatrix/internal/models"
)

type Mailer struct {
	logger zerolog.Logger
	dialer *gomail.Dialer
	from   string
}

func New(logger zerolog.Logger, host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		logger: logger,
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendReminder mails the user their pending task list as an HTML body.
func (m *Mailer) SendReminder(to, username string, tasks []*models.Task) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your Daily Task Reminder")
	msg.SetBody("text/html", reminderBody(username, tasks))

	err := m.dialer.DialAndSend(msg)
	if err != nil {
		m.logger.Error().
			Err(err).
			Str("to", to).
			Msg("failed to send reminder email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info().
		Str("to", to).
		Int("tasks", len(tasks)).
		Msg("sent reminder email")
	return nil
}

func reminderBody(username string, tasks []*models.Task) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	b.WriteString(fmt.Sprintf("<h2>Hi %s,</h2>", html.EscapeString(username)))
	b.WriteString("<p>Here are your pending tasks for today:</p><ul>")
	for _, task := range tasks {
		b.WriteString("<li><b>")
		b.WriteString(html.EscapeString(task.Title))
		b.WriteString("</b>")
		if task.Description != "" {
			b.WriteString(": ")
			b.WriteString(html.EscapeString(task.Description))
		}
		if task.Deadline != nil {
			b.WriteString(fmt.Sprintf(" (due %s)", task.Deadline.Format("2006-01-02")))
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul><p>Have a productive day!</p></body></html>")
	return b.String()
}
