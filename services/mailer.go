package services

import (
	"fmt"
	"html"
	"net/smtp"
	"os"
	"strings"
	"time"

	"maengelportal/model"

	"github.com/joho/godotenv"
)

// Mailer sends a single HTML mail. Handlers treat failures as
// best-effort unless the route exists to send mail.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

func LoadEmailConfig() (*model.EmailConfig, error) {
	if os.Getenv("APP_ENV") == "" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not loaded, fallback to OS env vars")
		}
	}

	config := &model.EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
		To:       os.Getenv("NOTIFY_EMAIL"),
	}
	if config.From == "" {
		config.From = config.Username
	}

	if config.Host == "" || config.Port == "" || config.Username == "" || config.Password == "" {
		return nil, fmt.Errorf("missing required SMTP environment variables")
	}

	return config, nil
}

type SMTPMailer struct {
	Config *model.EmailConfig
}

func NewSMTPMailer(config *model.EmailConfig) *SMTPMailer {
	return &SMTPMailer{Config: config}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.Config.Username, m.Config.Password, m.Config.Host)

	headers := make(map[string]string)
	headers["From"] = m.Config.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = `text/html; charset="UTF-8"`

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%s", m.Config.Host, m.Config.Port)
	if err := smtp.SendMail(addr, auth, m.Config.From, []string{to}, []byte(message.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// SubmissionAlertBody renders the internal staff notification for a new
// Mangelmeldung.
func SubmissionAlertBody(s *model.Submission) string {
	fileRows := ""
	for _, f := range s.Files {
		fileRows += fmt.Sprintf(`<li>%s (%d Bytes)</li>`, html.EscapeString(f.Name), f.Size)
	}
	if fileRows == "" {
		fileRows = "<li>Keine Dateien angehängt</li>"
	}

	return fmt.Sprintf(`
        <div style="font-family:Arial,sans-serif;max-width:680px;margin:0 auto">
          <h2 style="background:#eeeeee;padding:16px">Neue Mangelmeldung eingegangen</h2>
          <table cellpadding="6" cellspacing="0" border="0">
            <tr><td><b>Eingegangen am</b></td><td>%s</td></tr>
            <tr><td><b>Name</b></td><td>%s %s</td></tr>
            <tr><td><b>Adresse</b></td><td>%s, %s %s</td></tr>
            <tr><td><b>TC-Nummer</b></td><td>%s</td></tr>
            <tr><td><b>E-Mail</b></td><td>%s</td></tr>
            <tr><td><b>Telefon</b></td><td>%s</td></tr>
          </table>
          <h3>Beschreibung</h3>
          <p>%s</p>
          <h3>Dateien</h3>
          <ul>%s</ul>
        </div>`,
		s.Timestamp.Format("02.01.2006 15:04"),
		html.EscapeString(s.Vorname), html.EscapeString(s.Nachname),
		html.EscapeString(s.StrasseHausnummer), html.EscapeString(s.PLZ), html.EscapeString(s.Ort),
		html.EscapeString(s.TCNummer),
		html.EscapeString(s.Email),
		html.EscapeString(s.Telefon),
		html.EscapeString(s.Beschreibung),
		fileRows,
	)
}

// ConfirmationBody renders the customer confirmation with the login
// credentials and the tracking link. tempPassword may be empty when the
// customer already had an account.
func ConfirmationBody(s *model.Submission, tempPassword, trackingURL string) string {
	credentials := ""
	if tempPassword != "" {
		credentials = fmt.Sprintf(`
          <h3>Ihr Kundenzugang</h3>
          <p>Wir haben für Sie ein Kundenkonto angelegt:</p>
          <table cellpadding="6" cellspacing="0" border="0">
            <tr><td><b>E-Mail</b></td><td>%s</td></tr>
            <tr><td><b>Vorläufiges Passwort</b></td><td><code>%s</code></td></tr>
          </table>
          <p>Bitte ändern Sie das Passwort nach der ersten Anmeldung.</p>`,
			html.EscapeString(s.Email), html.EscapeString(tempPassword))
	}

	tracking := ""
	if trackingURL != "" {
		tracking = fmt.Sprintf(`
          <h3>Status verfolgen</h3>
          <p>Den Bearbeitungsstand Ihrer Meldung können Sie jederzeit hier einsehen:<br>
          <a href="%s">%s</a></p>`, trackingURL, html.EscapeString(trackingURL))
	}

	return fmt.Sprintf(`
        <div style="font-family:Arial,sans-serif;max-width:680px;margin:0 auto">
          <h2 style="background:#eeeeee;padding:16px">Ihre Mangelmeldung ist eingegangen</h2>
          <p>Guten Tag %s %s,</p>
          <p>vielen Dank für Ihre Meldung vom %s zur TC-Nummer <b>%s</b>.
          Wir haben sie erhalten und werden sie schnellstmöglich bearbeiten.</p>
          %s
          %s
          <p>Mit freundlichen Grüßen<br>Ihr Kundenservice</p>
        </div>`,
		html.EscapeString(s.Vorname), html.EscapeString(s.Nachname),
		s.Timestamp.Format("02.01.2006"),
		html.EscapeString(s.TCNummer),
		credentials,
		tracking,
	)
}

// DeadlineReminderBody renders the daily internal reminder for submissions
// with an overdue Frist.
func DeadlineReminderBody(overdue []model.Submission, now time.Time) string {
	rows := ""
	for _, s := range overdue {
		frist := ""
		if s.ZweiteFrist != nil && s.ZweiteFrist.Before(now) {
			frist = "2. Frist " + s.ZweiteFrist.Format("02.01.2006")
		} else if s.ErsteFrist != nil {
			frist = "1. Frist " + s.ErsteFrist.Format("02.01.2006")
		}
		rows += fmt.Sprintf(`<tr><td>%d</td><td>%s %s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			s.SubmissionID,
			html.EscapeString(s.Vorname), html.EscapeString(s.Nachname),
			html.EscapeString(s.TCNummer),
			s.Status.Display(),
			frist,
		)
	}

	return fmt.Sprintf(`
        <div style="font-family:Arial,sans-serif;max-width:680px;margin:0 auto">
          <h2 style="background:#eeeeee;padding:16px">Überfällige Mangelmeldungen</h2>
          <p>Bei den folgenden Meldungen ist eine Frist abgelaufen, ohne dass sie erledigt wurden:</p>
          <table cellpadding="6" cellspacing="0" border="1">
            <tr><th>Nr.</th><th>Name</th><th>TC-Nummer</th><th>Status</th><th>Frist</th></tr>
            %s
          </table>
        </div>`, rows)
}
