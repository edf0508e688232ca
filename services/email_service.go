package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/rsichomba/portfolio-lms/config"
)

// EmailService sends transactional mail over SMTP. Delivery is
// best-effort: callers log failures and continue.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
	contact  string
}

// NewEmailService builds the service from environment configuration
func NewEmailService() *EmailService {
	env, err := config.Get()
	if err != nil {
		return &EmailService{}
	}

	port := env.SMTP_PORT
	if port == "" {
		port = "587"
	}

	return &EmailService{
		host:     env.SMTP_HOST,
		port:     port,
		username: env.SMTP_USERNAME,
		password: env.SMTP_PASSWORD,
		from:     env.SMTP_FROM,
		contact:  env.CONTACT_EMAIL,
	}
}

// IsConfigured reports whether SMTP credentials are present
func (e *EmailService) IsConfigured() bool {
	return e.host != "" && e.username != "" && e.password != ""
}

// SendVerificationCode mails a 6-digit code for email verification,
// password resets, or parent-link confirmations.
func (e *EmailService) SendVerificationCode(toEmail, name, code, purpose string) error {
	if !e.IsConfigured() {
		log.Printf("SMTP not configured. Verification code for %s: %s", toEmail, code)
		return fmt.Errorf("SMTP not configured")
	}

	var subject string
	switch purpose {
	case "password_reset":
		subject = "Password Reset Code"
	case "parent_link":
		subject = "Parent Account Link Request"
	default:
		subject = "Verify Your Email"
	}

	body := e.buildCodeEmailBody(name, code, subject)
	return e.sendEmail(toEmail, subject, body)
}

// SendContactNotification forwards a contact form message to the site owner
func (e *EmailService) SendContactNotification(fromName, fromEmail, subject, message string) error {
	if !e.IsConfigured() || e.contact == "" {
		log.Printf("SMTP not configured, contact message from %s <%s> not forwarded", fromName, fromEmail)
		return fmt.Errorf("SMTP not configured")
	}

	body := fmt.Sprintf(`<html><body>
<p><strong>From:</strong> %s &lt;%s&gt;</p>
<p><strong>Subject:</strong> %s</p>
<hr>
<p>%s</p>
</body></html>`, fromName, fromEmail, subject, strings.ReplaceAll(message, "\n", "<br>"))

	return e.sendEmail(e.contact, "New contact message: "+subject, body)
}

// SendEnrollmentConfirmation mails a student after they enroll in a course
func (e *EmailService) SendEnrollmentConfirmation(toEmail, name, courseTitle string) error {
	if !e.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	body := fmt.Sprintf(`<html><body>
<h2>Welcome to %s</h2>
<p>Hello %s,</p>
<p>Your enrollment in <strong>%s</strong> is confirmed. Course materials are available from your dashboard.</p>
</body></html>`, courseTitle, name, courseTitle)

	return e.sendEmail(toEmail, "Enrollment confirmed: "+courseTitle, body)
}

func (e *EmailService) buildCodeEmailBody(name, code, heading string) string {
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(`<html><body>
<h2>%s</h2>
<p>Hello %s,</p>
<p>Your verification code is:</p>
<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</p>
<p>The code expires in 24 hours. If you did not request it, you can ignore this email.</p>
</body></html>`, heading, name, code)
}

// sendEmail delivers a single HTML message over SMTP with STARTTLS
func (e *EmailService) sendEmail(to, subject, htmlBody string) error {
	headers := map[string]string{
		"From":         e.from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%s", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(&tls.Config{ServerName: e.host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()
	log.Printf("Email sent to %s: %s", to, subject)
	return nil
}
