package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// EmailService delivers owner-facing notifications over SMTP. When SMTP is
// not configured every send becomes a logged no-op so the public surface
// keeps working without a mail server.
type EmailService struct {
	context.DefaultService

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
	notifyEmail  string

	templates map[string]*template.Template
}

const EMAIL_SVC = "email_svc"

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.smtpHost = os.Getenv("SMTP_HOST")
	svc.smtpPort = os.Getenv("SMTP_PORT")
	svc.smtpUsername = os.Getenv("SMTP_USERNAME")
	svc.smtpPassword = os.Getenv("SMTP_PASSWORD")
	svc.fromEmail = os.Getenv("FROM_EMAIL")
	svc.fromName = os.Getenv("FROM_NAME")
	svc.notifyEmail = os.Getenv("NOTIFY_EMAIL")

	// Set defaults if not provided
	if svc.smtpPort == "" {
		svc.smtpPort = "587"
	}
	if svc.fromName == "" {
		svc.fromName = "Portfolio"
	}
	if svc.notifyEmail == "" {
		svc.notifyEmail = svc.fromEmail
	}

	svc.templates = make(map[string]*template.Template)

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	// Load email templates
	err := svc.loadTemplates()
	if err != nil {
		log.WithError(err).Error("Failed to load email templates")
		// Don't fail startup, just log the error
	}

	return nil
}

// Email templates
const contactNotificationEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Message - {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #4F46E5; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .details { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .message { background-color: white; padding: 15px; border-left: 4px solid #4F46E5; margin: 15px 0; white-space: pre-wrap; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Message</h1>
        </div>
        <div class="content">
            <div class="details">
                <strong>From:</strong> {{.Name}} &lt;{{.Email}}&gt;<br>
                <strong>Subject:</strong> {{.Subject}}<br>
                <strong>IP:</strong> {{.IP}}<br>
                <strong>Location:</strong> {{.Location}}<br>
                <strong>Received:</strong> {{.ReceivedAt}}
            </div>
            <div class="message">{{.Message}}</div>
        </div>
        <div class="footer">
            <p>Sent automatically by {{.AppName}}.</p>
        </div>
    </div>
</body>
</html>
`

const adminLoginAlertEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Admin Login - {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #059669; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .details { background-color: white; padding: 15px; border-radius: 5px; margin: 15px 0; }
        .info-box { background-color: #F0FDF4; border-left: 4px solid #059669; padding: 15px; margin: 20px 0; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Admin Login Detected</h1>
        </div>
        <div class="content">
            <p>A successful login to the {{.AppName}} admin panel was recorded:</p>
            <div class="details">
                <strong>Username:</strong> {{.Username}}<br>
                <strong>Time:</strong> {{.LoginTime}}<br>
                <strong>IP Address:</strong> {{.IP}}<br>
                <strong>Location:</strong> {{.Location}}
            </div>
            <div class="info-box">
                <strong>Was this you?</strong> If you recognize this login, no action is needed.
                Otherwise rotate the admin credentials immediately.
            </div>
        </div>
        <div class="footer">
            <p>Sent automatically by {{.AppName}}.</p>
        </div>
    </div>
</body>
</html>
`

// Template data structures
type ContactNotificationEmailData struct {
	AppName    string
	Name       string
	Email      string
	Subject    string
	Message    string
	IP         string
	Location   string
	ReceivedAt string
}

type AdminLoginAlertEmailData struct {
	AppName   string
	Username  string
	LoginTime string
	IP        string
	Location  string
}

// Load email templates
func (svc *EmailService) loadTemplates() error {
	var err error

	svc.templates["contact_notification"], err = template.New("contact_notification").Parse(contactNotificationEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse contact notification template: %v", err)
	}

	svc.templates["admin_login_alert"], err = template.New("admin_login_alert").Parse(adminLoginAlertEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse admin login alert template: %v", err)
	}

	return nil
}

// Notify the site owner about an accepted contact submission.
func (svc *EmailService) SendContactNotification(data *ContactNotificationEmailData) error {
	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, skipping contact notification")
		return nil
	}

	data.AppName = svc.fromName
	subject := fmt.Sprintf("New contact message from %s", data.Name)
	return svc.sendTemplateEmail(svc.notifyEmail, subject, "contact_notification", data)
}

// Alert the site owner about a successful admin login.
func (svc *EmailService) SendAdminLoginAlert(data *AdminLoginAlertEmailData) error {
	if svc.smtpHost == "" {
		log.Warn("SMTP not configured, skipping admin login alert")
		return nil
	}

	data.AppName = svc.fromName
	subject := fmt.Sprintf("Admin login from %s", data.IP)
	return svc.sendTemplateEmail(svc.notifyEmail, subject, "admin_login_alert", data)
}

// Send template email
func (svc *EmailService) sendTemplateEmail(to, subject, templateName string, data interface{}) error {
	tmpl, exists := svc.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	var body bytes.Buffer
	err := tmpl.Execute(&body, data)
	if err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}

	return svc.sendEmail(to, subject, body.String())
}

// Send email using SMTP
func (svc *EmailService) sendEmail(to, subject, body string) error {
	if svc.smtpHost == "" {
		return fmt.Errorf("SMTP not configured")
	}

	auth := smtp.PlainAuth("", svc.smtpUsername, svc.smtpPassword, svc.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		svc.fromName, svc.fromEmail, to, subject, body))

	err := smtp.SendMail(
		svc.smtpHost+":"+svc.smtpPort,
		auth,
		svc.fromEmail,
		[]string{to},
		msg,
	)

	if err != nil {
		log.WithError(err).WithFields(log.Fields{"to": to, "subject": subject}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %v", err)
	}

	log.WithFields(log.Fields{"to": to, "subject": subject}).Info("Email sent successfully")
	return nil
}
