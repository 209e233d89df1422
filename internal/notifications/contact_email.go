package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"nextglide-backend/internal/contacts"
)

const contactWelcomeTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Thanks for reaching out to NextGlide. Your message has reached our team and we will reply shortly.</p>
  {{- if .Subject}}
  <p><strong>Subject:</strong> {{.Subject}}</p>
  {{- end}}
  <p>Regards,<br/>The NextGlide team</p>
</body>
</html>`

const contactNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New contact{{if .Source}} from {{.Source}}{{end}}</h3>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  {{- if .Phone}}
  <p><strong>Phone:</strong> {{.Phone}}</p>
  {{- end}}
  {{- if .Company}}
  <p><strong>Company:</strong> {{.Company}}</p>
  {{- end}}
  {{- if .Interest}}
  <p><strong>Interest:</strong> {{.Interest}}</p>
  {{- end}}
  {{- if .ResumeLink}}
  <p><strong>Resume:</strong> <a href="{{.ResumeLink}}">{{.ResumeLink}}</a></p>
  {{- end}}
  {{- if .Subject}}
  <p><strong>Subject:</strong> {{.Subject}}</p>
  {{- end}}
  <p><strong>Message:</strong><br/>{{.Message}}</p>
  <p><strong>ID:</strong> {{.ID}}</p>
</body>
</html>`

const customEmailTemplate = `<!DOCTYPE html>
<html>
<body>
  {{- if .ToName}}
  <p>Hi {{.ToName}},</p>
  {{- end}}
  <p>{{.Body}}</p>
  <p>Regards,<br/>The NextGlide team</p>
</body>
</html>`

var (
	contactWelcomeTmpl      = template.Must(template.New("contact_welcome").Parse(contactWelcomeTemplate))
	contactNotificationTmpl = template.Must(template.New("contact_notification").Parse(contactNotificationTemplate))
	customEmailTmpl         = template.Must(template.New("custom_email").Parse(customEmailTemplate))
)

func buildContactWelcomeHTML(item contacts.Contact) (string, error) {
	var buf bytes.Buffer
	if err := contactWelcomeTmpl.Execute(&buf, item); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildContactNotificationHTML(item contacts.Contact) (string, error) {
	var buf bytes.Buffer
	if err := contactNotificationTmpl.Execute(&buf, item); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// messageHTML escapes an admin's plain text message and turns its line
// breaks into <br>.
func messageHTML(message string) template.HTML {
	message = strings.ReplaceAll(message, "\r\n", "\n")
	escaped := template.HTMLEscapeString(message)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

func buildCustomEmailHTML(email contacts.CustomEmail) (string, error) {
	data := struct {
		ToName string
		Body   template.HTML
	}{
		ToName: email.ToName,
		Body:   messageHTML(email.Message),
	}
	var buf bytes.Buffer
	if err := customEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c *BrevoClient) SendContactWelcome(ctx context.Context, item contacts.Contact) (string, error) {
	htmlBody, err := buildContactWelcomeHTML(item)
	if err != nil {
		return "", err
	}
	return c.sendHTML(ctx, item.Email, item.Name, "Thanks for contacting NextGlide", htmlBody)
}

func (c *BrevoClient) SendContactNotification(ctx context.Context, item contacts.Contact) (string, error) {
	htmlBody, err := buildContactNotificationHTML(item)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("New contact: %s", item.Name)
	if item.Subject != "" {
		subject = fmt.Sprintf("New contact: %s (%s)", item.Name, item.Subject)
	}
	return c.sendAdmin(ctx, subject, htmlBody)
}

func (c *BrevoClient) SendCustomEmail(ctx context.Context, email contacts.CustomEmail) (string, error) {
	htmlBody, err := buildCustomEmailHTML(email)
	if err != nil {
		return "", err
	}
	return c.sendHTML(ctx, email.ToEmail, email.ToName, email.Subject, htmlBody)
}
