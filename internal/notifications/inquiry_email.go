package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"nextglide-backend/internal/inquiries"
	"nextglide-backend/internal/sections"
)

const inquiryNotificationTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>New {{.KindLabel}} inquiry: {{.OfferingName}}</h3>
  <p><strong>Name:</strong> {{.FullName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{.Phone}}</p>
  {{- if .Company}}
  <p><strong>Company:</strong> {{.Company}}</p>
  {{- end}}
  {{- if .EstimatedBudget}}
  <p><strong>Budget:</strong> {{.EstimatedBudget}}</p>
  {{- end}}
  {{- if .Source}}
  <p><strong>Source:</strong> {{.Source}}</p>
  {{- end}}
  {{- if .Responses}}
  <p><strong>Answers:</strong></p>
  <ul>
  {{- range .Responses}}
    <li>{{.Question}}: {{.Answer}}</li>
  {{- end}}
  </ul>
  {{- end}}
  {{- if .Requirements}}
  <p><strong>Requirements:</strong><br/>{{.Requirements}}</p>
  {{- end}}
  <p><strong>ID:</strong> {{.ID}}</p>
</body>
</html>`

const inquiryReceiptTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Hi {{.FullName}},</p>
  <p>Thank you for your interest in <strong>{{.OfferingName}}</strong>. We have received your application and our team will get back to you within one business day.</p>
  <p>Reference: {{.ID}}</p>
  <p>Regards,<br/>The NextGlide team</p>
</body>
</html>`

var (
	inquiryNotificationTmpl = template.Must(template.New("inquiry_notification").Parse(inquiryNotificationTemplate))
	inquiryReceiptTmpl      = template.Must(template.New("inquiry_receipt").Parse(inquiryReceiptTemplate))
)

type responseLine struct {
	Question string
	Answer   string
}

type inquiryEmailData struct {
	inquiries.Inquiry
	KindLabel string
	Responses []responseLine
}

func newInquiryEmailData(item inquiries.Inquiry) inquiryEmailData {
	data := inquiryEmailData{Inquiry: item, KindLabel: string(item.Kind)}
	if data.OfferingName == "" {
		data.OfferingName = "our " + string(item.Kind)
	}
	for _, cr := range item.CustomResponses {
		data.Responses = append(data.Responses, responseLine{Question: cr.Question, Answer: answerText(cr.Answer)})
	}
	return data
}

func answerText(v sections.Value) string {
	switch v.Kind() {
	case sections.KindBool:
		if v.Bool() {
			return "Yes"
		}
		return "No"
	case sections.KindList:
		return strings.Join(v.Items(), ", ")
	default:
		return v.Text()
	}
}

func buildInquiryNotificationHTML(item inquiries.Inquiry) (string, error) {
	var buf bytes.Buffer
	if err := inquiryNotificationTmpl.Execute(&buf, newInquiryEmailData(item)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildInquiryReceiptHTML(item inquiries.Inquiry) (string, error) {
	var buf bytes.Buffer
	if err := inquiryReceiptTmpl.Execute(&buf, newInquiryEmailData(item)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (c *BrevoClient) SendInquiryReceipt(ctx context.Context, item inquiries.Inquiry) (string, error) {
	htmlBody, err := buildInquiryReceiptHTML(item)
	if err != nil {
		return "", err
	}
	subject := "We received your application"
	if item.OfferingName != "" {
		subject = fmt.Sprintf("We received your application for %s", item.OfferingName)
	}
	return c.sendHTML(ctx, item.Email, item.FullName, subject, htmlBody)
}

func (c *BrevoClient) SendInquiryNotification(ctx context.Context, item inquiries.Inquiry) (string, error) {
	htmlBody, err := buildInquiryNotificationHTML(item)
	if err != nil {
		return "", err
	}
	subject := fmt.Sprintf("New %s inquiry: %s from %s", item.Kind, item.OfferingName, item.FullName)
	return c.sendAdmin(ctx, subject, htmlBody)
}
