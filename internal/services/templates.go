package services

import (
	"html"
	"strconv"
	"strings"

	"inquirydesk/internal/domain"
)

// EmailTemplate is a mail with {{placeholder}} fields. The same definition
// is uploaded to SES and rendered locally for SMTP delivery.
type EmailTemplate struct {
	Name    string
	Subject string
	HTML    string
	Text    string
}

// Render substitutes data into the template. Values are HTML-escaped in
// the HTML part only.
func (t EmailTemplate) Render(data map[string]string) (subject, htmlBody, textBody string) {
	plain := make([]string, 0, len(data)*2)
	escaped := make([]string, 0, len(data)*2)
	for k, v := range data {
		plain = append(plain, "{{"+k+"}}", v)
		escaped = append(escaped, "{{"+k+"}}", html.EscapeString(v))
	}
	p := strings.NewReplacer(plain...)
	e := strings.NewReplacer(escaped...)
	return p.Replace(t.Subject), e.Replace(t.HTML), p.Replace(t.Text)
}

// ConfirmationData is the template data of the confirmation mail.
func ConfirmationData(inq *domain.Inquiry) map[string]string {
	return map[string]string{
		"name":         inq.Name,
		"inquiry_id":   strconv.FormatUint(uint64(inq.ID), 10),
		"inquiry_text": inq.InquiryText,
	}
}

// ResponseData is the template data of the response mail.
func ResponseData(inq *domain.Inquiry, resp *domain.InquiryResponse) map[string]string {
	return map[string]string{
		"inquiry_id":    strconv.FormatUint(uint64(inq.ID), 10),
		"response_text": resp.Body,
		"inquiry_text":  inq.InquiryText,
	}
}

const emailStyle = `
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 20px auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; }
        .header { background-color: #f4f4f4; padding: 10px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { padding: 20px; }
        .box { background-color: #f9f9f9; padding: 15px; border-radius: 5px; border: 1px solid #eee; margin-bottom: 20px; }
        .footer { font-size: 0.9em; text-align: center; color: #777; margin-top: 20px; }`

// ConfirmationTemplate is sent when an inquiry is stored.
func ConfirmationTemplate(name string) EmailTemplate {
	return EmailTemplate{
		Name:    name,
		Subject: "Confirmation of your inquiry (ID: {{inquiry_id}})",
		HTML: `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>` + emailStyle + `
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Your inquiry has been received</h2>
        </div>
        <div class="content">
            <p>Hello {{name}},</p>
            <p>Thank you for your message. We have received your inquiry with the ID <strong>{{inquiry_id}}</strong> and will process it as soon as possible.</p>
            <p><strong>Your original inquiry:</strong></p>
            <div class="box">
                <p><em>{{inquiry_text}}</em></p>
            </div>
            <p>We will get back to you as soon as we have an answer for you.</p>
        </div>
        <div class="footer">
            <p>&copy; Customer Inquiry Manager</p>
        </div>
    </div>
</body>
</html>`,
		Text: `Hello {{name}},

Thank you for your message. We have received your inquiry with the ID {{inquiry_id}} and will process it as soon as possible.

Your original inquiry:
{{inquiry_text}}

We will get back to you as soon as we have an answer for you.

© Customer Inquiry Manager
`,
	}
}

// ResponseTemplate is sent when a manager answers an inquiry.
func ResponseTemplate(name string) EmailTemplate {
	return EmailTemplate{
		Name:    name,
		Subject: "Response to your inquiry (ID: {{inquiry_id}})",
		HTML: `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>` + emailStyle + `
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>Response to your inquiry</h2>
        </div>
        <div class="content">
            <p>Here is the response to your inquiry with the ID <strong>{{inquiry_id}}</strong>:</p>
            <div class="box">
                <p>{{response_text}}</p>
            </div>
            <p><strong>Your original inquiry:</strong></p>
            <div class="box">
                <p><em>{{inquiry_text}}</em></p>
            </div>
            <p>We hope this response was helpful.</p>
        </div>
        <div class="footer">
            <p>&copy; Customer Inquiry Manager</p>
        </div>
    </div>
</body>
</html>`,
		Text: `Response to your inquiry (ID: {{inquiry_id}})

Here is the response to your inquiry:

{{response_text}}

Your original inquiry:
{{inquiry_text}}

We hope this response was helpful.

© Customer Inquiry Manager
`,
	}
}
