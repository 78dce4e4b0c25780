package mailer

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ContactForm is a message submitted through the public contact endpoint.
type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Missing lists the required fields left empty.
func (f ContactForm) Missing() []string {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"email", f.Email},
		{"subject", f.Subject},
		{"message", f.Message},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// Raw HTML in the message is dropped because goldmark runs without html.WithUnsafe.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

var contactHTML = htmltemplate.Must(htmltemplate.New("contact.html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; margin: 0; padding: 24px; background: #f6f6f6;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 24px;">
    <h2 style="margin-top: 0; color: #1a5276;">New contact form submission</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><td style="padding: 6px 0; font-weight: bold; width: 90px;">Name</td><td>{{.Name}}</td></tr>
      <tr><td style="padding: 6px 0; font-weight: bold;">Email</td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
      <tr><td style="padding: 6px 0; font-weight: bold;">Subject</td><td>{{.Subject}}</td></tr>
    </table>
    <hr style="border: none; border-top: 1px solid #eee; margin: 16px 0;">
    <div>{{.Body}}</div>
    <p style="font-size: 12px; color: #999; margin-top: 24px;">Received {{.ReceivedAt}}. Reply to this email to answer {{.Name}} directly.</p>
  </div>
</body>
</html>
`))

var contactText = texttemplate.Must(texttemplate.New("contact.txt").Parse(`New contact form submission

Name:    {{.Name}}
Email:   {{.Email}}
Subject: {{.Subject}}

{{.Message}}

Received {{.ReceivedAt}}. Reply to this email to answer {{.Name}} directly.
`))

type contactView struct {
	ContactForm
	Body       htmltemplate.HTML
	ReceivedAt string
}

// BuildContactEmail renders form into a message addressed to the operator
// inbox, with replies going to the submitter.
func BuildContactEmail(form ContactForm, from, to string, now time.Time) (Message, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(form.Message), &body); err != nil {
		return Message{}, fmt.Errorf("render message: %w", err)
	}

	view := contactView{
		ContactForm: form,
		Body:        htmltemplate.HTML(body.String()),
		ReceivedAt:  now.UTC().Format(time.RFC1123),
	}

	var htmlOut, textOut bytes.Buffer
	if err := contactHTML.Execute(&htmlOut, view); err != nil {
		return Message{}, fmt.Errorf("render html: %w", err)
	}
	if err := contactText.Execute(&textOut, view); err != nil {
		return Message{}, fmt.Errorf("render text: %w", err)
	}

	return Message{
		From:    from,
		To:      []string{to},
		ReplyTo: form.Email,
		Subject: "New contact message: " + strings.TrimSpace(form.Subject),
		Text:    textOut.String(),
		HTML:    htmlOut.String(),
	}, nil
}
