package notifier

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const subjectTemplate = `Your {{.Brand}} verification code`

const textTemplate = `Your verification code is: {{.Code}}
This code will expire in {{.TTLSeconds}} seconds. For your security, please do not share this code.`

const htmlTemplate = `<div style="font-family: Arial, Helvetica, sans-serif; color: #333; line-height: 1.6; max-width: 600px; margin: 20px auto; padding: 25px; border: 1px solid #ddd; border-radius: 10px; background: #ffffff;">
  <h1 style="color: #111; margin: 0 0 20px; font-size: 26px; text-align: center;">{{.Brand}}</h1>
  <p style="font-size: 17px;">Here is your one-time code to complete your verification:</p>
  <p style="text-align: center; margin: 30px 0;">
    <span style="font-size: 32px; font-weight: bold; background: #f0f0f0; padding: 15px 30px; border-radius: 8px; letter-spacing: 4px; border: 1px solid #ccc;">{{.Code}}</span>
  </p>
  <p style="font-size: 16px; text-align: center;">This code will expire in <strong>{{.TTLSeconds}} seconds</strong>.</p>
  <p style="font-size: 15px; text-align: center; color: #777;">For your security, <strong>please do not share this code</strong> with anyone.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;"/>
  <p style="font-size: 12px; color: #999; text-align: center;">If you did not request this code, you can safely ignore this email.</p>
</div>`

type templateData struct {
	Brand      string
	Code       string
	TTLSeconds int64
}

type templates struct {
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

func parseTemplates() (*templates, error) {
	subject, err := texttemplate.New("subject").Parse(subjectTemplate)
	if err != nil {
		return nil, err
	}
	text, err := texttemplate.New("text").Parse(textTemplate)
	if err != nil {
		return nil, err
	}
	html, err := htmltemplate.New("html").Parse(htmlTemplate)
	if err != nil {
		return nil, err
	}
	return &templates{subject: subject, text: text, html: html}, nil
}

func (t *templates) render(data templateData) (subject, text, html string, err error) {
	var buf bytes.Buffer
	if err = t.subject.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	subject = buf.String()

	buf.Reset()
	if err = t.text.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	text = buf.String()

	buf.Reset()
	if err = t.html.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	html = buf.String()

	return subject, text, html, nil
}
