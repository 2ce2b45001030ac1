package services

import (
	"context"
	"fmt"
	"strings"

	"medadmit/internal/domain"
	"medadmit/internal/validation"
)

// Notifier is told about every accepted public submission.
type Notifier interface {
	NotifySubmission(ctx context.Context, form string, rec domain.Record) error
}

// EmailNotifier mails a summary of each submission to the admin inbox
type EmailNotifier struct {
	email *EmailService
	to    string
}

// NewEmailNotifier creates a notifier sending to address
func NewEmailNotifier(email *EmailService, address string) *EmailNotifier {
	return &EmailNotifier{email: email, to: address}
}

func (n *EmailNotifier) NotifySubmission(ctx context.Context, form string, rec domain.Record) error {
	if n.to == "" {
		return nil
	}

	subject := strings.NewReplacer("\r", " ", "\n", " ").Replace(fmt.Sprintf("New %s submission", form))
	htmlBody, textBody := submissionBodies(form, rec)
	return n.email.SendHTMLEmail(ctx, n.to, subject, htmlBody, textBody)
}

// submissionBodies renders the record's fields as an HTML table and plain text.
func submissionBodies(form string, rec domain.Record) (string, string) {
	var html, text strings.Builder

	html.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8"></head>`)
	html.WriteString(`<body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #334155;">`)
	fmt.Fprintf(&html, `<h2 style="color: #0F766E;">New %s submission</h2>`, validation.EscapeHTML(form))
	html.WriteString(`<table cellpadding="6" style="border-collapse: collapse;">`)

	fmt.Fprintf(&text, "New %s submission\n\n", form)

	values := rec.Values()
	for i, col := range rec.Columns() {
		value := values[i]
		if value == "" {
			value = "Not provided"
		}
		fmt.Fprintf(&html, `<tr><th align="left">%s</th><td style="white-space: pre-wrap;">%s</td></tr>`,
			validation.EscapeHTML(col), validation.EscapeHTML(value))
		fmt.Fprintf(&text, "%s: %s\n", col, value)
	}
	html.WriteString(`</table></body></html>`)

	return html.String(), text.String()
}
