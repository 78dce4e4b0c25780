// Package mailer sends the contact form email through SMTP or the Resend API.
package mailer

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by Verify when credentials are missing.
var ErrNotConfigured = errors.New("mail transport not configured")

// Message is a multipart (plain text + HTML) email.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages. Implementations are safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	// Verify checks that the transport accepts the configured credentials.
	Verify(ctx context.Context) error
}
