package email

import "context"

// Message is an outbound email: plain-text and HTML alternatives.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// Mailer is the narrow surface handlers and services depend on. Enqueueing is
// fire-and-forget; delivery outcome never reaches the caller.
type Mailer interface {
	Enqueue(ctx context.Context, msg Message) error
}
