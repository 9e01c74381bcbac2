package entity

import "strings"

const DefaultSubject = "AI Generated Email"

type SendRequest struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
}

type SendResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Message is a composed email ready for the mail relay.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// ToHeader joins the recipients into a single comma-separated address list.
func (m Message) ToHeader() string {
	return strings.Join(m.To, ",")
}

// CleanRecipients splits comma-separated entries into single addresses,
// trims every address and drops blank entries.
func CleanRecipients(recipients []string) []string {
	out := make([]string, 0, len(recipients))
	for _, entry := range recipients {
		for _, r := range strings.Split(entry, ",") {
			if r = strings.TrimSpace(r); r != "" {
				out = append(out, r)
			}
		}
	}
	return out
}

// BodyToHTML wraps body in a single paragraph, turning each newline into <br>.
// The text is not escaped.
func BodyToHTML(body string) string {
	return "<p>" + strings.ReplaceAll(body, "\n", "<br>") + "</p>"
}
