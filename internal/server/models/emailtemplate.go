package models

import (
	"strings"
	"time"
)

// Keys of the templates the server sends on its own.
const (
	TemplateEmailConfirmation = "email_confirmation"
	TemplatePasswordReset     = "password_reset"
)

type EmailTemplate struct {
	Key       string    `json:"key" yaml:"key"`
	Subject   string    `json:"subject" yaml:"subject"`
	HTMLBody  string    `json:"html_body" yaml:"html_body"`
	TextBody  string    `json:"text_body" yaml:"text_body"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

func (t *EmailTemplate) Validate() error {
	t.Key = strings.TrimSpace(t.Key)
	if t.Key == "" {
		return invalid("template key is required")
	}
	if strings.TrimSpace(t.Subject) == "" {
		return invalid("template subject is required")
	}
	if t.HTMLBody == "" && t.TextBody == "" {
		return invalid("template needs an html or a text body")
	}
	return nil
}

// EmailMessage is a rendered email ready to be sent.
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}
