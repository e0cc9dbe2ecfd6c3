package models

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const maxFeedbackMessageLen = 4000

type Feedback struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (f *Feedback) Validate() error {
	if f.Email != "" {
		if _, err := mail.ParseAddress(f.Email); err != nil {
			return errors.New("invalid email address")
		}
	}
	if strings.TrimSpace(f.Message) == "" {
		return errors.New("message is required")
	}
	if utf8.RuneCountInString(f.Message) > maxFeedbackMessageLen {
		return errors.New("message too long")
	}
	return nil
}
