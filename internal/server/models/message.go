package models

import "time"

type MessageState int

const (
	MessageStateNew  MessageState = 0
	MessageStateRead MessageState = 1
)

// Message is a short text sent from one user to another.
type Message struct {
	ID        string       `json:"id"`
	UserTo    string       `json:"user_to"`
	UserFrom  string       `json:"user_from"`
	Body      string       `json:"message"`
	State     MessageState `json:"state"`
	CreatedAt time.Time    `json:"created_at"`
}
