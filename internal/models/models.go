// Package models defines the domain types for the portfolio service.
package models

import "time"

// Project is one portfolio entry. Projects are managed out-of-band by
// editing the persisted document directly; nothing in this system mutates
// them after load.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Year        string   `json:"year"`
	Link        string   `json:"link"`
	Repo        string   `json:"repo"`
}

// Message is one recorded contact-form submission. Messages are append-only:
// created by the service on a successful submission, never mutated or
// deleted.
type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Document is the single durable JSON structure holding all server-side
// state: the project list plus every recorded message.
type Document struct {
	Projects []Project `json:"projects"`
	Messages []Message `json:"messages"`
}
