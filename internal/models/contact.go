package models

import "time"

type Contact struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Company      string    `json:"company"`
	Tags         []string  `json:"tags"`
	IsSubscribed bool      `json:"is_subscribed"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContactInput is the create payload. Name and company are optional.
type ContactInput struct {
	Email   string   `json:"email"`
	Name    string   `json:"name,omitempty"`
	Company string   `json:"company,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// ContactList is the paginated wire shape returned by GET /contacts/.
type ContactList struct {
	Count    int       `json:"count"`
	Results  []Contact `json:"results"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
}

// ContactPage is the client-side view of one page of contacts.
type ContactPage struct {
	Count       int
	Items       []Contact
	HasNext     bool
	HasPrevious bool
}

type ImportResult struct {
	Message  string `json:"message,omitempty"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
}
