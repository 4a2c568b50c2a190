package domain

import "time"

// ContactStatus enumerates subscription states of a contact.
type ContactStatus string

const (
	ContactActive       ContactStatus = "active"
	ContactUnsubscribed ContactStatus = "unsubscribed"
	ContactBounced      ContactStatus = "bounced"
	ContactComplained   ContactStatus = "complained"
)

// Contact represents a single recipient in a list.
type Contact struct {
	ID        string        `json:"id" db:"id"`
	UserID    string        `json:"user_id" db:"user_id"`
	ListID    *string       `json:"list_id" db:"list_id"`
	Email     string        `json:"email" db:"email"`
	FirstName string        `json:"first_name" db:"first_name"`
	LastName  string        `json:"last_name" db:"last_name"`
	Status    ContactStatus `json:"status" db:"status"`

	TotalOpens  int        `json:"total_opens" db:"total_opens"`
	TotalClicks int        `json:"total_clicks" db:"total_clicks"`
	LastOpenAt  *time.Time `json:"last_open_at" db:"last_open_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Mailable returns true if the contact may receive campaign email.
func (c *Contact) Mailable() bool {
	return c.Status == ContactActive
}
