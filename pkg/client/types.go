package client

import "time"

// User is the public view of an account.
type User struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Branch    *string   `json:"branch"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    string  `json:"email"`
	Branch   *string `json:"branch,omitempty"`
}

// ResetLink is the forgot-password outcome. Link delivery is out of band, so
// the server hands the link straight back.
type ResetLink struct {
	Message   string `json:"message"`
	ResetLink string `json:"resetLink"`
}

// DoubtInput carries a new doubt.
type DoubtInput struct {
	Subject     string  `json:"subject"`
	Description string  `json:"description"`
	Branch      *string `json:"branch,omitempty"`
	Location    *string `json:"location,omitempty"`
}

// Doubt is a question as listed in the feed or fetched by id. Name is empty
// for freshly created doubts.
type Doubt struct {
	ID          uint      `json:"id"`
	UserID      string    `json:"user_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Branch      *string   `json:"branch"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name,omitempty"`
}

// OwnDoubt is one of the caller's doubts with its response count.
type OwnDoubt struct {
	Doubt
	ResponseCount int64 `json:"response_count"`
}

// ResponseInput carries an answer to a doubt.
type ResponseInput struct {
	Message     string  `json:"message"`
	ContactInfo *string `json:"contact_info,omitempty"`
}

// Response is an answer. ResponderName is only set on listings.
type Response struct {
	ID            uint      `json:"id"`
	DoubtID       uint      `json:"doubt_id"`
	ResponderID   string    `json:"responder_id"`
	Message       string    `json:"message"`
	ContactInfo   *string   `json:"contact_info"`
	CreatedAt     time.Time `json:"created_at"`
	ResponderName string    `json:"responder_name,omitempty"`
}

// Notification is an inbox entry.
type Notification struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	DoubtID   uint      `json:"doubt_id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// StreamEvent is one frame of the live notification stream.
type StreamEvent struct {
	Type         string        `json:"type"`
	Unread       *int64        `json:"unread,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}

type updated struct {
	Updated int64 `json:"updated"`
}

type message struct {
	Message string `json:"message"`
}
