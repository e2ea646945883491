// Package domain defines the persistence models for users, doubts, responses,
// notifications, and password resets. These types are mapped with GORM and
// form the core data layer of the doubt-solving application.
package domain

import "time"

// NotificationTypeResponse marks a notification raised by a new response.
const NotificationTypeResponse = "response"

// User is a registered account. The primary key is the username chosen at
// registration; Name defaults to the same value.
//
// Fields:
//   - UserID: username, primary key (varchar(50)).
//   - Name: display name.
//   - Email: unique, stored case-folded.
//   - Branch: optional academic branch.
//   - Password: bcrypt hash; never serialized.
//
// The association slices exist only to declare the owning foreign keys; they
// are never loaded.
type User struct {
	UserID    string    `json:"user_id"    gorm:"column:user_id;type:varchar(50);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(100);not null"`
	Email     string    `json:"email"      gorm:"type:varchar(100);not null;uniqueIndex:ux_users_email"`
	Branch    *string   `json:"branch"     gorm:"type:varchar(50)"`
	Password  string    `json:"-"          gorm:"type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at"`

	Doubts         []Doubt         `json:"-" gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Responses      []Response      `json:"-" gorm:"foreignKey:ResponderID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Notifications  []Notification  `json:"-" gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	PasswordResets []PasswordReset `json:"-" gorm:"foreignKey:UserID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Doubt is an academic question posted by a user. Doubts are immutable once
// created and are cascade-deleted with their owner.
type Doubt struct {
	ID          uint      `json:"id"          gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id"     gorm:"type:varchar(50);not null;index:idx_doubts_user"`
	Subject     string    `json:"subject"     gorm:"type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Branch      *string   `json:"branch"      gorm:"type:varchar(50)"`
	Location    *string   `json:"location"    gorm:"type:varchar(100)"`
	CreatedAt   time.Time `json:"created_at"  gorm:"index:idx_doubts_created"`

	Responses     []Response     `json:"-" gorm:"foreignKey:DoubtID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Notifications []Notification `json:"-" gorm:"foreignKey:DoubtID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Doubt.
func (Doubt) TableName() string { return "doubts" }

// Response is an answer posted against a doubt. It is removed when either the
// doubt or the responder is deleted.
type Response struct {
	ID          uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	DoubtID     uint      `json:"doubt_id"     gorm:"not null;index:idx_responses_doubt"`
	ResponderID string    `json:"responder_id" gorm:"type:varchar(50);not null;index"`
	Message     string    `json:"message"      gorm:"type:text;not null"`
	ContactInfo *string   `json:"contact_info" gorm:"type:varchar(100)"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Response.
func (Response) TableName() string { return "responses" }

// Notification is a per-user inbox entry created when someone responds to one
// of the user's doubts.
type Notification struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(50);not null;index:idx_notifications_user"`
	DoubtID   uint      `json:"doubt_id"   gorm:"not null;index"`
	Message   string    `json:"message"    gorm:"type:text;not null"`
	Type      string    `json:"type"       gorm:"type:varchar(32);not null"`
	IsRead    bool      `json:"is_read"    gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// PasswordReset is a single-use, time-limited capability to set a new
// password. It is valid only while ExpiresAt is in the future.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    string    `gorm:"type:varchar(50);not null;index"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_password_resets_token"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName returns the database table name for PasswordReset.
func (PasswordReset) TableName() string { return "password_resets" }

// DoubtView is a doubt joined with its author's display name.
type DoubtView struct {
	ID          uint      `json:"id"`
	UserID      string    `json:"user_id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Branch      *string   `json:"branch"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
}

// OwnDoubt is a doubt listed for its owner together with the number of
// responses it has received.
type OwnDoubt struct {
	DoubtView
	ResponseCount int64 `json:"response_count"`
}

// ResponseView is a response joined with the responder's display name.
type ResponseView struct {
	ID            uint      `json:"id"`
	DoubtID       uint      `json:"doubt_id"`
	ResponderID   string    `json:"responder_id"`
	Message       string    `json:"message"`
	ContactInfo   *string   `json:"contact_info"`
	CreatedAt     time.Time `json:"created_at"`
	ResponderName string    `json:"responder_name"`
}
