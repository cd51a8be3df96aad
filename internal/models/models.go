package models

import "time"

// User represents a member of the dating platform
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Gender       string    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	KnownAs      string    `json:"known_as"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Created      time.Time `json:"created"`
	LastActive   time.Time `json:"last_active"`
	PushToken    *string   `json:"push_token,omitempty"`
	Photos       []*Photo  `json:"photos,omitempty"`
}

// Age returns the user's age in full years as of today.
func (u *User) Age() int {
	return CalcAge(u.DateOfBirth, time.Now())
}

// CalcAge computes full years between dob and now.
func CalcAge(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}

// Photo represents a photo belonging to a user
type Photo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	DateAdded   time.Time `json:"date_added"`
	IsMain      bool      `json:"is_main"`
}

// Like is a directed relation: liker likes likee. At most one row per
// ordered pair; A liking B implies nothing about B liking A.
type Like struct {
	LikerID string    `json:"liker_id"`
	LikeeID string    `json:"likee_id"`
	Created time.Time `json:"created"`
}

// LikeDirection selects which side of the like relation to resolve.
type LikeDirection string

const (
	Likers LikeDirection = "Likers" // users who liked the subject
	Likees LikeDirection = "Likees" // users the subject has liked
)

// Message represents a direct message between two users. A message is
// immutable except for the read transition and the two delete flags; once
// both flags are set the row is gone from the store.
type Message struct {
	ID               string     `json:"id"`
	SenderID         string     `json:"sender_id"`
	RecipientID      string     `json:"recipient_id"`
	Content          string     `json:"content"`
	MessageSent      time.Time  `json:"message_sent"`
	IsRead           bool       `json:"is_read"`
	DateRead         *time.Time `json:"date_read,omitempty"`
	SenderDeleted    bool       `json:"-"`
	RecipientDeleted bool       `json:"-"`
}

// MessageContainer is a named mailbox view of a user's messages.
type MessageContainer string

const (
	ContainerInbox  MessageContainer = "Inbox"
	ContainerOutbox MessageContainer = "Outbox"
	ContainerUnread MessageContainer = "Unread"
)

// ParseContainer maps the request token to a container, defaulting to
// Unread for absent or unrecognized values.
func ParseContainer(s string) MessageContainer {
	switch MessageContainer(s) {
	case ContainerInbox:
		return ContainerInbox
	case ContainerOutbox:
		return ContainerOutbox
	default:
		return ContainerUnread
	}
}
