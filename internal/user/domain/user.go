package domain

import "time"

// User is the stored identity record. PasswordHash and RefreshToken must never
// be emitted in an API response; handlers map users through dto.NewUserOutput
// which strips both.
type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
	RefreshToken string
	WatchHistory []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Subscription is an edge from a subscribing user to a channel (also a user).
type Subscription struct {
	ID         string
	Subscriber string
	Channel    string
	CreatedAt  time.Time
}

// ChannelProfile is the public view of a user's channel.
type ChannelProfile struct {
	User              *User
	SubscriberCount   int64
	SubscribedToCount int64
	IsSubscribed      bool
}
