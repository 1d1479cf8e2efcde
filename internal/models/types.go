package models

import "time"

// Message is one message in a conversation, exactly as the backend returns it.
type Message struct {
	ID             int       `json:"id"`
	ConversationID int       `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	Read           bool      `json:"read"`
}

// Participant is the other user in a conversation, used for the chat header.
type Participant struct {
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	ProfilePicture string `json:"profile_picture"`
}

// UserBasic is the backend's compact user shape (participants, followers).
type UserBasic struct {
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	ProfilePicture string `json:"profile_picture"`
}

// ConversationPreview is one row of the conversations list.
type ConversationPreview struct {
	ID           int         `json:"id"`
	Participants []UserBasic `json:"participants"`
	LastMessage  Message     `json:"last_message"`
	UnreadCount  int         `json:"unread_count"`
}

// FeedPost is one post in the home feed or on a profile page.
type FeedPost struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	ProfilePicture string    `json:"profile_picture"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	LikesCount     int       `json:"likes_count"`
	CommentsCount  int       `json:"comments_count"`
}

// Comment is one comment under a post.
type Comment struct {
	ID             int       `json:"id"`
	PostID         int       `json:"post_id"`
	Username       string    `json:"username"`
	DisplayName    string    `json:"display_name"`
	ProfilePicture string    `json:"profile_picture"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// PostDetail is the posts/view response: the post plus its comments.
type PostDetail struct {
	Post     FeedPost  `json:"post"`
	Comments []Comment `json:"comments"`
}

// Notification is one entry of the notifications screen.
type Notification struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	SenderName           string    `json:"sender_name"`
	SenderDisplayName    string    `json:"sender_display_name"`
	SenderProfilePicture string    `json:"sender_profile_picture"`
	Type                 string    `json:"type"`
	PostID               *int64    `json:"post_id,omitempty"`
	Message              string    `json:"message"`
	Read                 bool      `json:"read"`
	CreatedAt            time.Time `json:"created_at"`
}

// UserProfile is the full profile of a user.
type UserProfile struct {
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	DisplayName    string    `json:"display_name"`
	ProfilePicture string    `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfilePage is the profile response: the user plus their posts.
type ProfilePage struct {
	User  UserProfile `json:"user"`
	Posts []FeedPost  `json:"posts"`
}

// SearchResult is one row of a user search.
type SearchResult struct {
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	ProfilePicture string `json:"profile_picture"`
	Email          string `json:"email"`
}

// Account is the authenticated user as returned by login/register.
type Account struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	ProfilePicture string `json:"profile_picture"`
}
