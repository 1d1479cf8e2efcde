package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/campusconnect/quad/internal/models"
)

// Profile returns a user's profile and their posts.
func (c *Client) Profile(ctx context.Context, username string) (models.ProfilePage, error) {
	var page models.ProfilePage
	if username == "" {
		return page, fmt.Errorf("username is required")
	}

	query := url.Values{}
	query.Set("username", username)
	err := c.getJSON(ctx, "/api/profile", query, &page)
	return page, err
}

type updateProfileInput struct {
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	ProfilePicture string `json:"profile_picture"`
}

// UpdateProfile sets the user's display name and profile picture. The
// picture is an opaque string, normally a base64 data URI.
func (c *Client) UpdateProfile(ctx context.Context, username, displayName, profilePicture string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	return c.postJSON(ctx, "/api/profile/update", updateProfileInput{
		Username:       username,
		DisplayName:    displayName,
		ProfilePicture: profilePicture,
	}, nil)
}

// ParticipantProfile fetches the compact profile used for chat headers.
// The backend wraps the user in a {user: ...} envelope but older builds
// returned the object bare, so both shapes are accepted.
func (c *Client) ParticipantProfile(ctx context.Context, username string) (models.Participant, error) {
	if username == "" {
		return models.Participant{}, fmt.Errorf("username is required")
	}

	var wrapped struct {
		User *models.Participant `json:"user"`
		models.Participant
	}

	query := url.Values{}
	query.Set("username", username)
	if err := c.getJSON(ctx, "/api/profile", query, &wrapped); err != nil {
		return models.Participant{}, err
	}

	p := wrapped.Participant
	if wrapped.User != nil {
		p = *wrapped.User
	}
	if p.DisplayName == "" {
		p.DisplayName = p.Username
	}
	return p, nil
}

// FollowStatus reports whether follower follows following.
func (c *Client) FollowStatus(ctx context.Context, follower, following string) (bool, error) {
	query := url.Values{}
	query.Set("follower", follower)
	query.Set("following", following)

	var result struct {
		IsFollowing bool `json:"isFollowing"`
	}
	err := c.getJSON(ctx, "/api/follow/status", query, &result)
	return result.IsFollowing, err
}

type toggleFollowInput struct {
	Follower  string `json:"follower"`
	Following string `json:"following"`
}

// ToggleFollow flips the follow edge and returns the new state.
func (c *Client) ToggleFollow(ctx context.Context, follower, following string) (bool, error) {
	if follower == "" || following == "" {
		return false, fmt.Errorf("follower and following are required")
	}

	var result struct {
		IsFollowing bool `json:"isFollowing"`
	}
	err := c.postJSON(ctx, "/api/follow/toggle", toggleFollowInput{Follower: follower, Following: following}, &result)
	return result.IsFollowing, err
}

// Followers lists the users who follow username. Only followers can be
// messaged, so this backs the new-message screen.
func (c *Client) Followers(ctx context.Context, username string) ([]models.UserBasic, error) {
	query := url.Values{}
	query.Set("username", username)

	var followers []models.UserBasic
	err := c.getJSON(ctx, "/api/followers", query, &followers)
	return followers, err
}

// SearchUsers searches users by name or handle.
func (c *Client) SearchUsers(ctx context.Context, q string) ([]models.SearchResult, error) {
	query := url.Values{}
	query.Set("q", q)

	var results []models.SearchResult
	err := c.getJSON(ctx, "/api/search/users", query, &results)
	return results, err
}
