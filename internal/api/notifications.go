package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/campusconnect/quad/internal/models"
)

// Notifications lists the user's notifications, newest first.
func (c *Client) Notifications(ctx context.Context, username string) ([]models.Notification, error) {
	query := url.Values{}
	query.Set("username", username)

	var notifications []models.Notification
	err := c.getJSON(ctx, "/api/notifications", query, &notifications)
	return notifications, err
}

// MarkNotificationRead marks a single notification as read.
// The backend takes the id as a query parameter on a POST.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("notification id must be positive")
	}
	return c.postJSON(ctx, "/api/notifications/read?id="+strconv.FormatInt(id, 10), struct{}{}, nil)
}

// MarkAllNotificationsRead marks every notification for the user as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	return c.postJSON(ctx, "/api/notifications/read-all?username="+url.QueryEscape(username), struct{}{}, nil)
}

// UnreadNotificationsCount returns the number of unread notifications.
func (c *Client) UnreadNotificationsCount(ctx context.Context, username string) (int, error) {
	query := url.Values{}
	query.Set("username", username)

	var result struct {
		Count int `json:"count"`
	}
	err := c.getJSON(ctx, "/api/notifications/unread-count", query, &result)
	return result.Count, err
}
