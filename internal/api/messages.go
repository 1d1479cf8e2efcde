package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/campusconnect/quad/internal/models"
)

// Conversations lists all conversations for the user, most recent first.
func (c *Client) Conversations(ctx context.Context, username string) ([]models.ConversationPreview, error) {
	query := url.Values{}
	query.Set("username", username)

	var previews []models.ConversationPreview
	err := c.getJSON(ctx, "/api/conversations", query, &previews)
	return previews, err
}

// Messages returns the authoritative message list for a conversation,
// oldest first, scoped to the requesting viewer.
func (c *Client) Messages(ctx context.Context, conversationID int, username string) ([]models.Message, error) {
	if conversationID <= 0 {
		return nil, fmt.Errorf("conversation id must be positive")
	}
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	query := url.Values{}
	query.Set("conversation_id", strconv.Itoa(conversationID))
	query.Set("username", username)

	var messages []models.Message
	err := c.getJSON(ctx, "/api/messages", query, &messages)
	return messages, err
}

type sendMessageInput struct {
	ConversationID int    `json:"conversation_id"`
	Sender         string `json:"sender"`
	Content        string `json:"content"`
}

// SendMessage posts a message and returns the stored message with its
// server-assigned id and timestamp.
func (c *Client) SendMessage(ctx context.Context, conversationID int, sender, content string) (models.Message, error) {
	var message models.Message
	if conversationID <= 0 || sender == "" || content == "" {
		return message, fmt.Errorf("conversation id, sender and content are required")
	}

	err := c.postJSON(ctx, "/api/messages/send", sendMessageInput{
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
	}, &message)
	return message, err
}

type createConversationInput struct {
	Creator   string `json:"creator"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

// CreateConversationResult identifies the conversation a first message
// landed in; the backend reuses an existing thread between the two users.
type CreateConversationResult struct {
	ConversationID int `json:"conversation_id"`
	MessageID      int `json:"message_id"`
}

// CreateConversation starts (or reuses) a conversation with the recipient
// and sends the initial message.
func (c *Client) CreateConversation(ctx context.Context, creator, recipient, message string) (CreateConversationResult, error) {
	var result CreateConversationResult
	if creator == "" || recipient == "" || message == "" {
		return result, fmt.Errorf("creator, recipient and message are required")
	}

	err := c.postJSON(ctx, "/api/conversations/create", createConversationInput{
		Creator:   creator,
		Recipient: recipient,
		Message:   message,
	}, &result)
	return result, err
}

// UnreadMessagesCount returns the total number of unread messages across
// all of the user's conversations.
func (c *Client) UnreadMessagesCount(ctx context.Context, username string) (int, error) {
	query := url.Values{}
	query.Set("username", username)

	var result struct {
		Count int `json:"count"`
	}
	err := c.getJSON(ctx, "/api/messages/unread-count", query, &result)
	return result.Count, err
}
