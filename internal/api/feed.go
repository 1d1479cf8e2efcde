package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/campusconnect/quad/internal/models"
)

// Feed returns the home feed for the user.
func (c *Client) Feed(ctx context.Context, username string) ([]models.FeedPost, error) {
	query := url.Values{}
	query.Set("username", username)

	var posts []models.FeedPost
	err := c.getJSON(ctx, "/api/feed", query, &posts)
	return posts, err
}

type createPostInput struct {
	Username string `json:"username"`
	Content  string `json:"content"`
}

// CreatePost publishes a post and returns it with its server-assigned id.
func (c *Client) CreatePost(ctx context.Context, username, content string) (models.FeedPost, error) {
	var post models.FeedPost
	if username == "" || content == "" {
		return post, fmt.Errorf("username and content are required")
	}

	err := c.postJSON(ctx, "/api/posts/create", createPostInput{Username: username, Content: content}, &post)
	return post, err
}

// ViewPost returns a post with its comments.
func (c *Client) ViewPost(ctx context.Context, postID int) (models.PostDetail, error) {
	var detail models.PostDetail
	if postID <= 0 {
		return detail, fmt.Errorf("post id must be positive")
	}

	query := url.Values{}
	query.Set("id", strconv.Itoa(postID))
	err := c.getJSON(ctx, "/api/posts/view", query, &detail)
	return detail, err
}

type toggleLikeInput struct {
	PostID   int    `json:"post_id"`
	Username string `json:"username"`
}

// LikeStatus is the like state of a post for one user.
type LikeStatus struct {
	IsLiked bool `json:"is_liked"`
	Count   int  `json:"count"`
}

// ToggleLike flips the user's like on a post and returns the new state.
func (c *Client) ToggleLike(ctx context.Context, postID int, username string) (LikeStatus, error) {
	var status LikeStatus
	if postID <= 0 || username == "" {
		return status, fmt.Errorf("post id and username are required")
	}

	err := c.postJSON(ctx, "/api/posts/like", toggleLikeInput{PostID: postID, Username: username}, &status)
	return status, err
}

// CheckLikeStatus reports whether the user has liked a post.
func (c *Client) CheckLikeStatus(ctx context.Context, postID int, username string) (LikeStatus, error) {
	query := url.Values{}
	query.Set("post_id", strconv.Itoa(postID))
	query.Set("username", username)

	var status LikeStatus
	err := c.getJSON(ctx, "/api/posts/like/status", query, &status)
	return status, err
}

type createCommentInput struct {
	PostID   int    `json:"post_id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

// CreateComment adds a comment to a post and returns it.
func (c *Client) CreateComment(ctx context.Context, postID int, username, content string) (models.Comment, error) {
	var comment models.Comment
	if postID <= 0 || username == "" || content == "" {
		return comment, fmt.Errorf("post id, username and content are required")
	}

	err := c.postJSON(ctx, "/api/comments/create", createCommentInput{
		PostID:   postID,
		Username: username,
		Content:  content,
	}, &comment)
	return comment, err
}
