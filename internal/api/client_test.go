package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusconnect/quad/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 2*time.Second, nil)
}

func TestRequestCarriesRequestID(t *testing.T) {
	var requestID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]models.ConversationPreview{})
	})

	if _, err := client.Conversations(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestID == "" {
		t.Fatal("request should carry an X-Request-ID header")
	}
}

func TestMessagesSendsQueryParams(t *testing.T) {
	var query map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"conversation_id": r.URL.Query().Get("conversation_id"),
			"username":        r.URL.Query().Get("username"),
		}
		json.NewEncoder(w).Encode([]models.Message{
			{ID: 1, ConversationID: 42, Sender: "bob", Content: "hi"},
		})
	})

	messages, err := client.Messages(context.Background(), 42, "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if query["conversation_id"] != "42" || query["username"] != "alice" {
		t.Fatalf("unexpected query params: %v", query)
	}
	if len(messages) != 1 || messages[0].Sender != "bob" {
		t.Fatalf("unexpected messages: %+v", messages)
	}
}

func TestMessagesValidatesInputs(t *testing.T) {
	client := New("http://localhost:0", time.Second, nil)

	if _, err := client.Messages(context.Background(), 0, "alice"); err == nil {
		t.Fatal("expected error for non-positive conversation id")
	}
	if _, err := client.Messages(context.Background(), 42, ""); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestNon2xxBecomesError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conversation not found", http.StatusNotFound)
	})

	_, err := client.Messages(context.Background(), 42, "alice")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "conversation not found") {
		t.Fatalf("error should carry status and body excerpt, got: %v", err)
	}
}

func TestSendMessageDecodesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			ConversationID int    `json:"conversation_id"`
			Sender         string `json:"sender"`
			Content        string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(models.Message{
			ID:             7,
			ConversationID: input.ConversationID,
			Sender:         input.Sender,
			Content:        input.Content,
			CreatedAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		})
	})

	message, err := client.SendMessage(context.Background(), 42, "alice", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message.ID != 7 || message.ConversationID != 42 || message.Content != "hello" {
		t.Fatalf("unexpected message: %+v", message)
	}
}

func TestParticipantProfileAcceptsWrappedAndBareShapes(t *testing.T) {
	wrapped := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"user": models.Participant{Username: "bob", DisplayName: "Bob"},
		})
	})
	profile, err := wrapped.ParticipantProfile(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Username != "bob" || profile.DisplayName != "Bob" {
		t.Fatalf("unexpected wrapped profile: %+v", profile)
	}

	bare := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Participant{Username: "bob"})
	})
	profile, err = bare.ParticipantProfile(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.Username != "bob" {
		t.Fatalf("unexpected bare profile: %+v", profile)
	}
	if profile.DisplayName != "bob" {
		t.Fatalf("display name should default to the username, got %q", profile.DisplayName)
	}
}

func TestUnreadCountsDecode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]int{"count": 3})
	})

	count, err := client.UnreadMessagesCount(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewEncoder(w).Encode([]models.ConversationPreview{})
	}))
	defer server.Close()

	client := New(server.URL+"/", 2*time.Second, nil)
	if _, err := client.Conversations(context.Background(), "alice"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/conversations" {
		t.Fatalf("unexpected path: %q", path)
	}
}
