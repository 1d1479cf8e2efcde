package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campusconnect/quad/internal/api"
	"github.com/campusconnect/quad/internal/models"
)

// fakeBackend is an in-memory stand-in for the messaging endpoints the
// controller talks to.
type fakeBackend struct {
	mu            sync.Mutex
	messages      []models.Message
	conversations []models.ConversationPreview
	profiles      map[string]models.Participant

	failMessages bool
	failSend     bool

	messagesCalls      int
	conversationsCalls int
	profileCalls       int
	sendCalls          int
	nextID             int
}

func (b *fakeBackend) setMessages(messages []models.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = messages
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.messagesCalls++
		if b.failMessages {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(b.messages)
	})

	mux.HandleFunc("/api/messages/send", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.sendCalls++
		if b.failSend {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}

		var input struct {
			ConversationID int    `json:"conversation_id"`
			Sender         string `json:"sender"`
			Content        string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}

		b.nextID++
		message := models.Message{
			ID:             1000 + b.nextID,
			ConversationID: input.ConversationID,
			Sender:         input.Sender,
			Content:        input.Content,
			CreatedAt:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		b.messages = append(b.messages, message)
		json.NewEncoder(w).Encode(message)
	})

	mux.HandleFunc("/api/conversations", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.conversationsCalls++
		json.NewEncoder(w).Encode(b.conversations)
	})

	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.profileCalls++
		username := r.URL.Query().Get("username")
		profile, ok := b.profiles[username]
		if !ok {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]models.Participant{"user": profile})
	})

	return mux
}

func (b *fakeBackend) calls() (messages, conversations, profile, send int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.messagesCalls, b.conversationsCalls, b.profileCalls, b.sendCalls
}

func newTestController(t *testing.T, backend *fakeBackend, conversationID int, viewer string) *Controller {
	t.Helper()
	if backend.profiles == nil {
		backend.profiles = map[string]models.Participant{}
	}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	client := api.New(server.URL, 2*time.Second, zap.NewNop())
	return NewController(client, conversationID, viewer, zap.NewNop())
}

func message(id, conversationID int, sender, content string, at time.Time) models.Message {
	return models.Message{
		ID:             id,
		ConversationID: conversationID,
		Sender:         sender,
		Content:        content,
		CreatedAt:      at,
	}
}

func TestRefreshReplacesOnChangeOnly(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		messages: []models.Message{
			message(1, 42, "alice", "hi", at),
			message(2, 42, "bob", "hey", at.Add(time.Minute)),
		},
		profiles: map[string]models.Participant{
			"bob": {Username: "bob", DisplayName: "Bob", ProfilePicture: ""},
		},
	}
	controller := newTestController(t, backend, 42, "alice")

	if !controller.Refresh(context.Background()) {
		t.Fatal("first refresh should report a change")
	}
	if !controller.Ready() {
		t.Fatal("controller should be ready after first successful fetch")
	}
	if got := len(controller.Messages()); got != 2 {
		t.Fatalf("expected 2 messages, got %d", got)
	}

	// An identical poll result must not trigger a state replacement.
	if controller.Refresh(context.Background()) {
		t.Fatal("identical refresh should report no change")
	}

	backend.setMessages(append(backend.messages,
		message(3, 42, "bob", "you there?", at.Add(2*time.Minute))))
	if !controller.Refresh(context.Background()) {
		t.Fatal("refresh with new message should report a change")
	}
	if got := len(controller.Messages()); got != 3 {
		t.Fatalf("expected 3 messages after change, got %d", got)
	}
}

func TestRefreshErrorPreservesState(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		messages: []models.Message{message(1, 42, "bob", "hi", at)},
		profiles: map[string]models.Participant{"bob": {Username: "bob", DisplayName: "Bob"}},
	}
	controller := newTestController(t, backend, 42, "alice")

	if !controller.Refresh(context.Background()) {
		t.Fatal("first refresh should succeed")
	}

	backend.mu.Lock()
	backend.failMessages = true
	backend.mu.Unlock()

	if controller.Refresh(context.Background()) {
		t.Fatal("failed refresh should report no change")
	}
	if got := len(controller.Messages()); got != 1 {
		t.Fatalf("failed refresh must not clear state, got %d messages", got)
	}
}

func TestParticipantResolvedFromTwoSenders(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		messages: []models.Message{
			message(1, 42, "alice", "hi", at),
			message(2, 42, "bob", "hey", at.Add(time.Minute)),
		},
		profiles: map[string]models.Participant{
			"bob": {Username: "bob", DisplayName: "Bob"},
		},
	}
	controller := newTestController(t, backend, 42, "alice")

	controller.Refresh(context.Background())

	participant := controller.Participant()
	if participant == nil || participant.Username != "bob" {
		t.Fatalf("expected participant bob, got %+v", participant)
	}
	if _, conversations, _, _ := backend.calls(); conversations != 0 {
		t.Fatalf("direct resolution must not hit the conversation list, got %d calls", conversations)
	}
}

func TestParticipantResolvedFromSoleForeignSender(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		messages: []models.Message{message(1, 42, "bob", "hello?", at)},
		profiles: map[string]models.Participant{"bob": {Username: "bob", DisplayName: "Bob"}},
	}
	controller := newTestController(t, backend, 42, "alice")

	controller.Refresh(context.Background())

	participant := controller.Participant()
	if participant == nil || participant.Username != "bob" {
		t.Fatalf("expected participant bob, got %+v", participant)
	}
}

func TestParticipantFallbackToConversationList(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		// Only the viewer has sent, so the sender set is ambiguous.
		messages: []models.Message{message(1, 42, "alice", "anyone home?", at)},
		conversations: []models.ConversationPreview{
			{ID: 42, Participants: []models.UserBasic{{Username: "bob", DisplayName: "Bob"}}},
		},
		profiles: map[string]models.Participant{"bob": {Username: "bob", DisplayName: "Bob"}},
	}
	controller := newTestController(t, backend, 42, "alice")

	controller.Refresh(context.Background())

	participant := controller.Participant()
	if participant == nil || participant.Username != "bob" {
		t.Fatalf("expected fallback to resolve bob, got %+v", participant)
	}
	if _, conversations, _, _ := backend.calls(); conversations != 1 {
		t.Fatalf("expected exactly one conversation list call, got %d", conversations)
	}
}

func TestParticipantResolutionIsStable(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		messages: []models.Message{
			message(1, 42, "alice", "hi", at),
			message(2, 42, "bob", "hey", at.Add(time.Minute)),
		},
		profiles: map[string]models.Participant{
			"bob":   {Username: "bob", DisplayName: "Bob"},
			"carol": {Username: "carol", DisplayName: "Carol"},
		},
	}
	controller := newTestController(t, backend, 42, "alice")

	controller.Refresh(context.Background())

	// Different content, even a different sender set, must not change the
	// stored participant once it is resolved.
	backend.setMessages([]models.Message{
		message(5, 42, "carol", "moved in", at.Add(time.Hour)),
	})
	controller.Refresh(context.Background())

	participant := controller.Participant()
	if participant == nil || participant.Username != "bob" {
		t.Fatalf("participant must stay bob, got %+v", participant)
	}
	if _, _, profile, _ := backend.calls(); profile != 1 {
		t.Fatalf("profile should be fetched once, got %d calls", profile)
	}
}

func TestParticipantResolutionRetriedUntilFound(t *testing.T) {
	backend := &fakeBackend{
		messages:      nil,
		conversations: nil,
	}
	controller := newTestController(t, backend, 42, "alice")

	controller.Refresh(context.Background())
	if controller.Participant() != nil {
		t.Fatal("participant should be unresolved with no data")
	}

	controller.Refresh(context.Background())
	if _, conversations, _, _ := backend.calls(); conversations != 2 {
		t.Fatalf("unresolved participant should retry the fallback, got %d calls", conversations)
	}
}

func TestSendAppendsServerMessage(t *testing.T) {
	backend := &fakeBackend{
		profiles: map[string]models.Participant{"bob": {Username: "bob", DisplayName: "Bob"}},
	}
	controller := newTestController(t, backend, 42, "alice")
	controller.Refresh(context.Background())

	sent, err := controller.Send(context.Background(), "  hello  ")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if sent.Content != "hello" || sent.Sender != "alice" || sent.ConversationID != 42 {
		t.Fatalf("unexpected sent message: %+v", sent)
	}
	if sent.ID == 0 {
		t.Fatal("sent message should carry the server-assigned id")
	}

	messages := controller.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected exactly one optimistic message, got %d", len(messages))
	}
	if messages[len(messages)-1].ID != sent.ID {
		t.Fatal("optimistic message should be appended at the end")
	}

	// The next poll returns the authoritative list containing the sent
	// message; it replaces the local list without duplicating it.
	controller.Refresh(context.Background())
	if got := len(controller.Messages()); got != 1 {
		t.Fatalf("expected 1 message after authoritative poll, got %d", got)
	}
}

func TestSendFailureAppendsNothing(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		messages: []models.Message{message(1, 42, "bob", "hi", at)},
		profiles: map[string]models.Participant{"bob": {Username: "bob", DisplayName: "Bob"}},
		failSend: true,
	}
	controller := newTestController(t, backend, 42, "alice")
	controller.Refresh(context.Background())

	if _, err := controller.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected send error")
	}
	if got := len(controller.Messages()); got != 1 {
		t.Fatalf("failed send must not append, got %d messages", got)
	}
}

func TestSendRejectsEmptyText(t *testing.T) {
	backend := &fakeBackend{}
	controller := newTestController(t, backend, 42, "alice")

	if _, err := controller.Send(context.Background(), "   \n  "); err != ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, _, _, send := backend.calls(); send != 0 {
		t.Fatalf("empty send must not hit the backend, got %d calls", send)
	}
}

func TestCloseDiscardsLateResults(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	backend := &fakeBackend{
		messages: []models.Message{message(1, 42, "bob", "hi", at)},
		profiles: map[string]models.Participant{"bob": {Username: "bob", DisplayName: "Bob"}},
	}
	controller := newTestController(t, backend, 42, "alice")

	controller.Close()

	if controller.Refresh(context.Background()) {
		t.Fatal("refresh after close should report no change")
	}
	if got := len(controller.Messages()); got != 0 {
		t.Fatalf("closed controller must not apply results, got %d messages", got)
	}
}

func TestRefreshValidatesInputs(t *testing.T) {
	backend := &fakeBackend{}
	server := httptest.NewServer(backend.handler())
	defer server.Close()
	client := api.New(server.URL, time.Second, zap.NewNop())

	for _, tc := range []struct {
		name           string
		conversationID int
		viewer         string
	}{
		{"zero conversation", 0, "alice"},
		{"negative conversation", -1, "alice"},
		{"empty viewer", 42, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			controller := NewController(client, tc.conversationID, tc.viewer, zap.NewNop())
			if controller.Refresh(context.Background()) {
				t.Fatal("invalid controller should not refresh")
			}
		})
	}
	if messages, _, _, _ := backend.calls(); messages != 0 {
		t.Fatalf("invalid inputs must not hit the backend, got %d calls", messages)
	}
}

func TestConversationIDAccessor(t *testing.T) {
	controller := NewController(api.New("http://localhost:0", time.Second, nil), 7, "alice", nil)
	if controller.ConversationID() != 7 {
		t.Fatalf("expected conversation id 7, got %d", controller.ConversationID())
	}
}
