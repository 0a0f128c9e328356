package store

import (
	"sync"
	"time"
)

// Message is a single chat turn entry.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model,omitempty"`
}

// Conversation is an ordered, append-only exchange of user and assistant
// messages. Message order equals insertion order.
type Conversation struct {
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ConversationRepository is the storage contract for conversations.
// Conversations are created lazily by the first Append for an id and removed
// only by Delete or process restart.
type ConversationRepository interface {
	Get(id string) (*Conversation, bool)
	Append(id string, msg Message) *Conversation
	Delete(id string) bool
}

// MemoryConversationRepository is a map-backed ConversationRepository.
// Each Append is atomic, but a full chat turn spans two appends with a model
// call in between; interleavings across concurrent requests to the same id
// are accepted rather than serialized.
type MemoryConversationRepository struct {
	mu            sync.Mutex
	conversations map[string]*Conversation
}

// NewMemoryConversationRepository creates an empty conversation repository.
func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		conversations: make(map[string]*Conversation),
	}
}

// Get returns a snapshot of the conversation so callers never observe a
// message slice mutated mid-read.
func (r *MemoryConversationRepository) Get(id string) (*Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[id]
	if !ok {
		return nil, false
	}
	return conv.snapshot(), true
}

// Append adds one message to the conversation for id, creating it when
// absent, and returns a snapshot of the updated conversation.
func (r *MemoryConversationRepository) Append(id string, msg Message) *Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	conv, ok := r.conversations[id]
	if !ok {
		conv = &Conversation{CreatedAt: now}
		r.conversations[id] = conv
	}

	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = now

	return conv.snapshot()
}

func (r *MemoryConversationRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.conversations[id]
	delete(r.conversations, id)
	return ok
}

func (c *Conversation) snapshot() *Conversation {
	messages := make([]Message, len(c.Messages))
	copy(messages, c.Messages)
	return &Conversation{
		Messages:  messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
