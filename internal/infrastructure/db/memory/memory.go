// Package memory holds process-local implementations of the storage ports.
// They back the default single-instance deployment and lose all state on
// restart.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// IdentityRegistry is an append-only slice of credentials.
type IdentityRegistry struct {
	mu    sync.RWMutex
	creds []domain.Credential
}

func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{}
}

func (r *IdentityRegistry) FindByEmail(_ context.Context, emailKey string) (*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.creds {
		if domain.EmailKey(r.creds[i].Email) == emailKey {
			c := r.creds[i]
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *IdentityRegistry) Create(_ context.Context, cred *domain.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.EmailKey(cred.Email)
	for i := range r.creds {
		if domain.EmailKey(r.creds[i].Email) == key {
			return domain.ErrEmailTaken
		}
	}
	r.creds = append(r.creds, *cred)
	return nil
}

func (r *IdentityRegistry) List(_ context.Context) ([]*domain.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Credential, len(r.creds))
	for i := range r.creds {
		c := r.creds[i]
		out[i] = &c
	}
	return out, nil
}

type sessionRecord struct {
	identity domain.Identity
	expires  time.Time
}

// SessionRepository keeps session records in a map. Expired records are
// dropped lazily on read.
type SessionRepository struct {
	mu      sync.Mutex
	ttl     time.Duration
	records map[string]sessionRecord
	now     func() time.Time
}

// NewSessionRepository expires records ttl after they are saved. A zero ttl
// keeps them until deleted.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		ttl:     ttl,
		records: make(map[string]sessionRecord),
		now:     time.Now,
	}
}

func (r *SessionRepository) Save(_ context.Context, sessionID string, identity domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := sessionRecord{identity: identity}
	if r.ttl > 0 {
		rec.expires = r.now().Add(r.ttl)
	}
	r.records[sessionID] = rec
	return nil
}

func (r *SessionRepository) Load(_ context.Context, sessionID string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if !rec.expires.IsZero() && !r.now().Before(rec.expires) {
		delete(r.records, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	identity := rec.identity
	return &identity, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, sessionID)
	return nil
}

// ConversationRepository keeps transcripts in a map keyed by conversation id.
type ConversationRepository struct {
	mu        sync.Mutex
	bySession map[string]string
	convs     map[string]*domain.Conversation
	seq       map[string]int64
}

func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		bySession: make(map[string]string),
		convs:     make(map[string]*domain.Conversation),
		seq:       make(map[string]int64),
	}
}

func (r *ConversationRepository) FindBySession(_ context.Context, sessionID string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.bySession[sessionID]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	return cloneConversation(r.convs[id]), nil
}

func (r *ConversationRepository) Create(_ context.Context, conv *domain.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.convs[conv.ID] = cloneConversation(conv)
	r.bySession[conv.SessionID] = conv.ID
	r.seq[conv.ID] = conv.LastMessageID()
	return nil
}

func (r *ConversationRepository) NextMessageID(_ context.Context, conversationID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.convs[conversationID]; !ok {
		return 0, domain.ErrConversationNotFound
	}
	r.seq[conversationID]++
	return r.seq[conversationID], nil
}

func (r *ConversationRepository) Append(_ context.Context, conversationID string, msg domain.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv, ok := r.convs[conversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	return nil
}

func cloneConversation(c *domain.Conversation) *domain.Conversation {
	out := *c
	out.Messages = make([]domain.ChatMessage, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

// IdentifyDedup is a process-local set of announced visitor keys.
type IdentifyDedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewIdentifyDedup() *IdentifyDedup {
	return &IdentifyDedup{seen: make(map[string]struct{})}
}

func (d *IdentifyDedup) FirstSeen(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[key]; ok {
		return false, nil
	}
	d.seen[key] = struct{}{}
	return true, nil
}
