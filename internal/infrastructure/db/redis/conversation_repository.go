package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/assetintel/asset-intelligence/internal/core/domain"
)

// ConversationRepository stores copilot transcripts.
//
// Key layout:
//
//	copilot:session:<sid>        conversation id bound to a session
//	copilot:conv:<id>            conversation metadata (JSON)
//	copilot:conv:<id>:messages   list of JSON messages in append order
//	copilot:conv:<id>:seq        last issued message id
type ConversationRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConversationRepository expires transcripts ttl after their last write.
// A zero ttl keeps them forever.
func NewConversationRepository(client *redis.Client, ttl time.Duration) *ConversationRepository {
	return &ConversationRepository{client: client, ttl: ttl}
}

type conversationMeta struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

func sessionPointerKey(sid string) string { return "copilot:session:" + sid }
func conversationKey(id string) string    { return "copilot:conv:" + id }
func messagesKey(id string) string        { return "copilot:conv:" + id + ":messages" }
func sequenceKey(id string) string        { return "copilot:conv:" + id + ":seq" }

func (r *ConversationRepository) FindBySession(ctx context.Context, sessionID string) (*domain.Conversation, error) {
	id, err := r.client.Get(ctx, sessionPointerKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}

	rawMeta, err := r.client.Get(ctx, conversationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	var meta conversationMeta
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", id, err)
	}

	rawMsgs, err := r.client.LRange(ctx, messagesKey(id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	msgs := make([]domain.ChatMessage, 0, len(rawMsgs))
	for _, raw := range rawMsgs {
		var m domain.ChatMessage
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("decode message in %s: %w", id, err)
		}
		msgs = append(msgs, m)
	}

	return &domain.Conversation{
		ID:        meta.ID,
		SessionID: meta.SessionID,
		StartedAt: meta.StartedAt,
		Messages:  msgs,
	}, nil
}

func (r *ConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	meta, err := json.Marshal(conversationMeta{ID: conv.ID, SessionID: conv.SessionID, StartedAt: conv.StartedAt})
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	msgs := make([]interface{}, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		raw, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
		msgs = append(msgs, raw)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, conversationKey(conv.ID), meta, r.ttl)
		pipe.Set(ctx, sequenceKey(conv.ID), conv.LastMessageID(), r.ttl)
		if len(msgs) > 0 {
			pipe.RPush(ctx, messagesKey(conv.ID), msgs...)
			if r.ttl > 0 {
				pipe.Expire(ctx, messagesKey(conv.ID), r.ttl)
			}
		}
		pipe.Set(ctx, sessionPointerKey(conv.SessionID), conv.ID, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (r *ConversationRepository) NextMessageID(ctx context.Context, conversationID string) (int64, error) {
	n, err := r.client.Exists(ctx, conversationKey(conversationID)).Result()
	if err != nil {
		return 0, fmt.Errorf("next message id: %w", err)
	}
	if n == 0 {
		return 0, domain.ErrConversationNotFound
	}
	id, err := r.client.Incr(ctx, sequenceKey(conversationID)).Result()
	if err != nil {
		return 0, fmt.Errorf("next message id: %w", err)
	}
	return id, nil
}

func (r *ConversationRepository) Append(ctx context.Context, conversationID string, msg domain.ChatMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, messagesKey(conversationID), raw)
		if r.ttl > 0 {
			for _, k := range []string{conversationKey(conversationID), messagesKey(conversationID), sequenceKey(conversationID)} {
				pipe.Expire(ctx, k, r.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}
