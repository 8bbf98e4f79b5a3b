package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	// MaxTranscriptLength bounds how many messages a conversation keeps.
	MaxTranscriptLength = 200
	transcriptTTL       = 30 * 24 * time.Hour
)

// TranscriptRepo stores chat transcripts keyed by TranscriptKey.
type TranscriptRepo interface {
	Append(ctx context.Context, key string, msgs ...model.ChatMessage) error
	List(ctx context.Context, key string) ([]model.ChatMessage, error)
	Clear(ctx context.Context, key string) error
}

// TranscriptKey identifies the conversation of a user with one profile.
func TranscriptKey(userID uuid.UUID, slug string) string {
	return "chat:" + userID.String() + ":" + slug
}

type redisTranscriptRepo struct {
	client *redis.Client
}

// NewRedisTranscriptRepo stores each transcript as a capped Redis list of JSON messages.
func NewRedisTranscriptRepo(client *redis.Client) TranscriptRepo {
	return &redisTranscriptRepo{client: client}
}

func (r *redisTranscriptRepo) Append(ctx context.Context, key string, msgs ...model.ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode chat message: %w", err)
		}
		values = append(values, b)
	}

	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -MaxTranscriptLength, -1)
	pipe.Expire(ctx, key, transcriptTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}

func (r *redisTranscriptRepo) List(ctx context.Context, key string) ([]model.ChatMessage, error) {
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	out := make([]model.ChatMessage, 0, len(raw))
	for _, s := range raw {
		var m model.ChatMessage
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *redisTranscriptRepo) Clear(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("clear transcript: %w", err)
	}
	return nil
}

type memoryTranscriptRepo struct {
	mu    sync.RWMutex
	convs map[string][]model.ChatMessage
}

// NewMemoryTranscriptRepo keeps transcripts in process memory.
func NewMemoryTranscriptRepo() TranscriptRepo {
	return &memoryTranscriptRepo{convs: make(map[string][]model.ChatMessage)}
}

func (r *memoryTranscriptRepo) Append(_ context.Context, key string, msgs ...model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conv := append(r.convs[key], msgs...)
	if len(conv) > MaxTranscriptLength {
		conv = append([]model.ChatMessage(nil), conv[len(conv)-MaxTranscriptLength:]...)
	}
	r.convs[key] = conv
	return nil
}

func (r *memoryTranscriptRepo) List(_ context.Context, key string) ([]model.ChatMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.ChatMessage, len(r.convs[key]))
	copy(out, r.convs[key])
	return out, nil
}

func (r *memoryTranscriptRepo) Clear(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.convs, key)
	return nil
}
