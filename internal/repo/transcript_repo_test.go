package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/meusugar/server/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTranscripts(t *testing.T) (TranscriptRepo, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTranscriptRepo(client), mr
}

func transcriptImplementations(t *testing.T) map[string]TranscriptRepo {
	redisRepo, _ := newRedisTranscripts(t)
	return map[string]TranscriptRepo{
		"memory": NewMemoryTranscriptRepo(),
		"redis":  redisRepo,
	}
}

func TestTranscriptRepo_AppendListClear(t *testing.T) {
	for name, r := range transcriptImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := TranscriptKey(uuid.New(), "ana-silva")
			now := time.Now().UTC().Truncate(time.Millisecond)

			require.NoError(t, r.Append(ctx, key,
				model.ChatMessage{ID: "1", Role: model.RoleUser, Text: "oi", CreatedAt: now},
				model.ChatMessage{ID: "2", Role: model.RoleAssistant, Text: "olá", CreatedAt: now},
			))

			msgs, err := r.List(ctx, key)
			require.NoError(t, err)
			require.Len(t, msgs, 2)
			assert.Equal(t, model.RoleUser, msgs[0].Role)
			assert.Equal(t, "olá", msgs[1].Text)
			assert.True(t, now.Equal(msgs[0].CreatedAt))

			require.NoError(t, r.Clear(ctx, key))
			msgs, err = r.List(ctx, key)
			require.NoError(t, err)
			assert.Empty(t, msgs)
		})
	}
}

func TestTranscriptRepo_CapsLength(t *testing.T) {
	for name, r := range transcriptImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := TranscriptKey(uuid.New(), "bia")
			for i := 0; i < MaxTranscriptLength+5; i++ {
				require.NoError(t, r.Append(ctx, key, model.ChatMessage{ID: fmt.Sprint(i), Role: model.RoleUser}))
			}
			msgs, err := r.List(ctx, key)
			require.NoError(t, err)
			require.Len(t, msgs, MaxTranscriptLength)
			assert.Equal(t, "5", msgs[0].ID)
		})
	}
}

func TestRedisTranscriptRepo_SetsTTL(t *testing.T) {
	r, mr := newRedisTranscripts(t)
	key := TranscriptKey(uuid.New(), "carol")
	require.NoError(t, r.Append(context.Background(), key, model.ChatMessage{ID: "1"}))
	assert.Equal(t, transcriptTTL, mr.TTL(key))
}
