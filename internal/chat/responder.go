package chat

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/meusugar/server/internal/model"
)

// CannedReplies are the assistant lines picked by the default selector.
var CannedReplies = []string{
	"Que interessante! Me conta mais sobre isso...",
	"Adorei saber disso sobre você 💕",
	"Você é muito especial, sabia?",
	"Estou adorando nossa conversa!",
	"Me faz sorrir quando você fala assim...",
}

// Selector chooses the assistant reply for a conversation.
type Selector interface {
	Select(ctx context.Context, profile model.ModelProfile, history []model.ChatMessage) (string, error)
}

// RandomSelector picks uniformly from a fixed list.
type RandomSelector struct {
	mu      sync.Mutex
	rng     *rand.Rand
	replies []string
}

func NewRandomSelector(replies []string, seed int64) *RandomSelector {
	return &RandomSelector{rng: rand.New(rand.NewSource(seed)), replies: replies}
}

func (s *RandomSelector) Select(context.Context, model.ModelProfile, []model.ChatMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replies[s.rng.Intn(len(s.replies))], nil
}

// FixedSelector always returns the same reply.
type FixedSelector string

func (s FixedSelector) Select(context.Context, model.ModelProfile, []model.ChatMessage) (string, error) {
	return string(s), nil
}

// Latency simulates composing time: Delay plus a random share of Jitter.
type Latency struct {
	Delay  time.Duration
	Jitter time.Duration

	mu    sync.Mutex
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

func NewLatency(delay, jitter time.Duration) *Latency {
	return &Latency{
		Delay:  delay,
		Jitter: jitter,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepContext,
	}
}

// NoLatency replies immediately.
func NoLatency() *Latency {
	return NewLatency(0, 0)
}

// Next returns the duration of the next wait.
func (l *Latency) Next() time.Duration {
	d := l.Delay
	if l.Jitter > 0 {
		l.mu.Lock()
		d += time.Duration(l.rng.Int63n(int64(l.Jitter)))
		l.mu.Unlock()
	}
	return d
}

// Wait blocks for Next or until ctx ends.
func (l *Latency) Wait(ctx context.Context) error {
	d := l.Next()
	if d <= 0 {
		return ctx.Err()
	}
	return l.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
