package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/catalog"
	"github.com/meusugar/server/internal/ledger"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/repo"
	"github.com/meusugar/server/internal/video"
)

type stubVideos struct {
	res  video.Result
	err  error
	last video.Request
}

func (s *stubVideos) Generate(_ context.Context, req video.Request) (video.Result, error) {
	s.last = req
	return s.res, s.err
}

type fixture struct {
	svc    *Service
	users  repo.UserRepo
	ledger *ledger.Service
	videos *stubVideos
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.Discard()
	users := repo.NewMemoryUserRepo()
	u, err := users.Create(context.Background(), repo.NewUser{Email: "alice@example.com", Name: "Alice", Tokens: ledger.StartingBalance})
	require.NoError(t, err)

	f := &fixture{
		users:  users,
		ledger: ledger.NewService(users, catalog.NewPackages(nil, log), nil, log),
		videos: &stubVideos{res: video.Result{VideoURL: "https://cdn/v.mp4"}},
		userID: u.ID,
	}
	f.svc = NewService(Options{
		Profiles:    catalog.NewProfiles(nil, log),
		Transcripts: repo.NewMemoryTranscriptRepo(),
		Wallet:      f.ledger,
		Videos:      f.videos,
		Selector:    FixedSelector("Oi!"),
		Latency:     NoLatency(),
		Log:         log,
	})
	return f
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Send(ctx, f.userID, "ana-silva", "  ", "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = f.svc.Send(ctx, f.userID, "nobody", "oi", "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	ex, err := f.svc.Send(ctx, f.userID, "ana-silva", "Oi, tudo bem?", "")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, ex.Message.Role)
	assert.Equal(t, model.RoleAssistant, ex.Reply.Role)
	assert.Equal(t, "Oi!", ex.Reply.Text)

	history, err := f.svc.History(ctx, f.userID, "ana-silva")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Oi, tudo bem?", history[0].Text)

	other, err := f.svc.History(ctx, uuid.New(), "ana-silva")
	require.NoError(t, err)
	assert.Empty(t, other, "transcripts are per user")

	require.NoError(t, f.svc.Clear(ctx, f.userID, "ana-silva"))
	history, err = f.svc.History(ctx, f.userID, "ana-silva")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestSend_RandomReplyFromCannedSet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.selector = NewRandomSelector(CannedReplies, 42)

	for i := 0; i < 10; i++ {
		ex, err := f.svc.Send(ctx, f.userID, "beatriz-costa", "oi", "")
		require.NoError(t, err)
		assert.Contains(t, CannedReplies, ex.Reply.Text)
	}
}

func TestConvertToVideo_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.Set(ctx, f.userID, 1)
	require.NoError(t, err)

	_, err = f.svc.ConvertToVideo(ctx, f.userID, "ana-silva", VideoRequest{ImageURL: "https://img/1.jpg", Duration: 5})
	var insufficient *InsufficientTokensError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(1), insufficient.Balance)
	assert.Equal(t, int64(2), insufficient.Cost)

	balance, err := f.ledger.Balance(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), balance)
}

func TestConvertToVideo_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.ledger.Set(ctx, f.userID, 5)
	require.NoError(t, err)

	conv, err := f.svc.ConvertToVideo(ctx, f.userID, "ana-silva", VideoRequest{ImageURL: "https://img/1.jpg", Duration: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), conv.Balance)
	assert.Equal(t, int64(2), conv.Cost)
	assert.Equal(t, "https://cdn/v.mp4", conv.VideoURL)
	assert.Equal(t, "ana-silva", f.videos.last.ModelSlug)
	assert.NotEmpty(t, f.videos.last.MediaID)

	conv, err = f.svc.ConvertToVideo(ctx, f.userID, "ana-silva", VideoRequest{ImageURL: "https://img/1.jpg", MediaID: "7", Duration: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), conv.Balance)
	assert.Equal(t, "7", f.videos.last.MediaID)

	history, err := f.svc.History(ctx, f.userID, "ana-silva")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "https://cdn/v.mp4", history[1].VideoURL)
}

func TestConvertToVideo_RefundOnFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.videos.err = apperr.Unavailable("no video generation provider configured", errors.New("none"))

	_, err := f.svc.ConvertToVideo(ctx, f.userID, "ana-silva", VideoRequest{ImageURL: "https://img/1.jpg", Duration: 10})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	balance, err := f.ledger.Balance(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StartingBalance, balance)
}

func TestConvertToVideo_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ConvertToVideo(ctx, f.userID, "ana-silva", VideoRequest{ImageURL: "x", Duration: 7})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.svc.ConvertToVideo(ctx, f.userID, "ana-silva", VideoRequest{Duration: 5})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, err = f.svc.ConvertToVideo(ctx, f.userID, "nobody", VideoRequest{ImageURL: "x", Duration: 5})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestLatency(t *testing.T) {
	l := NewLatency(time.Second, 500*time.Millisecond)
	var slept time.Duration
	l.sleep = func(_ context.Context, d time.Duration) error {
		slept = d
		return nil
	}
	require.NoError(t, l.Wait(context.Background()))
	assert.GreaterOrEqual(t, slept, time.Second)
	assert.Less(t, slept, 1500*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLatency(time.Hour, 0).Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.NoError(t, NoLatency().Wait(context.Background()))
}
