// Package chat simulates conversations with companion profiles and the
// token-gated image to video conversion.
package chat

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meusugar/server/internal/apperr"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/model"
	"github.com/meusugar/server/internal/repo"
	"github.com/meusugar/server/internal/video"
)

// PurchaseRedirect is where a client sends a user who cannot afford an action.
const PurchaseRedirect = "/comprar-tokens"

// videoCosts maps the clip length in seconds to its token price.
var videoCosts = map[int]int64{
	5:  2,
	10: 3,
}

// VideoCost returns the token price of a clip of the given length.
func VideoCost(seconds int) (int64, bool) {
	c, ok := videoCosts[seconds]
	return c, ok
}

// InsufficientTokensError reports a conversion the balance could not cover.
type InsufficientTokensError struct {
	Balance int64
	Cost    int64
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("insufficient tokens: balance %d, cost %d", e.Balance, e.Cost)
}

// ProfileFinder resolves a profile by slug.
type ProfileFinder interface {
	GetBySlug(ctx context.Context, slug string) (model.ModelProfile, error)
}

// Wallet is the part of the ledger chat spends from.
type Wallet interface {
	Deduct(ctx context.Context, userID uuid.UUID, amount int64) (int64, bool, error)
	Add(ctx context.Context, userID uuid.UUID, amount int64) (int64, error)
}

// VideoGenerator produces a video for an image.
type VideoGenerator interface {
	Generate(ctx context.Context, req video.Request) (video.Result, error)
}

// Exchange is a user message and the reply it got.
type Exchange struct {
	Message model.ChatMessage `json:"message"`
	Reply   model.ChatMessage `json:"reply"`
}

// VideoRequest asks to animate an image of the conversation.
type VideoRequest struct {
	ImageURL string
	MediaID  string
	Duration int
}

// Conversion is a paid image to video conversion.
type Conversion struct {
	VideoURL string            `json:"videoUrl"`
	Cached   bool              `json:"cached"`
	Cost     int64             `json:"cost"`
	Balance  int64             `json:"balance"`
	Message  model.ChatMessage `json:"message"`
}

// Options configures a Service.
type Options struct {
	Profiles    ProfileFinder
	Transcripts repo.TranscriptRepo
	Wallet      Wallet
	Videos      VideoGenerator
	Selector    Selector
	Latency     *Latency
	Log         logging.Logger
	Now         func() time.Time
}

type Service struct {
	profiles    ProfileFinder
	transcripts repo.TranscriptRepo
	wallet      Wallet
	videos      VideoGenerator
	selector    Selector
	latency     *Latency
	log         logging.Logger
	now         func() time.Time
}

func NewService(opts Options) *Service {
	s := &Service{
		profiles:    opts.Profiles,
		transcripts: opts.Transcripts,
		wallet:      opts.Wallet,
		videos:      opts.Videos,
		selector:    opts.Selector,
		latency:     opts.Latency,
		log:         opts.Log,
		now:         opts.Now,
	}
	if s.selector == nil {
		s.selector = NewRandomSelector(CannedReplies, time.Now().UnixNano())
	}
	if s.latency == nil {
		s.latency = NoLatency()
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *Service) newMessage(role model.ChatRole, text string) model.ChatMessage {
	return model.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: s.now().UTC(),
	}
}

// Send records a user message, waits the composing latency and records the reply.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, slug, text, imageURL string) (Exchange, error) {
	text = strings.TrimSpace(text)
	imageURL = strings.TrimSpace(imageURL)
	if text == "" && imageURL == "" {
		return Exchange{}, apperr.Validation("text or imageUrl is required")
	}
	profile, err := s.profiles.GetBySlug(ctx, slug)
	if err != nil {
		return Exchange{}, err
	}

	key := repo.TranscriptKey(userID, profile.Slug)
	msg := s.newMessage(model.RoleUser, text)
	msg.ImageURL = imageURL
	if err := s.transcripts.Append(ctx, key, msg); err != nil {
		return Exchange{}, apperr.Internal("failed to save message", err)
	}

	if err := s.latency.Wait(ctx); err != nil {
		return Exchange{}, err
	}

	history, err := s.transcripts.List(ctx, key)
	if err != nil {
		return Exchange{}, apperr.Internal("failed to load conversation", err)
	}
	text, err = s.selector.Select(ctx, profile, history)
	if err != nil {
		return Exchange{}, apperr.Internal("failed to compose reply", err)
	}
	reply := s.newMessage(model.RoleAssistant, text)
	if err := s.transcripts.Append(ctx, key, reply); err != nil {
		return Exchange{}, apperr.Internal("failed to save message", err)
	}
	return Exchange{Message: msg, Reply: reply}, nil
}

// History returns the conversation of a user with a profile, oldest first.
func (s *Service) History(ctx context.Context, userID uuid.UUID, slug string) ([]model.ChatMessage, error) {
	profile, err := s.profiles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	msgs, err := s.transcripts.List(ctx, repo.TranscriptKey(userID, profile.Slug))
	if err != nil {
		return nil, apperr.Internal("failed to load conversation", err)
	}
	return msgs, nil
}

func (s *Service) Clear(ctx context.Context, userID uuid.UUID, slug string) error {
	profile, err := s.profiles.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.transcripts.Clear(ctx, repo.TranscriptKey(userID, profile.Slug)); err != nil {
		return apperr.Internal("failed to clear conversation", err)
	}
	return nil
}

// ConvertToVideo charges the clip price and generates the video. A balance that
// cannot cover the price yields *InsufficientTokensError and nothing is charged.
// A failed generation is refunded.
func (s *Service) ConvertToVideo(ctx context.Context, userID uuid.UUID, slug string, req VideoRequest) (Conversion, error) {
	cost, ok := VideoCost(req.Duration)
	if !ok {
		return Conversion{}, apperr.Validation("duration must be 5 or 10")
	}
	req.ImageURL = strings.TrimSpace(req.ImageURL)
	if req.ImageURL == "" {
		return Conversion{}, apperr.Validation("imageUrl is required")
	}
	if req.MediaID == "" {
		req.MediaID = mediaIDFor(req.ImageURL)
	}
	profile, err := s.profiles.GetBySlug(ctx, slug)
	if err != nil {
		return Conversion{}, err
	}

	balance, ok, err := s.wallet.Deduct(ctx, userID, cost)
	if err != nil {
		return Conversion{}, err
	}
	if !ok {
		return Conversion{}, &InsufficientTokensError{Balance: balance, Cost: cost}
	}

	res, err := s.videos.Generate(ctx, video.Request{
		ImageURL:  req.ImageURL,
		MediaID:   req.MediaID,
		ModelSlug: profile.Slug,
	})
	if err != nil {
		refunded, refundErr := s.wallet.Add(context.WithoutCancel(ctx), userID, cost)
		if refundErr != nil {
			s.log.Error(ctx, "video refund failed", "user_id", userID, "cost", cost, "error", refundErr)
		} else {
			s.log.Info(ctx, "video cost refunded", "user_id", userID, "cost", cost, "balance", refunded)
		}
		return Conversion{}, err
	}

	msg := s.newMessage(model.RoleAssistant, "")
	msg.ImageURL = req.ImageURL
	msg.VideoURL = res.VideoURL
	if err := s.transcripts.Append(ctx, repo.TranscriptKey(userID, profile.Slug), msg); err != nil {
		s.log.Warn(ctx, "failed to save video message", "error", err)
	}

	return Conversion{
		VideoURL: res.VideoURL,
		Cached:   res.Cached,
		Cost:     cost,
		Balance:  balance,
		Message:  msg,
	}, nil
}

// mediaIDFor derives a stable media id from an image URL.
func mediaIDFor(imageURL string) string {
	sum := sha256.Sum256([]byte(imageURL))
	return hex.EncodeToString(sum[:6])
}
