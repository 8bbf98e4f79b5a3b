package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meusugar/server/internal/auth"
	"github.com/meusugar/server/internal/cache"
	"github.com/meusugar/server/internal/catalog"
	"github.com/meusugar/server/internal/chat"
	"github.com/meusugar/server/internal/http/handlers"
	"github.com/meusugar/server/internal/i18n"
	"github.com/meusugar/server/internal/ledger"
	"github.com/meusugar/server/internal/logging"
	"github.com/meusugar/server/internal/notify"
	"github.com/meusugar/server/internal/repo"
	"github.com/meusugar/server/internal/upload"
	"github.com/meusugar/server/internal/video"
)

const (
	adminEmail    = "admin@meusugar.com"
	adminPassword = "admin-pass"
)

type inbox struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (i *inbox) Send(_ context.Context, msg notify.Message) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sent = append(i.sent, msg)
	return nil
}

var sixDigits = regexp.MustCompile(`\b(\d{6})\b`)

func (i *inbox) lastCode(t *testing.T) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	require.NotEmpty(t, i.sent)
	m := sixDigits.FindStringSubmatch(i.sent[len(i.sent)-1].Body)
	require.Len(t, m, 2)
	return m[1]
}

type stubProvider struct {
	url string
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Generate(context.Context, string) (string, error) {
	return s.url, nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	router   *chi.Mux
	handlers Handlers
	jwt      *auth.JWTService
	inbox    *inbox
	clock    *testClock
}

// newTestServer wires the full router over in-memory stores. With memory false
// the stores are left unconfigured.
func newTestServer(t *testing.T, memory bool) *testServer {
	t.Helper()
	log := logging.Discard()
	clock := &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	box := &inbox{}

	var (
		users    repo.UserRepo
		models   repo.ModelRepo
		legal    repo.LegalRepo
		links    repo.LinksRepo
		metrics  repo.MetricsRepo
		packages repo.PackageRepo
		slides   repo.CarouselRepo
		media    repo.MediaRepo
	)
	if memory {
		users = repo.NewMemoryUserRepo()
		models = repo.NewMemoryModelRepo()
		legal = repo.NewMemoryLegalRepo()
		links = repo.NewMemoryLinksRepo()
		metrics = repo.NewMemoryMetricsRepo()
		packages = repo.NewMemoryPackageRepo()
		slides = repo.NewMemoryCarouselRepo(catalog.DefaultSlides()...)
		media = repo.NewMemoryMediaRepo(catalog.DefaultGalleries())
	}

	adminHash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)

	jwtService := auth.NewJWTService("router-test-secret")
	authService := auth.NewService(auth.Options{
		Users:    users,
		Metrics:  metrics,
		Notifier: box,
		JWT:      jwtService,
		Salt:     "salt",
		AppURL:   "http://localhost:3000",
		Log:      log,
		Now:      clock.Now,
	})
	profiles := catalog.NewProfiles(models, log)
	pkgs := catalog.NewPackages(packages, log)
	wallet := ledger.NewService(users, pkgs, metrics, log)
	generator := video.NewGenerator([]video.Provider{stubProvider{url: "https://cdn.example.com/v.mp4"}}, cache.NewMemoryStore(), log)
	catalogI18n, err := i18n.Load()
	require.NoError(t, err)

	h := Handlers{
		Health:  handlers.NewHealthHandler(),
		Auth:    handlers.NewAuthHandler(authService, auth.NewAdminGate(adminEmail, adminHash, jwtService, log), log),
		Tokens:  handlers.NewTokenHandler(wallet, pkgs, log),
		Models:  handlers.NewModelHandler(profiles, log),
		Content: handlers.NewContentHandler(catalog.NewLegal(legal, log), catalog.NewLinks(links, log), catalog.NewMetrics(metrics, log), log),
		Media:   handlers.NewMediaHandler(catalog.NewCarousel(slides, log), catalog.NewGallery(media, log), log),
		Upload:  handlers.NewUploadHandler(upload.NewRelay(nil, log), log),
		Video:   handlers.NewVideoHandler(generator, log),
		Chat: handlers.NewChatHandler(chat.NewService(chat.Options{
			Profiles:    profiles,
			Transcripts: repo.NewMemoryTranscriptRepo(),
			Wallet:      wallet,
			Videos:      generator,
			Selector:    chat.FixedSelector("Estou adorando nossa conversa!"),
			Latency:     chat.NoLatency(),
			Log:         log,
		}), log),
		I18n: handlers.NewI18nHandler(catalogI18n),
	}

	return &testServer{
		router:   NewRouter(h, jwtService, log, false),
		handlers: h,
		jwt:      jwtService,
		inbox:    box,
		clock:    clock,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	rec := s.do(t, nethttp.MethodPost, "/admin/login", "", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	return decode(t, rec)["token"].(string)
}

func (s *testServer) register(t *testing.T, email string) (token, id string) {
	t.Helper()
	rec := s.do(t, nethttp.MethodPost, "/auth/register", "", map[string]string{"email": email, "password": "secret1", "name": "Test"})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	user := decode(t, rec)["user"].(map[string]any)
	return s.login(t, email, "secret1"), user["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, nethttp.MethodGet, "/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestAccountLifecycle(t *testing.T) {
	s := newTestServer(t, true)
	creds := map[string]string{"email": "alice@example.com", "password": "secret1", "name": "Alice"}

	rec := s.do(t, nethttp.MethodPost, "/auth/register", "", creds)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	user := decode(t, rec)["user"].(map[string]any)
	assert.EqualValues(t, 10, user["tokens"])
	assert.NotContains(t, user, "passwordHash")

	rec = s.do(t, nethttp.MethodPost, "/auth/register", "", creds)
	assert.Equal(t, nethttp.StatusConflict, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "wrong!!"})
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"email": "nobody@example.com", "password": "secret1"})
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	token := s.login(t, "alice@example.com", "secret1")

	rec = s.do(t, nethttp.MethodPut, "/me/two-factor", token, map[string]bool{"enabled": true})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	pending := decode(t, rec)
	assert.Equal(t, true, pending["needsTwoFactor"])
	assert.NotContains(t, pending, "token")

	code := s.inbox.lastCode(t)
	rec = s.do(t, nethttp.MethodPost, "/auth/verify-2fa", "", map[string]string{"email": "alice@example.com", "code": code})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["token"])

	rec = s.do(t, nethttp.MethodPost, "/auth/verify-2fa", "", map[string]string{"email": "alice@example.com", "code": code})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code, "a used code cannot be redeemed again")

	rec = s.do(t, nethttp.MethodPost, "/auth/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	code = s.inbox.lastCode(t)
	s.clock.Advance(10 * time.Minute)
	rec = s.do(t, nethttp.MethodPost, "/auth/verify-2fa", "", map[string]string{"email": "alice@example.com", "code": code})
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "verification code expired", decode(t, rec)["error"])

	rec = s.do(t, nethttp.MethodGet, "/me", token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["user"].(map[string]any)["twoFactorEnabled"])
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, nethttp.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "ghost@example.com"})
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, true, decode(t, rec)["notFound"])
}

func TestRequestBodiesAreStrict(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, nethttp.MethodPost, "/auth/register", "", `{"email":"a@b.com","password":"secret1","name":"A","isAdmin":true}`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "unknown field")

	rec = s.do(t, nethttp.MethodPost, "/auth/login", "", `{"email":`)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec), "error")

	rec = s.do(t, nethttp.MethodPost, "/auth/register", "", map[string]string{"email": "a@b.com", "password": "12345", "name": "A"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestPurchaseCreditsTokensAndBonus(t *testing.T) {
	s := newTestServer(t, true)
	token, _ := s.register(t, "buyer@example.com")

	rec := s.do(t, nethttp.MethodPost, "/tokens/purchase", token, map[string]string{"packageId": "basic"})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	receipt := decode(t, rec)
	assert.EqualValues(t, 110, receipt["credited"])
	assert.EqualValues(t, 120, receipt["balance"])

	rec = s.do(t, nethttp.MethodGet, "/tokens", token, nil)
	assert.JSONEq(t, `{"balance":120}`, rec.Body.String())

	rec = s.do(t, nethttp.MethodPost, "/tokens/purchase", token, map[string]string{"packageId": "nope"})
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = s.do(t, nethttp.MethodGet, "/metrics", s.adminToken(t), nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	m := decode(t, rec)
	assert.EqualValues(t, 110, m["tokensSold"])
	assert.EqualValues(t, 34.9, m["monthlyRevenue"])
	assert.EqualValues(t, 1, m["newUsers"])
}

func TestChatVideoConversionCharges(t *testing.T) {
	s := newTestServer(t, true)
	token, id := s.register(t, "viewer@example.com")
	admin := s.adminToken(t)

	rec := s.do(t, nethttp.MethodPut, "/admin/users/"+id+"/tokens", admin, map[string]int{"tokens": 1})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	req := map[string]any{"imageUrl": "https://cdn.example.com/a.jpg", "duration": 5}
	rec = s.do(t, nethttp.MethodPost, "/chat/ana-silva/video", token, req)
	require.Equal(t, nethttp.StatusPaymentRequired, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "/comprar-tokens", body["redirect"])
	assert.EqualValues(t, 1, body["balance"])

	rec = s.do(t, nethttp.MethodGet, "/tokens", token, nil)
	assert.JSONEq(t, `{"balance":1}`, rec.Body.String())

	rec = s.do(t, nethttp.MethodPut, "/admin/users/"+id+"/tokens", admin, map[string]int{"tokens": 5})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/chat/ana-silva/video", token, req)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	conv := decode(t, rec)
	assert.EqualValues(t, 3, conv["balance"])
	assert.Equal(t, "https://cdn.example.com/v.mp4", conv["videoUrl"])

	rec = s.do(t, nethttp.MethodPost, "/chat/nobody/video", token, req)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestChatMessages(t *testing.T) {
	s := newTestServer(t, true)
	token, _ := s.register(t, "chatter@example.com")

	rec := s.do(t, nethttp.MethodPost, "/chat/beatriz-costa/messages", token, map[string]string{"text": "Oi"})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	reply := decode(t, rec)["reply"].(map[string]any)
	assert.Equal(t, "Estou adorando nossa conversa!", reply["text"])
	assert.Equal(t, "assistant", reply["role"])

	rec = s.do(t, nethttp.MethodGet, "/chat/beatriz-costa/messages", token, nil)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history, 2)

	rec = s.do(t, nethttp.MethodDelete, "/chat/beatriz-costa/messages", token, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	rec = s.do(t, nethttp.MethodGet, "/chat/beatriz-costa/messages", token, nil)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, nethttp.MethodGet, "/chat/beatriz-costa/messages", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestAdminCapability(t *testing.T) {
	s := newTestServer(t, true)
	userToken, _ := s.register(t, "user@example.com")
	profile := map[string]any{"name": "Júlia Ramos", "age": 22, "coverPhoto": "https://cdn.example.com/j.jpg"}

	rec := s.do(t, nethttp.MethodPost, "/models", "", profile)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	rec = s.do(t, nethttp.MethodPost, "/models", userToken, profile)
	assert.Equal(t, nethttp.StatusForbidden, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/admin/login", "", map[string]string{"email": adminEmail, "password": "nope"})
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid email or password", decode(t, rec)["error"])

	admin := s.adminToken(t)
	rec = s.do(t, nethttp.MethodPost, "/models", admin, profile)
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, "julia-ramos", created["slug"])

	rec = s.do(t, nethttp.MethodPost, "/models", admin, profile)
	assert.Equal(t, nethttp.StatusConflict, rec.Code)

	rec = s.do(t, nethttp.MethodPut, "/models/"+created["id"].(string), admin, map[string]int{"age": 17})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = s.do(t, nethttp.MethodGet, "/models/slug/julia-ramos", "", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	rec = s.do(t, nethttp.MethodDelete, "/models/"+created["id"].(string), admin, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestUnconfiguredStores(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, nethttp.MethodGet, "/models", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=60, stale-while-revalidate=120", rec.Header().Get("Cache-Control"))
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 3)

	rec = s.do(t, nethttp.MethodGet, "/legal?type=privacy", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "privacy", decode(t, rec)["type"])

	rec = s.do(t, nethttp.MethodGet, "/legal?type=cookies", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = s.do(t, nethttp.MethodGet, "/packages", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":34.9`)

	admin := s.adminToken(t)
	rec = s.do(t, nethttp.MethodPut, "/links", admin, map[string]string{"instagram": "https://instagram.com/x"})
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/auth/register", "", map[string]string{"email": "a@b.com", "password": "secret1", "name": "A"})
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/upload", admin, nil)
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
}

func TestMediaGallery(t *testing.T) {
	s := newTestServer(t, true)
	admin := s.adminToken(t)

	rec := s.do(t, nethttp.MethodGet, "/media-gallery", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = s.do(t, nethttp.MethodGet, "/media-gallery?modelSlug=ana-silva", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.NotEqual(t, "[]", strings.TrimSpace(rec.Body.String()), "falls back to the default gallery")

	rec = s.do(t, nethttp.MethodPost, "/media-gallery", admin, map[string]string{"modelSlug": "ana-silva", "imageUrl": "https://cdn.example.com/1.jpg"})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	item := decode(t, rec)
	assert.Equal(t, "Nova mídia", item["title"])
	assert.EqualValues(t, 50, item["tokenCost"])

	rec = s.do(t, nethttp.MethodDelete, "/media-gallery/"+item["id"].(string)+"?modelSlug=ana-silva", admin, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/carousel", admin, map[string]string{"title": "no image"})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestGenerateVideo(t *testing.T) {
	s := newTestServer(t, true)
	token, _ := s.register(t, "gen@example.com")
	req := map[string]string{"imageUrl": "https://cdn.example.com/a.jpg", "mediaId": "m1", "modelSlug": "ana-silva"}

	rec := s.do(t, nethttp.MethodPost, "/generate-video", token, req)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"videoUrl":"https://cdn.example.com/v.mp4","cached":false}`, rec.Body.String())

	rec = s.do(t, nethttp.MethodPost, "/generate-video", token, req)
	assert.JSONEq(t, `{"videoUrl":"https://cdn.example.com/v.mp4","cached":true}`, rec.Body.String())
}

func TestI18nDictionary(t *testing.T) {
	s := newTestServer(t, true)
	rec := s.do(t, nethttp.MethodGet, "/i18n/xx-XX", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "pt-BR", body["locale"])
	chatStrings := body["messages"].(map[string]any)["chat"].(map[string]any)
	assert.Equal(t, "Enviar", chatStrings["send"])
}

func TestAuthRateLimit(t *testing.T) {
	s := newTestServer(t, true)
	creds := map[string]string{"email": "x@example.com", "password": "secret1"}
	var last int
	for i := 0; i < 21; i++ {
		last = s.do(t, nethttp.MethodPost, "/auth/login", "", creds).Code
	}
	assert.Equal(t, nethttp.StatusTooManyRequests, last)
}

func loginFrom(router *chi.Mux, remoteAddr, forwardedFor string) int {
	body := strings.NewReader(`{"email":"x@example.com","password":"secret1"}`)
	req := httptest.NewRequest(nethttp.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthRateLimit_IgnoresForwardedForByDefault(t *testing.T) {
	s := newTestServer(t, true)
	var limited int
	for i := 0; i < 50; i++ {
		if loginFrom(s.router, "198.51.100.9:4000", fmt.Sprintf("203.0.113.%d", i)) == nethttp.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 30, limited, "rotating X-Forwarded-For must not open new budgets")
}

func TestAuthRateLimit_TrustedProxy(t *testing.T) {
	s := newTestServer(t, true)
	router := NewRouter(s.handlers, s.jwt, logging.Discard(), true)

	for i := 0; i < 20; i++ {
		require.NotEqual(t, nethttp.StatusTooManyRequests, loginFrom(router, "10.0.0.1:4000", "203.0.113.1"))
	}
	assert.Equal(t, nethttp.StatusTooManyRequests, loginFrom(router, "10.0.0.1:4000", "203.0.113.1"))
	assert.NotEqual(t, nethttp.StatusTooManyRequests, loginFrom(router, "10.0.0.1:4000", "203.0.113.2"),
		"behind a trusted proxy each forwarded client has its own budget")
}
