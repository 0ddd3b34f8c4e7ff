// Package testutil runs the full API in-process for tests.
package testutil

import (
	"context"
	"net"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/taskbox/api/handler"
	"github.com/fastygo/taskbox/internal/infrastructure/monitor"
	"github.com/fastygo/taskbox/internal/middleware"
	"github.com/fastygo/taskbox/internal/router"
	"github.com/fastygo/taskbox/internal/security"
	"github.com/fastygo/taskbox/pkg/httpcontext"
	"github.com/fastygo/taskbox/repository"
	"github.com/fastygo/taskbox/repository/boltdb"
	accountUC "github.com/fastygo/taskbox/usecase/account"
	taskUC "github.com/fastygo/taskbox/usecase/task"
)

const (
	Secret  = "test-secret"
	BaseURL = "http://taskbox.test/api"
)

type ServerOptions struct {
	// Revocation enables logout-time token revocation with an in-memory denylist.
	Revocation bool
}

// Server is a running API backed by a BoltDB file in a temp dir.
type Server struct {
	Store       repository.Store
	Tokens      *security.TokenManager
	Revocations *MemoryRevocations
	Monitor     *monitor.Monitor
	Handler     fasthttp.RequestHandler

	ln *fasthttputil.InmemoryListener
}

func NewServer(t testing.TB, opts ServerOptions) *Server {
	t.Helper()

	db, err := boltdb.Open(filepath.Join(t.TempDir(), "taskbox.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	store := boltdb.NewStore(db)

	logger := zap.NewNop()
	tokens := security.NewTokenManager(Secret, "taskbox-test")

	var revocations repository.RevocationRepository
	var memory *MemoryRevocations
	if opts.Revocation {
		memory = NewMemoryRevocations()
		revocations = memory
	}

	mon := monitor.New([]monitor.Probe{{Name: store.Name, Check: store.Ping}}, time.Minute, logger)
	mon.Refresh()

	adapter := httpcontext.NewAdapter(5 * time.Second)
	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(accountUC.New(store.Accounts, revocations, tokens, security.NewPasswordHasher(), logger), adapter, logger),
		Task:   apiHandler.NewTaskHandler(taskUC.New(store.Tasks, logger), adapter, logger),
		Health: apiHandler.NewHealthHandler(mon, adapter, logger),
	}
	routerOpts := router.Options{EnableMetrics: true}
	r := router.New(handlers, middleware.Auth(middleware.DefaultTokenHeader, tokens, revocations, logger), routerOpts)

	s := &Server{
		Store:       store,
		Tokens:      tokens,
		Revocations: memory,
		Monitor:     mon,
		Handler:     router.Handler(r, routerOpts),
		ln:          fasthttputil.NewInmemoryListener(),
	}

	go func() {
		_ = fasthttp.Serve(s.ln, s.Handler)
	}()

	t.Cleanup(func() {
		_ = s.ln.Close()
		_ = store.Close(context.Background())
	})
	return s
}

// Dial connects to the in-memory listener regardless of addr.
func (s *Server) Dial(addr string) (net.Conn, error) {
	return s.ln.Dial()
}

// Client returns an HTTP client wired to the server.
func (s *Server) Client() *fasthttp.Client {
	return &fasthttp.Client{Dial: s.Dial}
}

// MemoryRevocations is a denylist kept in a map. Entries never expire.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Duration)}
}

func (m *MemoryRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = ttl
	return nil
}

func (m *MemoryRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func (m *MemoryRevocations) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revoked)
}
