package idempotency

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/agamariel/bankdash/internal/auth"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type memoryStore struct {
	mu       sync.Mutex
	data     map[string]*Response
	getErr   error
	claimErr error
	saveErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]*Response{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.data[key], nil
}

func (m *memoryStore) Claim(ctx context.Context, key, fingerprint string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimErr != nil {
		return false, m.claimErr
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = &Response{Fingerprint: fingerprint}
	return true, nil
}

func (m *memoryStore) Save(ctx context.Context, key string, resp *Response) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = resp
	return nil
}

func (m *memoryStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type testServer struct {
	e     *echo.Echo
	calls int
	fail  error
	code  int
}

func newTestServer(store Store, userID uuid.UUID) *testServer {
	s := &testServer{e: echo.New(), code: http.StatusCreated}
	setUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(string(auth.UserIDKey), userID)
			return next(c)
		}
	}
	handler := func(c echo.Context) error {
		s.calls++
		if s.fail != nil {
			return s.fail
		}
		return c.JSON(s.code, map[string]int{"call": s.calls})
	}
	s.e.POST("/accounts/:id/withdrawals", handler, setUser, Middleware(store))
	s.e.POST("/accounts/:id/deposits", handler, setUser, Middleware(store))
	return s
}

func (s *testServer) do(path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"amount":"10"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(HeaderKey, key)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_ReplaysCachedResponse(t *testing.T) {
	store := newMemoryStore()
	srv := newTestServer(store, uuid.New())

	first := srv.do("/accounts/1/withdrawals", "key-1")
	second := srv.do("/accounts/1/withdrawals", "key-1")

	if srv.calls != 1 {
		t.Fatalf("handler calls = %d, want 1", srv.calls)
	}
	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Errorf("codes = %d/%d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replayed body %q differs from %q", second.Body.String(), first.Body.String())
	}
	if first.Header().Get(HeaderReplayed) != "" {
		t.Error("first response must not be marked as replayed")
	}
	if second.Header().Get(HeaderReplayed) != "true" {
		t.Error("second response must be marked as replayed")
	}
	if !strings.HasPrefix(second.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		t.Errorf("content type = %q", second.Header().Get(echo.HeaderContentType))
	}
}

func TestMiddleware_KeyScoping(t *testing.T) {
	store := newMemoryStore()

	t.Run("without key every request runs", func(t *testing.T) {
		srv := newTestServer(store, uuid.New())
		srv.do("/accounts/1/withdrawals", "")
		srv.do("/accounts/1/withdrawals", "")
		if srv.calls != 2 {
			t.Errorf("handler calls = %d, want 2", srv.calls)
		}
	})

	t.Run("keys are per user", func(t *testing.T) {
		a := newTestServer(store, uuid.New())
		b := newTestServer(store, uuid.New())
		a.do("/accounts/1/withdrawals", "shared")
		b.do("/accounts/1/withdrawals", "shared")
		if a.calls != 1 || b.calls != 1 {
			t.Errorf("calls = %d/%d, want 1/1", a.calls, b.calls)
		}
	})

	t.Run("key reused for another request", func(t *testing.T) {
		srv := newTestServer(store, uuid.New())
		srv.do("/accounts/1/withdrawals", "reuse")
		rec := srv.do("/accounts/1/deposits", "reuse")
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("code = %d, want 422", rec.Code)
		}
		if srv.calls != 1 {
			t.Errorf("handler calls = %d, want 1", srv.calls)
		}
	})

	t.Run("too long key", func(t *testing.T) {
		srv := newTestServer(store, uuid.New())
		rec := srv.do("/accounts/1/withdrawals", strings.Repeat("k", maxKeyLength+1))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", rec.Code)
		}
	})
}

func TestMiddleware_DoesNotCacheFailures(t *testing.T) {
	tests := []struct {
		name string
		fail error
		code int
	}{
		{name: "handler error", fail: echo.NewHTTPError(http.StatusPaymentRequired, "insufficient funds")},
		{name: "server error status", code: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			srv := newTestServer(store, uuid.New())
			srv.fail = tt.fail
			if tt.code != 0 {
				srv.code = tt.code
			}

			srv.do("/accounts/1/withdrawals", "k")
			srv.do("/accounts/1/withdrawals", "k")

			if srv.calls != 2 {
				t.Errorf("handler calls = %d, want 2", srv.calls)
			}
			if len(store.data) != 0 {
				t.Errorf("store must stay empty, got %d entries", len(store.data))
			}
		})
	}
}

func TestMiddleware_StoreErrorsAreNotFatal(t *testing.T) {
	store := newMemoryStore()
	store.getErr = errors.New("redis down")
	store.claimErr = errors.New("redis down")
	store.saveErr = errors.New("redis down")
	srv := newTestServer(store, uuid.New())

	rec := srv.do("/accounts/1/withdrawals", "k")
	if rec.Code != http.StatusCreated {
		t.Errorf("code = %d, want 201", rec.Code)
	}
	srv.do("/accounts/1/withdrawals", "k")
	if srv.calls != 2 {
		t.Errorf("handler calls = %d, want 2", srv.calls)
	}
}

func TestMiddleware_InFlightDuplicate(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()

	entered := make(chan struct{})
	unblock := make(chan struct{})
	calls := 0

	e := echo.New()
	setUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(string(auth.UserIDKey), userID)
			return next(c)
		}
	}
	e.POST("/accounts/:id/withdrawals", func(c echo.Context) error {
		calls++
		close(entered)
		<-unblock
		return c.JSON(http.StatusCreated, map[string]string{"status": "done"})
	}, setUser, Middleware(store))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/accounts/1/withdrawals", strings.NewReader(`{"amount":"10"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(HeaderKey, "dup")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	firstDone := make(chan *httptest.ResponseRecorder)
	go func() { firstDone <- send() }()
	<-entered

	// Первый запрос ещё в handler
	if rec := send(); rec.Code != http.StatusConflict {
		t.Errorf("duplicate code = %d, want 409", rec.Code)
	}

	close(unblock)
	first := <-firstDone
	if first.Code != http.StatusCreated {
		t.Errorf("first code = %d, want 201", first.Code)
	}

	// После завершения дубликат получает сохранённый ответ
	replayed := send()
	if replayed.Code != http.StatusCreated || replayed.Header().Get(HeaderReplayed) != "true" {
		t.Errorf("replay code = %d, replayed header = %q", replayed.Code, replayed.Header().Get(HeaderReplayed))
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestMiddleware_ClaimLostToAnotherRequest(t *testing.T) {
	store := newMemoryStore()
	userID := uuid.New()
	srv := newTestServer(store, userID)

	// Ключ занят для того же запроса, но ответа ещё нет
	if ok, _ := store.Claim(context.Background(), Key(userID.String(), "held"), "POST /accounts/1/withdrawals"); !ok {
		t.Fatal("claim must succeed on an empty store")
	}

	rec := srv.do("/accounts/1/withdrawals", "held")
	if rec.Code != http.StatusConflict {
		t.Errorf("code = %d, want 409", rec.Code)
	}
	if srv.calls != 0 {
		t.Errorf("handler calls = %d, want 0", srv.calls)
	}
}

func TestKey(t *testing.T) {
	if got := Key("u1", "abc"); got != "idempotency:u1:abc" {
		t.Errorf("Key() = %q", got)
	}
}
