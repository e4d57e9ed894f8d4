package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"
)

type IdempotencyStore interface {
	Get(key string) (*CachedResponse, bool)
	Set(key string, response *CachedResponse)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	CreatedAt  time.Time
}

type InMemoryIdempotencyStore struct {
	mu     sync.RWMutex
	store  map[string]*CachedResponse
	ttl    time.Duration
	stopCh chan struct{}
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		store:  make(map[string]*CachedResponse),
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (s *InMemoryIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	s.mu.RLock()
	response, exists := s.store[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(response.CreatedAt) > s.ttl {
		s.mu.Lock()
		delete(s.store, key)
		s.mu.Unlock()
		return nil, false
	}

	return response, true
}

func (s *InMemoryIdempotencyStore) Set(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response.CreatedAt = time.Now()
	s.store[key] = response
}

func (s *InMemoryIdempotencyStore) cleanup() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for key, response := range s.store {
				if time.Since(response.CreatedAt) > s.ttl {
					delete(s.store, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	close(s.stopCh)
}

type responseCapture struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the cached response for a repeated mutation carrying
// the same idempotency key, so client retries of a create or reschedule do
// not run the conflict protocol twice.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = "Idempotency-Key"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch && r.Method != http.MethodPut {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(headerName)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := store.Get(key); ok {
				for name, values := range cached.Headers {
					for _, v := range values {
						w.Header().Add(name, v)
					}
				}
				w.WriteHeader(cached.StatusCode)
				_, _ = w.Write(cached.Body)
				return
			}

			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(capture, r)

			// Only successful outcomes are replayable; errors should re-run.
			if capture.statusCode < 300 {
				store.Set(key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    w.Header().Clone(),
					Body:       capture.body.Bytes(),
				})
			}
		})
	}
}
