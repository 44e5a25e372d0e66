package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/api/responses"
	pkgerrors "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/errors"
	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
	pkgredis "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/redis"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	adminPrefix       = "/api/admin/"
)

// keyPolicy says whether a write route takes part in replay and whether the
// client must send a key.
type keyPolicy struct {
	enabled  bool
	required bool
}

// createCollections are the admin collections whose POST creates a record.
var createCollections = map[string]bool{
	"brands":     true,
	"categories": true,
	"products":   true,
	"customers":  true,
	"orders":     true,
}

// policyFor resolves the key policy from the request path. Order creation
// always needs a key. Other creates and every restore replay only when the
// client sends one.
func policyFor(method, path string) keyPolicy {
	if method != http.MethodPost || !strings.HasPrefix(path, adminPrefix) {
		return keyPolicy{}
	}
	segments := strings.Split(strings.Trim(strings.TrimPrefix(path, adminPrefix), "/"), "/")
	switch {
	case len(segments) == 1 && createCollections[segments[0]]:
		return keyPolicy{enabled: true, required: segments[0] == "orders"}
	case len(segments) == 3 && segments[2] == "restore":
		return keyPolicy{enabled: true}
	default:
		return keyPolicy{}
	}
}

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

type idempotencyGuard struct {
	store pkgredis.IdempotencyStore
	ttl   time.Duration
	logg  *logger.Logger
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// create and restore routes. Records live for ttl. A nil store disables it.
func Idempotency(store pkgredis.IdempotencyStore, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	guard := &idempotencyGuard{store: store, ttl: ttl, logg: logg}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy := policyFor(r.Method, r.URL.Path)
			if !policy.enabled || guard.store == nil || guard.ttl <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if clientKey == "" {
				if policy.required {
					responses.WriteError(r.Context(), logg, w, pkgerrors.ValidationFailed(idempotencyHeader, "header required"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			guard.serve(w, r, next, clientKey)
		})
	}
}

func (g *idempotencyGuard) serve(w http.ResponseWriter, r *http.Request, next http.Handler, clientKey string) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request body unreadable"))
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	sum := sha256.Sum256(body)
	hash := hex.EncodeToString(sum[:])
	key := g.store.IdempotencyKey(r.Method+"|"+r.URL.Path, clientKey)

	stored, err := g.lookup(r, key)
	if err != nil {
		responses.WriteError(ctx, g.logg, w, err)
		return
	}
	if stored != nil {
		if stored.RequestHash != hash {
			responses.WriteError(ctx, g.logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
			return
		}
		replay(w, stored)
		return
	}

	capture := &responseCapture{ResponseWriter: w}
	next.ServeHTTP(capture, r)

	status := capture.statusOrOK()
	// 5xx responses are not recorded.
	if status >= http.StatusInternalServerError {
		return
	}
	g.remember(r, key, storedResponse{
		Status:      status,
		ContentType: capture.Header().Get("Content-Type"),
		Body:        capture.body.Bytes(),
		RequestHash: hash,
	})
}

func (g *idempotencyGuard) lookup(r *http.Request, key string) (*storedResponse, error) {
	raw, err := g.store.Get(r.Context(), key)
	if errors.Is(err, redis.Nil) || (err == nil && raw == "") {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	}
	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &stored, nil
}

func (g *idempotencyGuard) remember(r *http.Request, key string, stored storedResponse) {
	payload, err := json.Marshal(stored)
	if err == nil {
		_, err = g.store.SetNX(r.Context(), key, string(payload), g.ttl)
	}
	if err != nil && g.logg != nil {
		g.logg.Error(r.Context(), "idempotency.persist_failed", err)
	}
}

func replay(w http.ResponseWriter, stored *storedResponse) {
	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
}

// responseCapture tees the handler's response so it can be stored.
type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusOrOK() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}
