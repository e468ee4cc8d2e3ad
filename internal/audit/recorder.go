package audit

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/HMB-research/open-accounting/internal/models"
)

// DefaultQueueCapacity is the bounded queue's default size (§4.7).
const DefaultQueueCapacity = 1024

// Recorder is a single-producer-safe, multi-consumer bounded queue in front
// of a Repository. Enqueue never blocks the caller's request path; once the
// queue is full the oldest pending entry is dropped to make room, and the
// drop is counted for the dropped-count metric.
type Recorder struct {
	repo     Repository
	capacity int

	mu      sync.Mutex
	queue   []models.AuditEntry
	notify  chan struct{}
	dropped uint64

	uuid func() string
	now  func() time.Time

	stop chan struct{}
	done chan struct{}
}

// NewRecorder builds a Recorder with the given bounded capacity. Start must
// be called to begin draining the queue.
func NewRecorder(repo Repository, capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Recorder{
		repo:     repo,
		capacity: capacity,
		notify:   make(chan struct{}, 1),
		uuid:     uuid.NewString,
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background worker that drains the queue into the
// repository. Call Stop (or Drain at shutdown) to stop it cleanly.
func (r *Recorder) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Recorder) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			r.drainOnce(ctx)
			return
		case <-ctx.Done():
			r.drainOnce(ctx)
			return
		case <-r.notify:
			r.drainOnce(ctx)
		case <-ticker.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *Recorder) drainOnce(ctx context.Context) {
	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.mu.Unlock()
			return
		}
		entry := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()

		if err := r.repo.Insert(ctx, &entry); err != nil {
			log.Error().Err(err).Str("entity_kind", entry.EntityKind).Msg("audit: failed to persist entry")
		}
	}
}

// Record enqueues a mutating-handler audit entry without blocking the
// caller. Delivery is at-least-once and best-effort; entries may be dropped
// (oldest-first) when the queue saturates.
func (r *Recorder) Record(entry models.AuditEntry) {
	if entry.ID == "" {
		entry.ID = r.uuid()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = r.now()
	}

	r.mu.Lock()
	if len(r.queue) >= r.capacity {
		r.queue = r.queue[1:]
		atomic.AddUint64(&r.dropped, 1)
	}
	r.queue = append(r.queue, entry)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// RecordAuthEvent persists a LOGIN/LOGOUT/ACCESS_DENIED event synchronously,
// inline with the authentication filter (§4.7 — auth events, unlike data
// mutations, are durable before the response completes).
func (r *Recorder) RecordAuthEvent(ctx context.Context, actor string, action models.AuditAction, remoteIP, userAgent string) error {
	entry := &models.AuditEntry{
		ID:            r.uuid(),
		ActorUsername: actor,
		Action:        action,
		EntityKind:    "auth",
		Timestamp:     r.now(),
		RemoteIP:      remoteIP,
		UserAgent:     userAgent,
	}
	return r.repo.Insert(ctx, entry)
}

// Dropped returns the number of entries discarded because the queue was
// saturated at enqueue time.
func (r *Recorder) Dropped() uint64 {
	return atomic.LoadUint64(&r.dropped)
}

// QueueDepth returns the number of entries currently pending delivery.
func (r *Recorder) QueueDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

// Drain stops accepting new work on the background loop and blocks until
// the queue has been flushed or the context deadline passes — used by
// graceful shutdown to flush pending entries before the process exits.
func (r *Recorder) Drain(ctx context.Context) {
	close(r.stop)
	select {
	case <-r.done:
	case <-ctx.Done():
	}
}

// InferAction maps a handler method name to the audit action it represents
// (§4.7): create*/save*/add* -> CREATE, update*/modify* -> UPDATE,
// delete*/remove* -> DELETE. Falls back to UPDATE for anything else, since
// an otherwise-unclassified mutating call is most often a state change.
func InferAction(methodName string) models.AuditAction {
	name := strings.ToLower(methodName)
	switch {
	case strings.HasPrefix(name, "create"), strings.HasPrefix(name, "save"), strings.HasPrefix(name, "add"):
		return models.AuditCreate
	case strings.HasPrefix(name, "delete"), strings.HasPrefix(name, "remove"):
		return models.AuditDelete
	case strings.HasPrefix(name, "update"), strings.HasPrefix(name, "modify"):
		return models.AuditUpdate
	default:
		return models.AuditUpdate
	}
}

// RemoteAddr extracts the client address with the precedence §4.7 requires:
// X-Forwarded-For, then X-Real-IP, then the connection's remote address.
func RemoteAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
