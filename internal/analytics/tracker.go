// Package analytics records page views, durations and custom events.
//
// Tracking is best effort: no method returns an error, failures are logged,
// and nothing is recorded for admin pages.
package analytics

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alextreichler/webstudio/internal/metrics"
	"github.com/alextreichler/webstudio/internal/models"
)

const (
	adminPrefix      = "/admin"
	DefaultEventType = "click"

	// Visits idle for longer than this are forgotten without a duration update.
	visitTTL = 30 * time.Minute

	queueSize = 256
)

// Recorder persists analytics rows.
type Recorder interface {
	InsertSession(ctx context.Context, s models.AnalyticsSession) error
	InsertEvent(ctx context.Context, e models.AnalyticsEvent) error
	UpdateLatestSessionDuration(ctx context.Context, sessionID, pagePath string, seconds int) (bool, error)
}

// IsExcluded reports whether path belongs to the admin area.
func IsExcluded(path string) bool {
	return strings.HasPrefix(path, adminPrefix)
}

type visit struct {
	path    string
	started time.Time
}

// navigation is a page view waiting for the tracking worker.
type navigation struct {
	ctx       context.Context
	id        Identity
	path      string
	referrer  string
	userAgent string
}

type Tracker struct {
	rec    Recorder
	logger *slog.Logger
	now    func() time.Time
	queue  chan navigation

	mu        sync.Mutex
	visits    map[string]visit // by session id
	lastPrune time.Time
}

type Option func(*Tracker)

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func NewTracker(rec Recorder, opts ...Option) *Tracker {
	t := &Tracker{
		rec:    rec,
		logger: slog.Default(),
		now:    time.Now,
		visits: make(map[string]visit),
		queue:  make(chan navigation, queueSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.run()
	return t
}

// run handles queued navigations one at a time, in arrival order.
func (t *Tracker) run() {
	for n := range t.queue {
		t.Navigate(n.ctx, n.id, n.path, n.referrer, n.userAgent)
	}
}

// enqueue hands a navigation to the worker. It never blocks; when the queue
// is full the page view is dropped.
func (t *Tracker) enqueue(n navigation) {
	select {
	case t.queue <- n:
	default:
		metrics.PageViews.WithLabelValues("dropped").Inc()
		t.logger.Warn("Analytics queue full, dropping page view", "path", n.path)
	}
}

// TrackPageView stores one page view. An empty referrer is stored as NULL.
func (t *Tracker) TrackPageView(ctx context.Context, id Identity, path, referrer, userAgent string) {
	if IsExcluded(path) {
		metrics.PageViews.WithLabelValues("skipped").Inc()
		return
	}
	sess := models.AnalyticsSession{
		SessionID: id.SessionID,
		VisitorID: id.VisitorID,
		PagePath:  path,
		UserAgent: userAgent,
	}
	if referrer != "" {
		sess.Referrer = &referrer
	}
	if err := t.rec.InsertSession(ctx, sess); err != nil {
		metrics.PageViews.WithLabelValues("failed").Inc()
		t.logger.Error("Failed to track page view", "path", path, "error", err)
		return
	}
	metrics.PageViews.WithLabelValues("recorded").Inc()
}

// TrackEvent stores a custom event that happened on path. eventType
// defaults to "click".
func (t *Tracker) TrackEvent(ctx context.Context, id Identity, path, name, label, eventType string) {
	if IsExcluded(path) {
		metrics.AnalyticsEvents.WithLabelValues("skipped").Inc()
		return
	}
	if eventType == "" {
		eventType = DefaultEventType
	}
	ev := models.AnalyticsEvent{
		SessionID: id.SessionID,
		EventType: eventType,
		EventName: name,
		PagePath:  path,
	}
	if label != "" {
		ev.EventLabel = &label
	}
	if err := t.rec.InsertEvent(ctx, ev); err != nil {
		metrics.AnalyticsEvents.WithLabelValues("failed").Inc()
		t.logger.Error("Failed to track event", "name", name, "error", err)
		return
	}
	metrics.AnalyticsEvents.WithLabelValues("recorded").Inc()
}

// UpdateSessionDuration sets the duration of the latest view of path in the
// session. An empty path targets the latest view of any page. Unknown
// sessions are ignored.
func (t *Tracker) UpdateSessionDuration(ctx context.Context, sessionID, path string, seconds int) {
	if sessionID == "" || seconds < 0 {
		return
	}
	found, err := t.rec.UpdateLatestSessionDuration(ctx, sessionID, path, seconds)
	if err != nil {
		t.logger.Error("Failed to update session duration", "session_id", sessionID, "path", path, "error", err)
		return
	}
	if !found {
		t.logger.Debug("No session row to update", "session_id", sessionID, "path", path)
	}
}

// Navigate is the route-change hook: it closes the previous page of the
// session with its elapsed time, then records the new page view.
func (t *Tracker) Navigate(ctx context.Context, id Identity, path, referrer, userAgent string) {
	if IsExcluded(path) {
		metrics.PageViews.WithLabelValues("skipped").Inc()
		return
	}
	now := t.now()

	t.mu.Lock()
	prev, hadPrev := t.visits[id.SessionID]
	t.visits[id.SessionID] = visit{path: path, started: now}
	t.pruneLocked(now)
	t.mu.Unlock()

	if hadPrev && now.Sub(prev.started) < visitTTL {
		t.UpdateSessionDuration(ctx, id.SessionID, prev.path, int(now.Sub(prev.started).Seconds()))
	}
	t.TrackPageView(ctx, id, path, referrer, userAgent)
}

func (t *Tracker) pruneLocked(now time.Time) {
	if now.Sub(t.lastPrune) < time.Minute {
		return
	}
	t.lastPrune = now
	for sid, v := range t.visits {
		if now.Sub(v.started) > visitTTL {
			delete(t.visits, sid)
		}
	}
}
