package analytics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/webstudio/internal/models"
)

type fakeRecorder struct {
	mu        sync.Mutex
	sessions  []models.AnalyticsSession
	events    []models.AnalyticsEvent
	durations map[string]int // by "session path"
	fail      bool
}

func (f *fakeRecorder) InsertSession(_ context.Context, s models.AnalyticsSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("db down")
	}
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeRecorder) InsertEvent(_ context.Context, e models.AnalyticsEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("db down")
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeRecorder) UpdateLatestSessionDuration(_ context.Context, sessionID, pagePath string, seconds int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.durations == nil {
		f.durations = make(map[string]int)
	}
	for i := len(f.sessions) - 1; i >= 0; i-- {
		s := f.sessions[i]
		if s.SessionID == sessionID && (pagePath == "" || s.PagePath == pagePath) {
			f.durations[sessionID+" "+s.PagePath] = seconds
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecorder) duration(key string) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.durations[key]
	return d, ok
}

func (f *fakeRecorder) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sessions))
	for _, s := range f.sessions {
		out = append(out, s.PagePath)
	}
	return out
}

func (f *fakeRecorder) sessionCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sessions)
}

var testID = Identity{VisitorID: "v-1", SessionID: "s-1"}

func TestAdminPathsAreNeverRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	tr := NewTracker(rec)
	ctx := context.Background()

	tr.TrackPageView(ctx, testID, "/admin/articles", "", "ua")
	tr.TrackPageView(ctx, testID, "/admin", "", "ua")
	tr.TrackEvent(ctx, testID, "/admin/projects", "save", "", "")
	tr.Navigate(ctx, testID, "/admin/dashboard", "", "ua")

	assert.Empty(t, rec.sessions)
	assert.Empty(t, rec.events)
}

func TestTrackPageView(t *testing.T) {
	rec := &fakeRecorder{}
	tr := NewTracker(rec)

	tr.TrackPageView(context.Background(), testID, "/blog", "", "Mozilla")
	tr.TrackPageView(context.Background(), testID, "/contact", "https://google.com", "Mozilla")

	require.Len(t, rec.sessions, 2)
	assert.Nil(t, rec.sessions[0].Referrer)
	assert.Equal(t, "v-1", rec.sessions[0].VisitorID)
	require.NotNil(t, rec.sessions[1].Referrer)
	assert.Equal(t, "https://google.com", *rec.sessions[1].Referrer)
}

func TestTrackEventDefaultsToClick(t *testing.T) {
	rec := &fakeRecorder{}
	tr := NewTracker(rec)

	tr.TrackEvent(context.Background(), testID, "/", "cta", "", "")
	tr.TrackEvent(context.Background(), testID, "/", "form", "contact", "submit")

	require.Len(t, rec.events, 2)
	assert.Equal(t, "click", rec.events[0].EventType)
	assert.Nil(t, rec.events[0].EventLabel)
	assert.Equal(t, "submit", rec.events[1].EventType)
	assert.Equal(t, "contact", *rec.events[1].EventLabel)
}

func TestFailuresAreSwallowed(t *testing.T) {
	rec := &fakeRecorder{fail: true}
	tr := NewTracker(rec)

	assert.NotPanics(t, func() {
		tr.TrackPageView(context.Background(), testID, "/", "", "")
		tr.TrackEvent(context.Background(), testID, "/", "x", "", "")
	})
}

func TestNavigateRecordsPreviousDuration(t *testing.T) {
	rec := &fakeRecorder{}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tr := NewTracker(rec, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	tr.Navigate(ctx, testID, "/", "", "ua")
	assert.Empty(t, rec.durations)

	now = now.Add(42 * time.Second)
	tr.Navigate(ctx, testID, "/services", "", "ua")

	assert.Equal(t, 42, rec.durations["s-1 /"])
	_, ok := rec.durations["s-1 /services"]
	assert.False(t, ok)
	require.Len(t, rec.sessions, 2)
	assert.Equal(t, "/services", rec.sessions[1].PagePath)
}

func TestUpdateSessionDurationUnknownSession(t *testing.T) {
	rec := &fakeRecorder{}
	tr := NewTracker(rec)

	tr.UpdateSessionDuration(context.Background(), "missing", "", 10)
	assert.Empty(t, rec.durations)
}

func TestUpdateSessionDurationTargetsPath(t *testing.T) {
	rec := &fakeRecorder{}
	tr := NewTracker(rec)
	ctx := context.Background()

	tr.TrackPageView(ctx, testID, "/services", "", "ua")
	tr.TrackPageView(ctx, testID, "/blog", "", "ua")
	tr.UpdateSessionDuration(ctx, testID.SessionID, "/services", 42)

	assert.Equal(t, map[string]int{"s-1 /services": 42}, rec.durations)
}

func TestMiddlewareKeepsRequestOrder(t *testing.T) {
	rec := &fakeRecorder{}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var clock sync.Mutex
	tr := NewTracker(rec, WithClock(func() time.Time {
		clock.Lock()
		defer clock.Unlock()
		now = now.Add(5 * time.Second)
		return now
	}))
	h := tr.Middleware(NewCookieIdentity(false, ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var cookies []*http.Cookie
	want := []string{"/", "/services", "/blog", "/contact", "/portfolio"}
	for _, path := range want {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if cookies == nil {
			cookies = rr.Result().Cookies()
		}
	}

	require.Eventually(t, func() bool { return rec.sessionCount() == len(want) }, time.Second, 10*time.Millisecond)
	assert.Equal(t, want, rec.paths())

	var sid string
	for _, c := range cookies {
		if c.Name == SessionCookie {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)
	for _, path := range want[:len(want)-1] {
		d, ok := rec.duration(sid + " " + path)
		assert.True(t, ok, path)
		assert.Equal(t, 5, d, path)
	}
	_, ok := rec.duration(sid + " /portfolio")
	assert.False(t, ok)
}

func TestMiddleware(t *testing.T) {
	rec := &fakeRecorder{}
	tr := NewTracker(rec)
	h := tr.Middleware(NewCookieIdentity(false, ""))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/portfolio", nil))

	names := map[string]bool{}
	for _, c := range rr.Result().Cookies() {
		names[c.Name] = true
	}
	assert.True(t, names[VisitorCookie])
	assert.True(t, names[SessionCookie])

	assert.Eventually(t, func() bool { return rec.sessionCount() == 1 }, time.Second, 10*time.Millisecond)

	for _, path := range []string{"/admin/login", "/static/app.css", "/api/contact-info"} {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Empty(t, rr.Result().Cookies(), path)
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.sessionCount())
}

func TestCookieIdentityReusesCookies(t *testing.T) {
	ci := NewCookieIdentity(true, "")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	first := ci.Resolve(rr, req)

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		req2.AddCookie(c)
	}
	rr2 := httptest.NewRecorder()
	second := ci.Resolve(rr2, req2)

	assert.Equal(t, first, second)
	assert.Empty(t, rr2.Result().Cookies())
	assert.NotEqual(t, first.VisitorID, first.SessionID)
}
