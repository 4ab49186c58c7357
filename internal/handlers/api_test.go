package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/webstudio/internal/analytics"
	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/notify"
)

const validContactJSON = `{"name":"Мария","email":"Maria@Example.com ","phone":"+373 60 123 456","project_type":"landing","message":"Нужен лендинг для кафе"}`

func TestAPIContact(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := app.postJSON(t, "/api/contact", validContactJSON)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var out struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "success", out.Status)
	assert.NotZero(t, out.ID)

	reqs, err := app.store.ListContactRequests(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "maria@example.com", reqs[0].Email)
	assert.Equal(t, models.StatusNew, reqs[0].Status)
}

func TestAPIContactValidation(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := app.postJSON(t, "/api/contact", `{"name":"M","email":"nope","phone":"12","project_type":"castle","message":"short"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Len(t, out.Fields, 5)

	resp, _ = app.postJSON(t, "/api/contact", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	reqs, err := app.store.ListContactRequests(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestAPINewsletterIsIdempotent(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := app.postJSON(t, "/api/newsletter", `{"email":"Fan@Example.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"success"}`, body)

	resp, body = app.postJSON(t, "/api/newsletter", `{"email":"fan@example.com"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"already_subscribed"}`, body)

	resp, _ = app.postJSON(t, "/api/newsletter", `{"email":"broken"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	subs, err := app.store.ListSubscribers(context.Background())
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestAPIContactInfo(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := app.get(t, "/api/contact-info")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, app.store.SaveContact(context.Background(), &models.Contact{Phone: "+373", Email: "hi@studio.example"}))
	resp, body := app.get(t, "/api/contact-info")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"email":"hi@studio.example"`)
}

func TestAPISendEmailWithoutRelay(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := app.postJSON(t, "/api/send-email", `{"type":"contact","payload":{"name":"x"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp, _ = app.postJSON(t, "/api/send-email", `{"type":"spam","payload":{}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type captureNotifier struct {
	got []notify.Notification
}

func (c *captureNotifier) Send(_ context.Context, n notify.Notification) error {
	c.got = append(c.got, n)
	return nil
}

func TestAPISendEmailReadsPayload(t *testing.T) {
	n := &captureNotifier{}
	h := &APIHandler{Inbox: &Inbox{Notifier: n}}

	body := `{"type":"contact","payload":{"name":"Ion","email":"ion@example.md"}}`
	rr := httptest.NewRecorder()
	h.SendEmail(rr, httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, n.got, 1)
	assert.Equal(t, notify.KindContact, n.got[0].Type)
	assert.Equal(t, map[string]string{"name": "Ion", "email": "ion@example.md"}, n.got[0].Payload)
}

func TestAPIAnalyticsEvent(t *testing.T) {
	app := newTestApp(t, nil)

	resp, _ := app.postJSON(t, "/api/analytics/event", `{"event_name":"phone_click","page_path":"/contact"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = app.postJSON(t, "/api/analytics/event", `{"page_path":"/contact"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	summary, err := app.store.GetAnalyticsSummary(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Events)

	u, err := url.Parse(app.srv.URL)
	require.NoError(t, err)
	names := map[string]bool{}
	for _, c := range app.client.Jar.Cookies(u) {
		names[c.Name] = true
	}
	assert.True(t, names[analytics.VisitorCookie])
	assert.True(t, names[analytics.SessionCookie])
}

func (a *testApp) sessionID(t *testing.T) string {
	t.Helper()
	u, err := url.Parse(a.srv.URL)
	require.NoError(t, err)
	for _, c := range a.client.Jar.Cookies(u) {
		if c.Name == analytics.SessionCookie {
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

// waitForViews waits for the background tracker to write n page views.
func (a *testApp) waitForViews(t *testing.T, sid string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		sessions, err := a.store.ListSessions(context.Background(), sid)
		return err == nil && len(sessions) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestAPIDurationUpdatesLatestPageView(t *testing.T) {
	app := newTestApp(t, nil)

	app.get(t, "/services")
	sid := app.sessionID(t)
	app.waitForViews(t, sid, 1)

	resp, _ := app.postJSON(t, "/api/analytics/duration", `{"duration":17}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	sessions, err := app.store.ListSessions(context.Background(), sid)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 17, sessions[0].Duration)

	resp, _ = app.postJSON(t, "/api/analytics/duration", `{"duration":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPIDurationTargetsBeaconPage(t *testing.T) {
	app := newTestApp(t, nil)

	app.get(t, "/services")
	sid := app.sessionID(t)
	app.get(t, "/blog")
	app.waitForViews(t, sid, 2)

	// A late beacon from /services must not land on the newer /blog row.
	resp, _ := app.postJSON(t, "/api/analytics/duration", `{"duration":42,"page_path":"/services"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	sessions, err := app.store.ListSessions(context.Background(), sid)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	byPath := map[string]int{}
	for _, s := range sessions {
		byPath[s.PagePath] = s.Duration
	}
	assert.Equal(t, 42, byPath["/services"])
	assert.Equal(t, 0, byPath["/blog"])
}

func TestContactFormFlashes(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := app.postForm(t, "/contact", url.Values{"name": {"A"}, "email": {"x"}})
	assert.Equal(t, "/contact", resp.Request.URL.Path)
	assert.Contains(t, body, "A valid email is required.")

	_, body = app.postForm(t, "/contact", url.Values{
		"name":         {"Мария"},
		"email":        {"maria@example.com"},
		"phone":        {"+373 60 123 456"},
		"project_type": {"shop"},
		"message":      {"Хочу интернет-магазин"},
	})
	assert.Contains(t, body, "Заявка отправлена")

	reqs, err := app.store.ListContactRequests(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, reqs, 1)
}

func TestNewsletterForm(t *testing.T) {
	app := newTestApp(t, nil)

	_, body := app.postForm(t, "/newsletter", url.Values{"email": {"fan@example.com"}})
	assert.Contains(t, body, "Вы подписались")

	_, body = app.postForm(t, "/newsletter", url.Values{"email": {"fan@example.com"}})
	assert.Contains(t, body, "Вы уже подписаны")
}

func TestFormRateLimit(t *testing.T) {
	app := newTestApp(t, nil)

	for i := 0; i < 3; i++ {
		resp, _ := app.postJSON(t, "/api/newsletter", `{"email":"broken"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	resp, _ := app.postJSON(t, "/api/newsletter", `{"email":"broken"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Other endpoints keep their own budget.
	resp, _ = app.postJSON(t, "/api/contact", validContactJSON)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
