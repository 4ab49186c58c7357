package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/webstudio/internal/i18n"
	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/translate"
)

func articleForm() url.Values {
	return url.Values{
		"title":        {"Сколько стоит сайт"},
		"excerpt":      {"Разбираем цены"},
		"content":      {"Подробный текст"},
		"category":     {"Цены"},
		"category_key": {"prices"},
		"read_time":    {"4"},
		"date":         {"05.01.2024"},
		"image_url":    {"https://cdn.example.com/a.jpg"},
	}
}

// llmServer is a chat completion endpoint that fails every Romanian prompt.
func llmServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "Romanian") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": "translated"},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAdminRequiresLogin(t *testing.T) {
	app := newTestApp(t, nil)

	for _, path := range []string{"/admin", "/admin/articles", "/admin/requests", "/metrics"} {
		resp, body := app.get(t, path)
		assert.Equal(t, "/admin/login", resp.Request.URL.Path, path)
		assert.Contains(t, body, "You must be logged in", path)
	}
}

func TestLoginAndLogout(t *testing.T) {
	app := newTestApp(t, nil)
	app.login(t)

	resp, body := app.get(t, "/admin/articles")
	assert.Equal(t, "/admin/articles", resp.Request.URL.Path)
	assert.Contains(t, body, "Articles")

	resp, body = app.postForm(t, "/admin/logout", nil)
	assert.Equal(t, "/admin/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Logged out successfully!")

	resp, _ = app.get(t, "/admin")
	assert.Equal(t, "/admin/login", resp.Request.URL.Path)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	app := newTestApp(t, nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, app.store.CreateUser(context.Background(), "admin", string(hash)))

	resp, body := app.postForm(t, "/admin/login", url.Values{"username": {"admin"}, "password": {"wrong"}})
	assert.Equal(t, "/admin/login", resp.Request.URL.Path)
	assert.Contains(t, body, "Invalid username or password")

	_, body = app.postForm(t, "/admin/login", url.Values{"username": {"ghost"}, "password": {"secret"}})
	assert.Contains(t, body, "Invalid username or password")
}

func TestLegacyPasswordIsUpgraded(t *testing.T) {
	app := newTestApp(t, nil)
	ctx := context.Background()
	sum := sha256.Sum256([]byte("old-secret"))
	require.NoError(t, app.store.CreateUser(ctx, "admin", hex.EncodeToString(sum[:])))

	resp, _ := app.postForm(t, "/admin/login", url.Values{"username": {"admin"}, "password": {"old-secret"}})
	assert.Equal(t, "/admin", resp.Request.URL.Path)

	user, err := app.store.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("old-secret")))
}

func TestVerifyPassword(t *testing.T) {
	bc, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	sum := sha256.Sum256([]byte("pw"))
	legacyHash := hex.EncodeToString(sum[:])

	tests := []struct {
		name       string
		stored     string
		password   string
		wantOK     bool
		wantLegacy bool
	}{
		{"bcrypt match", string(bc), "pw", true, false},
		{"bcrypt mismatch", string(bc), "nope", false, false},
		{"legacy match", legacyHash, "pw", true, true},
		{"legacy mismatch", legacyHash, "nope", false, true},
		{"garbage", "not-a-hash", "pw", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, legacy := verifyPassword(tt.stored, tt.password)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLegacy, legacy)
		})
	}
}

func TestCreateArticleTranslates(t *testing.T) {
	tr := &stubTranslator{}
	app := newTestApp(t, tr)
	app.login(t)

	resp, body := app.postForm(t, "/admin/articles", articleForm())
	assert.Equal(t, "/admin/articles", resp.Request.URL.Path)
	assert.Contains(t, body, "Article saved successfully!")
	assert.Equal(t, 1, tr.calls)

	articles, err := app.store.ListArticles(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 1)
	a := articles[0]
	assert.Equal(t, "Сколько стоит сайт", a.Title)
	assert.Equal(t, models.CategoryPrices, a.CategoryKey)
	assert.Equal(t, 4, a.ReadTime)
	assert.Equal(t, "ro: Сколько стоит сайт", a.Translations[i18n.RO].Title)
	assert.Equal(t, "en: Разбираем цены", a.Translations[i18n.EN].Excerpt)
}

func TestUrlencodedUpdateKeepsImageURL(t *testing.T) {
	tr := &stubTranslator{}
	app := newTestApp(t, tr)
	app.login(t)
	a := seedArticle(t, app.store, "Исходная", models.CategoryTips)

	form := articleForm()
	form.Set("id", itoa(a.ID))
	form.Set("title", "Новая")
	_, body := app.postForm(t, "/admin/articles/update", form)
	assert.Contains(t, body, "Article saved successfully!")
	assert.Equal(t, 1, tr.calls)

	got, err := app.store.GetArticle(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Новая", got.Title)
	assert.Equal(t, "https://cdn.example.com/a.jpg", got.Image)
	assert.Equal(t, "ro: Новая", got.Translations[i18n.RO].Title)
}

func TestUploadFormImageWithoutFile(t *testing.T) {
	h := &AdminHandler{}

	r := httptest.NewRequest(http.MethodPost, "/admin/articles", strings.NewReader("title=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, parseForm(r))
	got, err := h.uploadFormImage(context.Background(), r, "image")
	require.NoError(t, err)
	assert.Empty(t, got)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "x"))
	require.NoError(t, mw.Close())
	r = httptest.NewRequest(http.MethodPost, "/admin/articles", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, parseForm(r))
	got, err = h.uploadFormImage(context.Background(), r, "image")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOversizedFormIsRejected(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "big.jpg")
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte{0xff}, 4096))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	var msg string
	h := middleware.RequestSize(1024)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := parseForm(r); err != nil {
			msg = formError(err)
		}
	}))
	r := httptest.NewRequest(http.MethodPost, "/admin/articles", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	h.ServeHTTP(httptest.NewRecorder(), r)

	assert.Equal(t, "File too large. Max 10MB.", msg)
	assert.Equal(t, "Invalid form data.", formError(errors.New("unexpected EOF")))
}

func TestFailedTranslationSavesNothing(t *testing.T) {
	llm := llmServer(t)
	app := newTestApp(t, translate.NewOpenAI("test-key", llm.URL+"/v1", "test"))
	app.login(t)

	resp, body := app.postForm(t, "/admin/articles", articleForm())
	assert.Equal(t, "/admin/articles/new", resp.Request.URL.Path)
	assert.Contains(t, body, "Nothing was saved.")

	articles, err := app.store.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestFailedTranslationKeepsExistingArticle(t *testing.T) {
	app := newTestApp(t, translate.NewOpenAI("test-key", llmServer(t).URL+"/v1", "test"))
	app.login(t)
	a := seedArticle(t, app.store, "Исходная", models.CategoryTips)

	form := articleForm()
	form.Set("id", itoa(a.ID))
	form.Set("title", "Изменённая")
	resp, body := app.postForm(t, "/admin/articles/update", form)
	assert.Equal(t, "/admin/articles/edit", resp.Request.URL.Path)
	assert.Contains(t, body, "Nothing was saved.")

	got, err := app.store.GetArticle(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Исходная", got.Title)
	assert.Equal(t, "Исходная RO", got.Translations[i18n.RO].Title)
}

func TestCreateArticleValidation(t *testing.T) {
	tr := &stubTranslator{}
	app := newTestApp(t, tr)
	app.login(t)

	form := articleForm()
	form.Set("category_key", "gossip")
	form.Set("read_time", "0")
	_, body := app.postForm(t, "/admin/articles", form)
	assert.Contains(t, body, "Invalid category selected.")
	assert.Contains(t, body, "Read time must be a positive number of minutes.")
	assert.Zero(t, tr.calls)
}

func TestCreateArticleWithoutTranslatorFails(t *testing.T) {
	app := newTestApp(t, nil)
	app.login(t)

	_, body := app.postForm(t, "/admin/articles", articleForm())
	assert.Contains(t, body, "Nothing was saved.")

	articles, err := app.store.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestDeleteArticle(t *testing.T) {
	app := newTestApp(t, nil)
	app.login(t)
	a := seedArticle(t, app.store, "Удалить", models.CategoryTips)

	_, body := app.postForm(t, "/admin/articles/delete", url.Values{"id": {itoa(a.ID)}})
	assert.Contains(t, body, "Article deleted successfully!")

	articles, err := app.store.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestProjectCreateAndMove(t *testing.T) {
	tr := &stubTranslator{}
	app := newTestApp(t, tr)
	app.login(t)

	for _, title := range []string{"Alpha", "Beta"} {
		_, body := app.postForm(t, "/admin/projects", url.Values{
			"title":     {title},
			"type":      {"landing"},
			"category":  {"Лендинг"},
			"image_url": {"https://cdn.example.com/" + title + ".jpg"},
			"problem":   {"Задача"},
			"solution":  {"Решение"},
			"result":    {"Результат"},
		})
		require.Contains(t, body, "Project saved successfully!")
	}

	ctx := context.Background()
	projects, err := app.store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "Alpha", projects[0].Title)
	assert.Equal(t, "Alpha", projects[0].Translations[i18n.RO].Title)
	assert.Equal(t, "en: Задача", projects[0].Translations[i18n.EN].Problem)

	app.postForm(t, "/admin/projects/move", url.Values{"id": {itoa(projects[1].ID)}, "dir": {"up"}})

	projects, err = app.store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Beta", projects[0].Title)
	assert.Equal(t, "Alpha", projects[1].Title)
}

func TestRequestStatusWorkflow(t *testing.T) {
	app := newTestApp(t, nil)
	app.login(t)
	ctx := context.Background()

	req := &models.ContactRequest{Name: "Иван", Email: "ivan@example.com", Phone: "+37360000000", ProjectType: models.InquiryShop, Message: "Нужен магазин"}
	require.NoError(t, app.store.CreateContactRequest(ctx, req))

	_, body := app.get(t, "/admin/requests")
	assert.Contains(t, body, "ivan@example.com")

	_, body = app.postForm(t, "/admin/requests/status", url.Values{"id": {itoa(req.ID)}, "status": {"processed"}})
	assert.Contains(t, body, "Request status updated.")

	_, body = app.postForm(t, "/admin/requests/status", url.Values{"id": {itoa(req.ID)}, "status": {"lost"}})
	assert.Contains(t, body, "Invalid status.")

	processed, err := app.store.ListContactRequests(ctx, models.StatusProcessed)
	require.NoError(t, err)
	require.Len(t, processed, 1)

	_, body = app.get(t, "/admin/requests?status=new")
	assert.NotContains(t, body, "ivan@example.com")
}

func TestSaveContactInfo(t *testing.T) {
	app := newTestApp(t, nil)
	app.login(t)

	_, body := app.postForm(t, "/admin/contact", url.Values{"phone": {"+373 60 000 000"}, "email": {"bad"}})
	assert.Contains(t, body, "Phone and a valid email are required.")

	_, body = app.postForm(t, "/admin/contact", url.Values{
		"phone":         {"+373 60 000 000"},
		"email":         {"hello@studio.example"},
		"telegram_link": {"https://t.me/studio"},
	})
	assert.Contains(t, body, "Contact info saved.")

	c, err := app.store.GetContact(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello@studio.example", c.Email)
	assert.Nil(t, c.FacebookLink)

	_, body = app.get(t, "/")
	assert.Contains(t, body, "hello@studio.example")
}

func TestDashboardAndAnalytics(t *testing.T) {
	app := newTestApp(t, nil)
	app.login(t)
	seedArticle(t, app.store, "Статья", models.CategoryTips)

	_, body := app.get(t, "/admin")
	assert.Contains(t, body, "<strong>1</strong> articles")

	resp, _ := app.get(t, "/admin/analytics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.get(t, "/admin/subscribers")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = app.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "http_requests_total")
}
