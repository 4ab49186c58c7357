package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/pagination"
	"github.com/alextreichler/webstudio/internal/store"
	"github.com/alextreichler/webstudio/internal/translate"
)

const (
	maxUploadSize = 10 << 20 // 10MB
	// Room for the text fields next to a full-size upload.
	maxRequestBody = maxUploadSize + 1<<20
)

// parseForm accepts both multipart and urlencoded bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadSize)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// formError turns a parseForm error into a flash message.
func formError(err error) string {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "File too large. Max 10MB."
	}
	return "Invalid form data."
}

// uploadFormImage uploads the file in field, if any. It returns "" when
// the field is empty or the body is urlencoded.
func (h *AdminHandler) uploadFormImage(ctx context.Context, r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if h.Uploader == nil || !h.Uploader.Enabled() {
		return "", errors.New("image uploads are not configured")
	}
	return h.Uploader.Upload(ctx, header.Filename, file)
}

func hasFile(r *http.Request, field string) bool {
	return r.MultipartForm != nil && len(r.MultipartForm.File[field]) > 0
}

// translationFailure renders a translation error for a flash message.
func translationFailure(err error) string {
	var te *translate.Error
	if errors.As(err, &te) {
		return fmt.Sprintf("Translation to %s failed for %q. Nothing was saved.", te.Locale, te.Field)
	}
	return "Translation failed. Nothing was saved."
}

func (h *AdminHandler) translate(ctx context.Context, fields []translate.Field) (translate.Result, error) {
	if h.Translator == nil {
		return nil, errors.New("translation is not configured")
	}
	return h.Translator.Translate(ctx, fields)
}

func (h *AdminHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Store.ListArticles(r.Context())
	if err != nil {
		slog.Error("Failed to list articles", "error", err)
		http.Error(w, "Error fetching articles", http.StatusInternalServerError)
		return
	}
	pager := pagination.New(articles, h.PageSize)
	pager.GoToPage(parsePositiveInt(r.URL.Query().Get("page"), 1))

	data := h.adminData(w, r, "articles")
	data["Articles"] = pager.CurrentData()
	data["Pager"] = pager
	render(w, h.Templates, "admin_articles.html", data)
}

func (h *AdminHandler) NewArticleForm(w http.ResponseWriter, r *http.Request) {
	data := h.adminData(w, r, "articles")
	data["Article"] = models.Article{CategoryKey: models.CategoryTips, ReadTime: 5}
	data["Categories"] = models.CategoryKeys
	data["Action"] = "/admin/articles"
	render(w, h.Templates, "admin_article_form.html", data)
}

func (h *AdminHandler) EditArticleForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/articles", "error", "Invalid ID.")
		return
	}
	article, err := h.Store.GetArticle(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.redirectWithFlash(w, r, "/admin/articles", "error", "Article not found.")
		return
	}
	if err != nil {
		slog.Error("Failed to get article", "id", id, "error", err)
		http.Error(w, "Error fetching article", http.StatusInternalServerError)
		return
	}

	data := h.adminData(w, r, "articles")
	data["Article"] = article
	data["Categories"] = models.CategoryKeys
	data["Action"] = "/admin/articles/update"
	render(w, h.Templates, "admin_article_form.html", data)
}

func articleFromForm(r *http.Request) (models.Article, map[string]string) {
	a := models.Article{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Excerpt:     strings.TrimSpace(r.FormValue("excerpt")),
		Content:     strings.TrimSpace(r.FormValue("content")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		CategoryKey: models.CategoryKey(r.FormValue("category_key")),
		Date:        strings.TrimSpace(r.FormValue("date")),
		Image:       strings.TrimSpace(r.FormValue("image_url")),
	}

	errs := make(map[string]string)
	if a.Title == "" {
		errs["title"] = "Title is required."
	}
	if a.Excerpt == "" {
		errs["excerpt"] = "Excerpt is required."
	}
	if a.Content == "" {
		errs["content"] = "Content is required."
	}
	if a.Category == "" {
		errs["category"] = "Category is required."
	}
	if !a.CategoryKey.Valid() {
		errs["category_key"] = "Invalid category selected."
	}
	readTime, err := strconv.Atoi(r.FormValue("read_time"))
	if err != nil || readTime <= 0 {
		errs["read_time"] = "Read time must be a positive number of minutes."
	}
	a.ReadTime = readTime
	if a.Image == "" && !hasFile(r, "image") {
		errs["image"] = "Image is required."
	}
	return a, errs
}

// saveArticle runs upload, then translation, then one store write. A
// failure at any stage leaves the store untouched.
func (h *AdminHandler) saveArticle(w http.ResponseWriter, r *http.Request, id int64) {
	back := "/admin/articles/new"
	if id != 0 {
		back = fmt.Sprintf("/admin/articles/edit?id=%d", id)
	}

	if err := parseForm(r); err != nil {
		h.redirectWithFlash(w, r, back, "error", formError(err))
		return
	}
	a, errs := articleFromForm(r)
	if len(errs) > 0 {
		session, _ := h.SessionStore.Get(r, adminSessionName)
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		session.Save(r, w)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	a.ID = id

	ctx := r.Context()
	url, err := h.uploadFormImage(ctx, r, "image")
	if err != nil {
		slog.Error("Failed to upload article image", "error", err)
		h.redirectWithFlash(w, r, back, "error", "Image upload failed: "+err.Error())
		return
	}
	if url != "" {
		a.Image = url
	}

	res, err := h.translate(ctx, translate.ArticleFields(a))
	if err != nil {
		slog.Error("Failed to translate article", "id", id, "error", err)
		h.redirectWithFlash(w, r, back, "error", translationFailure(err))
		return
	}
	a.Translations = res.Article()

	if id == 0 {
		err = h.Store.CreateArticle(ctx, &a)
	} else {
		err = h.Store.UpdateArticle(ctx, &a)
	}
	if errors.Is(err, store.ErrNotFound) {
		h.redirectWithFlash(w, r, "/admin/articles", "error", "Article not found.")
		return
	}
	if err != nil {
		slog.Error("Failed to save article", "id", id, "error", err)
		h.redirectWithFlash(w, r, back, "error", "Error saving article to database.")
		return
	}

	slog.Info("Article saved", "id", a.ID)
	h.redirectWithFlash(w, r, "/admin/articles", "success", "Article saved successfully!")
}

func (h *AdminHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	h.saveArticle(w, r, 0)
}

func (h *AdminHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.redirectWithFlash(w, r, "/admin/articles", "error", formError(err))
		return
	}
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/articles", "error", "Invalid ID.")
		return
	}
	h.saveArticle(w, r, id)
}

func (h *AdminHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/articles", "error", "Invalid ID.")
		return
	}
	if err := h.Store.DeleteArticle(r.Context(), id); err != nil {
		slog.Error("Failed to delete article", "id", id, "error", err)
		h.redirectWithFlash(w, r, "/admin/articles", "error", "Error deleting article.")
		return
	}
	h.redirectWithFlash(w, r, "/admin/articles", "success", "Article deleted successfully!")
}
