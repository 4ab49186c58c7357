package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/pagination"
	"github.com/alextreichler/webstudio/internal/store"
	"github.com/alextreichler/webstudio/internal/translate"
)

func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		slog.Error("Failed to list projects", "error", err)
		http.Error(w, "Error fetching projects", http.StatusInternalServerError)
		return
	}
	pager := pagination.New(projects, h.PageSize)
	pager.GoToPage(parsePositiveInt(r.URL.Query().Get("page"), 1))

	data := h.adminData(w, r, "projects")
	data["Projects"] = pager.CurrentData()
	data["Pager"] = pager
	render(w, h.Templates, "admin_projects.html", data)
}

func (h *AdminHandler) NewProjectForm(w http.ResponseWriter, r *http.Request) {
	data := h.adminData(w, r, "projects")
	data["Project"] = models.Project{Type: models.ProjectLanding}
	data["Types"] = models.ProjectTypes
	data["Action"] = "/admin/projects"
	render(w, h.Templates, "admin_project_form.html", data)
}

func (h *AdminHandler) EditProjectForm(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.URL.Query().Get("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Invalid ID.")
		return
	}
	project, err := h.Store.GetProject(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Project not found.")
		return
	}
	if err != nil {
		slog.Error("Failed to get project", "id", id, "error", err)
		http.Error(w, "Error fetching project", http.StatusInternalServerError)
		return
	}

	data := h.adminData(w, r, "projects")
	data["Project"] = project
	data["Types"] = models.ProjectTypes
	data["Action"] = "/admin/projects/update"
	render(w, h.Templates, "admin_project_form.html", data)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// splitList splits on commas and newlines, dropping blanks.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' })
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func projectFromForm(r *http.Request) (models.Project, map[string]string) {
	p := models.Project{
		Type:         models.ProjectType(r.FormValue("type")),
		Title:        strings.TrimSpace(r.FormValue("title")),
		Category:     strings.TrimSpace(r.FormValue("category")),
		Image:        strings.TrimSpace(r.FormValue("image_url")),
		Images:       splitList(r.FormValue("image_urls")),
		Problem:      strings.TrimSpace(r.FormValue("problem")),
		Solution:     strings.TrimSpace(r.FormValue("solution")),
		Result:       strings.TrimSpace(r.FormValue("result")),
		Website:      optional(r.FormValue("website")),
		Technologies: splitList(r.FormValue("technologies")),
		Client:       optional(r.FormValue("client")),
		Date:         optional(r.FormValue("date")),
	}

	errs := make(map[string]string)
	if !p.Type.Valid() {
		errs["type"] = "Invalid project type selected."
	}
	if p.Title == "" {
		errs["title"] = "Title is required."
	}
	if p.Category == "" {
		errs["category"] = "Category is required."
	}
	if p.Problem == "" || p.Solution == "" || p.Result == "" {
		errs["story"] = "Problem, solution and result are required."
	}
	if p.Image == "" && !hasFile(r, "image") {
		errs["image"] = "Main image is required."
	}
	return p, errs
}

// uploadGallery uploads every file of the "images" field in form order.
func (h *AdminHandler) uploadGallery(ctx context.Context, r *http.Request) ([]string, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) == 0 {
		return nil, nil
	}
	if h.Uploader == nil || !h.Uploader.Enabled() {
		return nil, errors.New("image uploads are not configured")
	}

	urls := make([]string, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		url, err := h.Uploader.Upload(ctx, fh.Filename, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// saveProject runs uploads, then translation, then one store write.
func (h *AdminHandler) saveProject(w http.ResponseWriter, r *http.Request, id int64) {
	back := "/admin/projects/new"
	if id != 0 {
		back = fmt.Sprintf("/admin/projects/edit?id=%d", id)
	}

	if err := parseForm(r); err != nil {
		h.redirectWithFlash(w, r, back, "error", formError(err))
		return
	}
	p, errs := projectFromForm(r)
	if len(errs) > 0 {
		session, _ := h.SessionStore.Get(r, adminSessionName)
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		session.Save(r, w)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	p.ID = id

	ctx := r.Context()
	cover, err := h.uploadFormImage(ctx, r, "image")
	if err != nil {
		slog.Error("Failed to upload project image", "error", err)
		h.redirectWithFlash(w, r, back, "error", "Image upload failed: "+err.Error())
		return
	}
	if cover != "" {
		p.Image = cover
	}
	gallery, err := h.uploadGallery(ctx, r)
	if err != nil {
		slog.Error("Failed to upload project gallery", "error", err)
		h.redirectWithFlash(w, r, back, "error", "Image upload failed: "+err.Error())
		return
	}
	p.Images = append(p.Images, gallery...)

	res, err := h.translate(ctx, translate.ProjectFields(p))
	if err != nil {
		slog.Error("Failed to translate project", "id", id, "error", err)
		h.redirectWithFlash(w, r, back, "error", translationFailure(err))
		return
	}
	p.Translations = res.Project(p.Title)

	if id == 0 {
		err = h.Store.CreateProject(ctx, &p)
	} else {
		err = h.Store.UpdateProject(ctx, &p)
	}
	if errors.Is(err, store.ErrNotFound) {
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Project not found.")
		return
	}
	if err != nil {
		slog.Error("Failed to save project", "id", id, "error", err)
		h.redirectWithFlash(w, r, back, "error", "Error saving project to database.")
		return
	}

	slog.Info("Project saved", "id", p.ID)
	h.redirectWithFlash(w, r, "/admin/projects", "success", "Project saved successfully!")
}

func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	h.saveProject(w, r, 0)
}

func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		h.redirectWithFlash(w, r, "/admin/projects", "error", formError(err))
		return
	}
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Invalid ID.")
		return
	}
	h.saveProject(w, r, id)
}

func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Invalid ID.")
		return
	}
	if err := h.Store.DeleteProject(r.Context(), id); err != nil {
		slog.Error("Failed to delete project", "id", id, "error", err)
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Error deleting project.")
		return
	}
	h.redirectWithFlash(w, r, "/admin/projects", "success", "Project deleted successfully!")
}

// MoveProject swaps the project's priority with its neighbour.
func (h *AdminHandler) MoveProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Invalid ID.")
		return
	}
	dir := store.Down
	if r.FormValue("dir") == "up" {
		dir = store.Up
	}

	moved, err := h.Store.MoveProject(r.Context(), id, dir)
	if err != nil {
		slog.Error("Failed to move project", "id", id, "error", err)
		h.redirectWithFlash(w, r, "/admin/projects", "error", "Error reordering projects.")
		return
	}
	if !moved {
		h.redirectWithFlash(w, r, "/admin/projects", "info", "Project is already at the edge of the list.")
		return
	}
	http.Redirect(w, r, "/admin/projects", http.StatusSeeOther)
}
