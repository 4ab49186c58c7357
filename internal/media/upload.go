// Package media uploads images to a Cloudinary-compatible CDN.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	"github.com/alextreichler/webstudio/internal/metrics"
)

const (
	DefaultBaseURL  = "https://api.cloudinary.com/v1_1"
	DefaultFolder   = "webstudio"
	DefaultMaxWidth = 1600
)

var (
	ErrNotConfigured     = errors.New("image uploads are not configured")
	ErrUnsupportedFormat = errors.New("unsupported image format, only PNG, JPG and JPEG are allowed")
)

// UploadError is a non-2xx answer from the CDN.
type UploadError struct {
	Status int
	Body   string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed with status %d: %s", e.Status, e.Body)
}

type Uploader struct {
	BaseURL   string
	CloudName string
	Preset    string
	Folder    string
	MaxWidth  uint
	Client    *http.Client
	Logger    *slog.Logger
}

func NewUploader(baseURL, cloudName, preset string) *Uploader {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Uploader{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		CloudName: cloudName,
		Preset:    preset,
		Folder:    DefaultFolder,
		MaxWidth:  DefaultMaxWidth,
		Client:    &http.Client{Timeout: 30 * time.Second},
		Logger:    slog.Default(),
	}
}

// Enabled reports whether the cloud name and upload preset are set.
func (u *Uploader) Enabled() bool {
	return u != nil && u.CloudName != "" && u.Preset != ""
}

// Upload decodes a PNG or JPEG, shrinks it to MaxWidth when wider, re-encodes
// it as JPEG and posts it unsigned. It returns the public URL of the asset.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !u.Enabled() {
		return "", ErrNotConfigured
	}

	var img image.Image
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		img, err = png.Decode(r)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(r)
	default:
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		return "", ErrUnsupportedFormat
	}
	if err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("decode image: %w", err)
	}

	if u.MaxWidth > 0 && uint(img.Bounds().Dx()) > u.MaxWidth {
		img = resize.Resize(u.MaxWidth, 0, img, resize.Lanczos3)
	}

	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 82}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}

	url, err := u.post(ctx, uuid.NewString()+".jpg", &encoded)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		u.Logger.Error("Image upload failed", "filename", filename, "error", err)
		return "", err
	}
	metrics.ImageUploads.WithLabelValues("ok").Inc()
	return url, nil
}

func (u *Uploader) post(ctx context.Context, name string, file io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := mw.WriteField("upload_preset", u.Preset); err != nil {
		return "", err
	}
	if u.Folder != "" {
		if err := mw.WriteField("folder", u.Folder); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", u.BaseURL, u.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UploadError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.PublicID != "" {
		return out.PublicID, nil
	}
	return "", errors.New("upload response has no url")
}
