package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadResizesAndPosts(t *testing.T) {
	var gotWidth int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
			return
		}
		assert.Equal(t, "unsigned", r.FormValue("upload_preset"))
		assert.Equal(t, DefaultFolder, r.FormValue("folder"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		assert.True(t, strings.HasSuffix(hdr.Filename, ".jpg"))
		img, err := jpeg.Decode(f)
		if !assert.NoError(t, err) {
			return
		}
		gotWidth = img.Bounds().Dx()

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"public_id":"webstudio/abc","secure_url":"https://res.example.com/abc.jpg"}`)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL+"/", "demo", "unsigned")
	u.MaxWidth = 100

	url, err := u.Upload(context.Background(), "photo.PNG", bytes.NewReader(pngBytes(t, 400, 50)))
	require.NoError(t, err)
	assert.Equal(t, "https://res.example.com/abc.jpg", url)
	assert.Equal(t, 100, gotWidth)
}

func TestUploadFallsBackToPublicID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"public_id":"webstudio/xyz"}`)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "demo", "p")
	url, err := u.Upload(context.Background(), "a.png", bytes.NewReader(pngBytes(t, 10, 10)))
	require.NoError(t, err)
	assert.Equal(t, "webstudio/xyz", url)
}

func TestUploadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"message":"Upload preset not found"}}`)
	}))
	defer srv.Close()

	u := NewUploader(srv.URL, "demo", "p")

	_, err := u.Upload(context.Background(), "a.png", bytes.NewReader(pngBytes(t, 10, 10)))
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusBadRequest, ue.Status)
	assert.Contains(t, ue.Body, "preset")

	_, err = u.Upload(context.Background(), "a.gif", strings.NewReader("GIF89a"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = u.Upload(context.Background(), "a.png", strings.NewReader("not a png"))
	assert.Error(t, err)

	_, err = NewUploader("", "", "").Upload(context.Background(), "a.png", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
