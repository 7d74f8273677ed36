package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EMNTV/excellencemedianumerique/internal/common"
	"github.com/EMNTV/excellencemedianumerique/internal/logging"
	"github.com/EMNTV/excellencemedianumerique/internal/media"
	"github.com/EMNTV/excellencemedianumerique/internal/media/store"
	"github.com/EMNTV/excellencemedianumerique/internal/persistence"
	"github.com/EMNTV/excellencemedianumerique/internal/uploads"
)

type fakePersister struct {
	doc     *media.ContentDocument
	saveErr error
}

func (f *fakePersister) Save(_ context.Context, doc *media.ContentDocument) (persistence.SaveResult, error) {
	if f.saveErr != nil {
		return persistence.SaveResult{}, f.saveErr
	}
	f.doc = doc.Clone()
	return persistence.SaveResult{Tier: persistence.TierRemote}, nil
}

func (f *fakePersister) Load(_ context.Context) (persistence.LoadResult, error) {
	doc := f.doc
	if doc == nil {
		doc = media.DefaultDocument()
	}
	return persistence.LoadResult{Doc: doc.Clone(), Source: persistence.SourceRemote}, nil
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(context.Context, string, string, []byte) (string, error) {
	return f.url, f.err
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestApp(t *testing.T, loaded bool) (*fiber.App, *store.Store) {
	t.Helper()

	s := store.New(&fakePersister{}, testLogger())
	if loaded {
		_, err := s.Load(context.Background())
		require.NoError(t, err)
	}

	images := uploads.NewImageGateway(&fakeUploader{url: "https://host/images/a.png"}, testLogger())

	app := fiber.New()
	NewHandler(s, images, testLogger()).Register(app)
	return app, s
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestGetContent(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodGet, "/api/content", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc := decode[media.ContentDocument](t, resp)
	assert.NotNil(t, doc.PressData)
	assert.Equal(t, media.DefaultVideosPerPage, doc.Settings.VideosPerPage)
}

func TestUnloadedStoreReturns503(t *testing.T) {
	app, _ := newTestApp(t, false)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/content"},
		{http.MethodGet, "/api/stats"},
		{http.MethodDelete, "/api/admin/press/press_1_a"},
	} {
		resp := doJSON(t, app, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, tc.path)
	}
}

func TestAddPress(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/press", map[string]string{
		"title":       "A",
		"description": "B",
		"image":       "http://x/y.png",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	rec := decode[media.PressRecord](t, resp)
	assert.Regexp(t, `^press_\d+_\w+$`, rec.ID)
	assert.Equal(t, "A", rec.Title)
	assert.NotEmpty(t, rec.DateAdded)
}

func TestAddPressValidation(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/press", map[string]string{"title": "A"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddVideoNormalizesURL(t *testing.T) {
	app, s := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/emission", map[string]string{
		"title": "show",
		"url":   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	rec := decode[media.VideoRecord](t, resp)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", rec.URL)

	doc, err := s.Document()
	require.NoError(t, err)
	require.Len(t, doc.EmissionData, 1)
}

func TestAddVideoRejectsBadURL(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/spot", map[string]string{
		"title": "t",
		"url":   "https://vimeo.com/1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownCategory(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/blog", map[string]string{"title": "t", "url": "u"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateNotFound(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/press/press_0_ghost", map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdatePress(t *testing.T) {
	app, s := newTestApp(t, true)

	rec, err := s.AddPress(context.Background(), store.PressFields{Title: "old", Description: "d"})
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPatch, "/api/admin/press/"+rec.ID, map[string]string{"title": "new"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[media.PressRecord](t, resp)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "d", got.Description)
}

func TestDeleteIsIdempotent(t *testing.T) {
	app, s := newTestApp(t, true)

	rec, err := s.AddPress(context.Background(), store.PressFields{Title: "t", Description: "d"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, app, http.MethodDelete, "/api/admin/press/"+rec.ID, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestReorder(t *testing.T) {
	app, s := newTestApp(t, true)
	ctx := context.Background()

	a, err := s.AddVideo(ctx, media.CategorySpot, store.VideoFields{Title: "a", URL: "https://www.youtube.com/embed/a"})
	require.NoError(t, err)
	b, err := s.AddVideo(ctx, media.CategorySpot, store.VideoFields{Title: "b", URL: "https://www.youtube.com/embed/b"})
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/spot/order", map[string]any{"ids": []string{a.ID, b.ID}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := s.Document()
	require.NoError(t, err)
	require.Len(t, doc.SpotData, 2)
	assert.Equal(t, a.ID, doc.SpotData[0].ID)
}

func TestReorderEmptyListClearsCategory(t *testing.T) {
	app, s := newTestApp(t, true)

	_, err := s.AddPress(context.Background(), store.PressFields{Title: "t", Description: "d"})
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/press/order", map[string]any{"ids": []string{}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := s.Document()
	require.NoError(t, err)
	assert.Empty(t, doc.PressData)
}

func TestReorderRequiresIDsField(t *testing.T) {
	app, _ := newTestApp(t, true)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/press/order", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInternalErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	p := &fakePersister{saveErr: errors.New("disk full")}
	s := store.New(p, logger)
	// Load succeeds; only saves fail.
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	images := uploads.NewImageGateway(&fakeUploader{url: "u"}, logger)
	app := fiber.New()
	NewHandler(s, images, logger).Register(app)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/press", map[string]string{
		"title":       "t",
		"description": "d",
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, buf.String(), "request failed")
	assert.Contains(t, buf.String(), "disk full")
}

func TestCategoryPagination(t *testing.T) {
	app, s := newTestApp(t, true)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := s.AddVideo(ctx, media.CategoryNoComment, store.VideoFields{Title: title, URL: "https://www.youtube.com/embed/" + title})
		require.NoError(t, err)
	}

	resp := doJSON(t, app, http.MethodGet, "/api/content/nocomment?page=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := decode[struct {
		Items      []media.VideoRecord `json:"items"`
		Page       int                 `json:"page"`
		Total      int                 `json:"total"`
		TotalPages int                 `json:"totalPages"`
	}](t, resp)

	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "a", page.Items[0].Title)
}

func TestStats(t *testing.T) {
	app, s := newTestApp(t, true)

	_, err := s.AddPress(context.Background(), store.PressFields{Title: "t", Description: "d"})
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decode[store.Stats](t, resp)
	assert.Equal(t, 1, stats.Press)
	assert.NotEmpty(t, stats.LastUpdated)
}

func TestClear(t *testing.T) {
	app, s := newTestApp(t, true)

	_, err := s.AddPress(context.Background(), store.PressFields{Title: "t", Description: "d"})
	require.NoError(t, err)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/clear", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := s.Document()
	require.NoError(t, err)
	assert.Empty(t, doc.PressData)
}

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := w.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	app, _ := newTestApp(t, true)

	body, ct := multipartImage(t, "image", "a.png", "image/png", []byte("png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	up := decode[uploadResponse](t, resp)
	assert.Equal(t, "https://host/images/a.png", up.URL)
	assert.False(t, up.Placeholder)
}

func TestUploadImageRejectsNonImage(t *testing.T) {
	app, _ := newTestApp(t, true)

	body, ct := multipartImage(t, "image", "doc.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadImageMissingFile(t *testing.T) {
	app, _ := newTestApp(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", strings.NewReader(""))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUploadImagePlaceholderOnHostFailure(t *testing.T) {
	s := store.New(&fakePersister{}, testLogger())
	_, err := s.Load(context.Background())
	require.NoError(t, err)

	images := uploads.NewImageGateway(&fakeUploader{err: assert.AnError}, testLogger())
	app := fiber.New()
	NewHandler(s, images, testLogger()).Register(app)

	body, ct := multipartImage(t, "image", "a.png", "image/png", []byte("png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/admin/uploads", body)
	req.Header.Set("Content-Type", ct)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	up := decode[uploadResponse](t, resp)
	assert.Equal(t, common.PlaceholderImageURL, up.URL)
	assert.True(t, up.Placeholder)
}
