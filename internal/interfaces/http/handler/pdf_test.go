package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/application/printing"
	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/resilience"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
	"github.com/oqd/pdfservice/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPDF = []byte("%PDF-1.4\n%test document\n%%EOF")

// fakeRasterizer fails the first `failures` calls and then returns testPDF
type fakeRasterizer struct {
	mu       sync.Mutex
	calls    int
	failures int
	last     *infra.RenderRequest
}

func (f *fakeRasterizer) Render(_ context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	if f.calls <= f.failures {
		return nil, fmt.Errorf("chrome crashed (attempt %d)", f.calls)
	}
	return &infra.RenderResult{PDFData: testPDF, PageCount: 1}, nil
}

func (f *fakeRasterizer) Close() error { return nil }

func (f *fakeRasterizer) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newPDFRouter(t *testing.T, renderer infra.PDFRenderer, base BaseHandler, opts ...PDFHandlerOption) *gin.Engine {
	t.Helper()
	store, err := infra.NewTemplateStore(nil)
	require.NoError(t, err)

	service := printing.NewRenderService(infra.NewTemplateEngine(store), renderer, zap.NewNop(),
		printing.WithLogo(func() string { return "data:image/svg+xml;base64,PHN2Zy8+" }))

	if base.MaxFileSize == 0 {
		base.MaxFileSize = 10 << 20
		base.MaxRequestSize = 50 << 20
	}

	engine := gin.New()
	router.NewRouter(engine).Register(PDFRoutes(NewPDFHandler(service, base, opts...))).Setup()
	return engine
}

func postJSON(engine *gin.Engine, path, body string, acceptJSON bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if acceptJSON {
		req.Header.Set("Accept", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

type formPart struct {
	name        string
	filename    string
	contentType string
	data        []byte
}

func postMultipart(t *testing.T, engine *gin.Engine, path string, parts []formPart, acceptJSON bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		if p.filename != "" {
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.name, p.filename))
		} else {
			header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, p.name))
		}
		if p.contentType != "" {
			header.Set("Content-Type", p.contentType)
		}
		pw, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = pw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if acceptJSON {
		req.Header.Set("Accept", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func ticketPart(raw string) formPart {
	return formPart{name: PartJobTicket, filename: "ticket.json", contentType: "application/json", data: []byte(raw)}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const workOrderTicket = `{
	"checklistId": "CL-9",
	"answers": {"metadata": {"additional": {"workOrder": {"workOrderNum": "WO-42"}}}}
}`

func TestPDFHandler_RenderChecklist(t *testing.T) {
	t.Run("empty array", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render", `[]`, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, dto.ErrBadRequest, body.Error)
		assert.Equal(t, "At least one checklist item is required", body.Message)
	})

	t.Run("missing body", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render", ``, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Request body is required", decodeBody(t, w).Message)
	})

	t.Run("invalid item", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render", `[{"title":"  ","completed":false,"description":"x"}]`, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, dto.ErrValidation, body.Error)
		assert.Equal(t, []string{"title: Title is required"}, body.Errors)
	})

	t.Run("malformed json", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render", `[{"title":`, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, strings.HasPrefix(decodeBody(t, w).Message, "Invalid JSON payload: "))
	})

	t.Run("binary response", func(t *testing.T) {
		renderer := &fakeRasterizer{}
		engine := newPDFRouter(t, renderer, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render", `[{"title":"Check pump","completed":true,"description":"Inspect the seal"}]`, false)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `inline; filename="checklist.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Empty(t, w.Header().Get("Cache-Control"))
		assert.Equal(t, testPDF, w.Body.Bytes())
		assert.Contains(t, renderer.last.HTML, "Check pump")
	})

	t.Run("json response", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render", `[{"title":"Check pump","completed":true,"description":"Inspect the seal"}]`, true)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.ChecklistPDFResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.StatusSuccess, resp.Status)
		decoded, err := base64.StdEncoding.DecodeString(resp.PdfBase64)
		require.NoError(t, err)
		assert.Equal(t, testPDF, decoded)
	})
}

func TestPDFHandler_RenderJobTicket(t *testing.T) {
	t.Run("json response", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render-job-ticket", `{"checklistId":"12345"}`, true)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeJSON(t, w)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "12345", body["checklistId"])
		assert.Equal(t, "job-ticket.pdf", body["filename"])
		assert.NotEmpty(t, body["pdfBase64"])
	})

	t.Run("binary response", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render-job-ticket", `{"checklistId":"12345"}`, false)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `form-data; name="filename"; filename="job-ticket.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, cacheControlNoStore, w.Header().Get("Cache-Control"))
		assert.Equal(t, fmt.Sprint(len(testPDF)), w.Header().Get("Content-Length"))
		assert.Equal(t, testPDF, w.Body.Bytes())
	})

	t.Run("null body", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render-job-ticket", `null`, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Job ticket data is required", decodeBody(t, w).Message)
	})

	t.Run("schema violation", func(t *testing.T) {
		schema, err := printing.NewSchemaValidator()
		require.NoError(t, err)
		renderer := &fakeRasterizer{}
		engine := newPDFRouter(t, renderer, BaseHandler{}, WithSchemaValidator(schema))

		w := postJSON(engine, "/api/pdf/render-job-ticket", `{"checklistId":5}`, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, dto.ErrValidation, body.Error)
		require.Len(t, body.Errors, 1)
		assert.Contains(t, body.Errors[0], "checklistId")
		assert.Zero(t, renderer.Calls())
	})

	t.Run("transient failures are retried", func(t *testing.T) {
		renderer := &fakeRasterizer{failures: 2}
		pipeline := resilience.NewPipeline(renderer, resilience.PipelineConfig{
			Retry:     resilience.RetryConfig{Attempts: 3, Backoff: 0},
			RateLimit: resilience.RateLimitConfig{Calls: 100},
		})
		engine := newPDFRouter(t, pipeline, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render-job-ticket", `{"checklistId":"12345"}`, true)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "12345", decodeJSON(t, w)["checklistId"])
		assert.Equal(t, 3, renderer.Calls())
	})

	t.Run("retries exhausted", func(t *testing.T) {
		renderer := &fakeRasterizer{failures: 10}
		pipeline := resilience.NewPipeline(renderer, resilience.PipelineConfig{
			Retry:     resilience.RetryConfig{Attempts: 3, Backoff: 0},
			RateLimit: resilience.RateLimitConfig{Calls: 100},
		})
		engine := newPDFRouter(t, pipeline, BaseHandler{})

		w := postJSON(engine, "/api/pdf/render-job-ticket", `{"checklistId":"12345"}`, false)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, dto.ErrPDFGenerationFailed, body.Error)
		assert.Equal(t,
			"Failed to generate Job Ticket PDF: Failed to generate PDF from HTML after multiple attempts: chrome crashed (attempt 3)",
			body.Message)
		assert.Equal(t, 3, renderer.Calls())
	})
}

func TestPDFHandler_RenderJobTicketWithImages(t *testing.T) {
	const path = "/api/pdf/render-job-ticket-with-images"

	t.Run("missing job ticket", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postMultipart(t, engine, path, []formPart{
			{name: PartImageFiles, filename: "a.png", contentType: "image/png", data: pngBytes(t)},
		}, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing or empty required part 'jobTicket'", decodeBody(t, w).Message)
	})

	t.Run("too many files", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})
		img := pngBytes(t)
		parts := []formPart{ticketPart(`{"checklistId":"12345"}`)}
		for i := range 25 {
			parts = append(parts, formPart{name: PartImageFiles, filename: fmt.Sprintf("%d.png", i), contentType: "image/png", data: img})
		}

		w := postMultipart(t, engine, path, parts, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Maximum 25 files are allowed per request (including the JSON file)", decodeBody(t, w).Message)
	})

	t.Run("empty image parts are not counted", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})
		img := pngBytes(t)
		parts := []formPart{ticketPart(`{"checklistId":"12345"}`)}
		for i := range 24 {
			parts = append(parts, formPart{name: PartImageFiles, filename: fmt.Sprintf("%d.png", i), contentType: "image/png", data: img})
		}
		for i := range 3 {
			parts = append(parts, formPart{name: PartImageFiles, filename: fmt.Sprintf("empty-%d.png", i), contentType: "image/png"})
		}

		w := postMultipart(t, engine, path, parts, true)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(24), decodeJSON(t, w)["imageCount"])
	})

	t.Run("invalid file type", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postMultipart(t, engine, path, []formPart{
			ticketPart(`{"checklistId":"12345"}`),
			{name: PartImageFiles, filename: "notes.txt", contentType: "text/plain", data: []byte("hello")},
		}, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, dto.ErrInvalidFile, body.Error)
		assert.Equal(t, "Invalid file type: text/plain. Allowed types are: image/jpeg, image/png, image/svg+xml", body.Message)
	})

	t.Run("file over size limit", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{MaxFileSize: 16, MaxRequestSize: 1 << 20})

		w := postMultipart(t, engine, path, []formPart{
			ticketPart(`{"checklistId":"1"}`),
			{name: PartImageFiles, filename: "a.png", contentType: "image/png", data: pngBytes(t)},
		}, false)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrFileSizeExceeded, decodeBody(t, w).Error)
	})

	t.Run("json response", func(t *testing.T) {
		renderer := &fakeRasterizer{}
		engine := newPDFRouter(t, renderer, BaseHandler{})

		w := postMultipart(t, engine, path, []formPart{
			ticketPart(`{"checklistId":"12345"}`),
			{name: PartImageFiles, filename: "a.png", contentType: "image/png", data: pngBytes(t)},
			{name: PartImageFiles, filename: "b.png", contentType: "image/png", data: pngBytes(t)},
		}, true)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeJSON(t, w)
		assert.Equal(t, float64(2), body["imageCount"])
		assert.Equal(t, "12345", body["checklistId"])
		assert.Contains(t, renderer.last.HTML, "data:image/png;base64,")
	})

	t.Run("legacy part name and binary response", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postMultipart(t, engine, path, []formPart{
			{name: partLegacyJSONFile, filename: "ticket.json", contentType: "application/json", data: []byte(`{"checklistId":"12345"}`)},
		}, false)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `form-data; name="inline"; filename="job-ticket.pdf"`, w.Header().Get("Content-Disposition"))
	})

	t.Run("job ticket as form field", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postMultipart(t, engine, path, []formPart{
			{name: PartJobTicket, data: []byte(`{"checklistId":"field"}`)},
		}, true)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "field", decodeJSON(t, w)["checklistId"])
	})

	t.Run("not multipart", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postJSON(engine, path, `{"checklistId":"12345"}`, false)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, dto.ErrInvalidRequest, body.Error)
		assert.True(t, strings.HasPrefix(body.Message, "Error processing uploaded files: "))
	})
}

func TestPDFHandler_RenderJobTicketShortWorkPeriod(t *testing.T) {
	const path = "/api/pdf/render-job-ticket-short-work-period"

	tests := []struct {
		name        string
		swp         string
		wantMatched bool
		wantWonum   string
	}{
		{"matching work order", `{"member":[{"wonum":"WO-1"},{"wonum":"WO-42","description":"Replace seal"}]}`, true, "WO-42"},
		{"no match", `{"member":[{"wonum":"WO-7"}]}`, false, ""},
		{"malformed", `{"member":`, false, ""},
		{"absent", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})
			parts := []formPart{ticketPart(workOrderTicket)}
			if tt.swp != "" {
				parts = append(parts, formPart{name: PartShortWorkPeriod, filename: "swp.json", contentType: "application/json", data: []byte(tt.swp)})
			}

			w := postMultipart(t, engine, path, parts, true)

			require.Equal(t, http.StatusOK, w.Code)
			var resp dto.ShortWorkPeriodPDFResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "CL-9", resp.ChecklistID)
			assert.Equal(t, "job-ticket-with-work-order.pdf", resp.Filename)
			assert.Equal(t, tt.wantMatched, resp.WorkOrderMatched)
			assert.Equal(t, tt.wantWonum, resp.Wonum)
		})
	}

	t.Run("job ticket field counts toward the file limit", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{}, WithMaxFiles(1))

		w := postMultipart(t, engine, path, []formPart{
			{name: PartJobTicket, data: []byte(workOrderTicket)},
			{name: PartShortWorkPeriod, filename: "swp.json", contentType: "application/json", data: []byte(`{"member":[]}`)},
		}, true)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Maximum 1 files are allowed per request (including the JSON file)", decodeBody(t, w).Message)
	})

	t.Run("job ticket field alone is within the limit", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{}, WithMaxFiles(1))

		w := postMultipart(t, engine, path, []formPart{
			{name: PartJobTicket, data: []byte(workOrderTicket)},
		}, true)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("binary response", func(t *testing.T) {
		engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

		w := postMultipart(t, engine, path, []formPart{ticketPart(workOrderTicket)}, false)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="job-ticket-with-work-order.pdf"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, cacheControlNoStore, w.Header().Get("Cache-Control"))
	})
}

func TestUploadCount(t *testing.T) {
	file := func(size int64) *multipart.FileHeader {
		return &multipart.FileHeader{Filename: "f", Size: size}
	}

	tests := []struct {
		name string
		form *multipart.Form
		want int
	}{
		{"ticket as field", &multipart.Form{Value: map[string][]string{PartJobTicket: {"{}"}}}, 1},
		{"ticket as file", &multipart.Form{File: map[string][]*multipart.FileHeader{PartJobTicket: {file(2)}}}, 1},
		{"legacy ticket file", &multipart.Form{File: map[string][]*multipart.FileHeader{partLegacyJSONFile: {file(2)}}}, 1},
		{"images", &multipart.Form{File: map[string][]*multipart.FileHeader{
			PartJobTicket:  {file(2)},
			PartImageFiles: {file(10), file(0), file(5)},
		}}, 3},
		{"short work period with ticket field", &multipart.Form{
			Value: map[string][]string{PartJobTicket: {"{}"}},
			File:  map[string][]*multipart.FileHeader{PartShortWorkPeriod: {file(8)}},
		}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uploadCount(tt.form))
		})
	}
}

func TestPDFHandler_ListTemplates(t *testing.T) {
	engine := newPDFRouter(t, &fakeRasterizer{}, BaseHandler{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pdf/templates", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.TemplateListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Templates, infra.TemplateChecklist)
	assert.Contains(t, resp.Templates, infra.TemplateJobTicket)
}

type stubService struct {
	err error
}

func (s stubService) Render(context.Context, *printing.RenderRequest) (*printing.RenderOutput, error) {
	return nil, s.err
}

func (stubService) Templates() []string { return nil }

func TestPDFHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"rate limited", &printing.RenderFailedError{Kind: printing.KindJobTicket, Err: resilience.ErrRateLimited}, http.StatusTooManyRequests},
		{"circuit open", &printing.RenderFailedError{Kind: printing.KindJobTicket, Err: resilience.ErrCircuitOpen}, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			h := NewPDFHandler(stubService{err: tt.err}, BaseHandler{})
			PDFRoutes(h).RegisterRoutes(engine.Group("/api"))

			w := postJSON(engine, "/api/pdf/render-job-ticket", `{"checklistId":"1"}`, false)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	t.Run("templates never null", func(t *testing.T) {
		engine := gin.New()
		PDFRoutes(NewPDFHandler(stubService{}, BaseHandler{})).RegisterRoutes(engine.Group("/api"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pdf/templates", nil))

		assert.JSONEq(t, `{"templates":[]}`, w.Body.String())
	})
}

func TestPDFRoutes(t *testing.T) {
	group := PDFRoutes(NewPDFHandler(stubService{}, BaseHandler{}))

	assert.Equal(t, "pdf", group.Name())
	assert.Equal(t, "/pdf", group.Prefix())
	assert.ElementsMatch(t, []string{
		"POST /pdf/render",
		"POST /pdf/render-job-ticket",
		"POST /pdf/render-job-ticket-with-images",
		"POST /pdf/render-job-ticket-short-work-period",
		"GET /pdf/templates",
	}, group.Routes())
}
