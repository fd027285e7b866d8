package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/application/printing"
	"github.com/oqd/pdfservice/internal/domain/jobticket"
	"github.com/oqd/pdfservice/internal/infrastructure/telemetry"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Multipart part names
const (
	PartJobTicket       = "jobTicket"
	PartImageFiles      = "imageFiles"
	PartShortWorkPeriod = "shortWorkPeriod"
	// partLegacyJSONFile is accepted in place of jobTicket
	partLegacyJSONFile = "jsonFile"
)

const (
	cacheControlNoStore = "must-revalidate, post-check=0, pre-check=0"
	mimeJSON            = "application/json"
	mimePDF             = "application/pdf"
)

// PDFService renders PDFs
type PDFService interface {
	Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderOutput, error)
	Templates() []string
}

// SchemaValidator checks a raw job ticket document
type SchemaValidator interface {
	Validate(raw []byte) error
}

// PDFHandler serves the /api/pdf endpoints
type PDFHandler struct {
	BaseHandler
	service  PDFService
	schema   SchemaValidator
	files    *printing.FileTypeValidator
	maxFiles int
}

// PDFHandlerOption configures a PDFHandler
type PDFHandlerOption func(*PDFHandler)

// WithSchemaValidator validates job ticket documents before decoding
func WithSchemaValidator(v SchemaValidator) PDFHandlerOption {
	return func(h *PDFHandler) {
		h.schema = v
	}
}

// WithMaxFiles bounds the files of one multipart request, the job ticket
// included
func WithMaxFiles(n int) PDFHandlerOption {
	return func(h *PDFHandler) {
		if n > 0 {
			h.maxFiles = n
		}
	}
}

// NewPDFHandler creates a new PDFHandler
func NewPDFHandler(service PDFService, base BaseHandler, opts ...PDFHandlerOption) *PDFHandler {
	h := &PDFHandler{
		BaseHandler: base,
		service:     service,
		files:       printing.NewFileTypeValidator(),
		maxFiles:    printing.DefaultMaxFiles,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RenderChecklist renders a checklist.
//
// POST /api/pdf/render, body: JSON array of checklist items.
func (h *PDFHandler) RenderChecklist(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.HandleError(c, readError(err))
		return
	}

	var items []jobticket.ChecklistItem
	if !isNullBody(raw) {
		if err := json.Unmarshal(raw, &items); err != nil {
			h.HandleError(c, printing.NewBadRequest("Invalid JSON payload: "+err.Error()))
			return
		}
	}

	out, ok := h.render(c, &printing.RenderRequest{Kind: printing.KindChecklist, Items: items})
	if !ok {
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, dto.ChecklistPDFResponse{
			Status:     dto.StatusSuccess,
			PdfBase64:  encodePDF(out.PDF),
			ArchiveURL: out.ArchiveURL,
		})
		return
	}
	writePDF(c, out.PDF, fmt.Sprintf(`inline; filename="%s"`, out.Filename), false)
}

// RenderJobTicket renders a job ticket.
//
// POST /api/pdf/render-job-ticket, body: job ticket JSON.
func (h *PDFHandler) RenderJobTicket(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.HandleError(c, readError(err))
		return
	}
	if isNullBody(raw) {
		h.HandleError(c, printing.NewBadRequest("Job ticket data is required"))
		return
	}

	ticket, err := h.decodeTicket(raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out, ok := h.render(c, &printing.RenderRequest{Kind: printing.KindJobTicket, Ticket: ticket})
	if !ok {
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, dto.JobTicketPDFResponse{
			Status:      dto.StatusSuccess,
			Filename:    out.Filename,
			PdfBase64:   encodePDF(out.PDF),
			ChecklistID: ticket.ChecklistID,
			ArchiveURL:  out.ArchiveURL,
		})
		return
	}
	writePDF(c, out.PDF, formData("filename", out.Filename), true)
}

// RenderJobTicketWithImages renders a job ticket with embedded photos.
//
// POST /api/pdf/render-job-ticket-with-images, multipart: jobTicket and
// imageFiles parts.
func (h *PDFHandler) RenderJobTicketWithImages(c *gin.Context) {
	form, err := h.multipartForm(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	raw, err := h.jobTicketPart(form)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := printing.ValidateFileCount(uploadCount(form), h.maxFiles); err != nil {
		h.HandleError(c, err)
		return
	}

	images, err := h.readImages(form.File[PartImageFiles])
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.files.Validate(images); err != nil {
		h.HandleError(c, err)
		return
	}

	ticket, err := h.decodeTicket(raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out, ok := h.render(c, &printing.RenderRequest{
		Kind:   printing.KindJobTicketWithImages,
		Ticket: ticket,
		Images: images,
	})
	if !ok {
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusOK, dto.JobTicketWithImagesPDFResponse{
			Status:      dto.StatusSuccess,
			ImageCount:  out.ImageCount,
			PdfBase64:   encodePDF(out.PDF),
			Filename:    out.Filename,
			ChecklistID: ticket.ChecklistID,
			ArchiveURL:  out.ArchiveURL,
		})
		return
	}
	writePDF(c, out.PDF, formData("inline", out.Filename), true)
}

// RenderJobTicketShortWorkPeriod renders a job ticket enriched with the
// matching work order.
//
// POST /api/pdf/render-job-ticket-short-work-period, multipart: jobTicket and
// optional shortWorkPeriod parts.
func (h *PDFHandler) RenderJobTicketShortWorkPeriod(c *gin.Context) {
	form, err := h.multipartForm(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	raw, err := h.jobTicketPart(form)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if err := printing.ValidateFileCount(uploadCount(form), h.maxFiles); err != nil {
		h.HandleError(c, err)
		return
	}

	swp, err := h.part(form, PartShortWorkPeriod)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	ticket, err := h.decodeTicket(raw)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out, ok := h.render(c, &printing.RenderRequest{
		Kind:            printing.KindJobTicketShortWorkPeriod,
		Ticket:          ticket,
		ShortWorkPeriod: swp,
	})
	if !ok {
		return
	}

	if wantsJSON(c) {
		resp := dto.ShortWorkPeriodPDFResponse{
			Status:      dto.StatusSuccess,
			Filename:    out.Filename,
			PdfBase64:   encodePDF(out.PDF),
			ChecklistID: ticket.ChecklistID,
			ArchiveURL:  out.ArchiveURL,
		}
		if out.WorkOrder != nil {
			resp.WorkOrderMatched = true
			resp.Wonum = out.WorkOrder.WONum
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	writePDF(c, out.PDF, fmt.Sprintf(`attachment; filename="%s"`, out.Filename), true)
}

// ListTemplates lists the report templates.
//
// GET /api/pdf/templates
func (h *PDFHandler) ListTemplates(c *gin.Context) {
	templates := h.service.Templates()
	if templates == nil {
		templates = []string{}
	}
	c.JSON(http.StatusOK, dto.TemplateListResponse{Templates: templates})
}

// render runs the service under profiling labels and writes the error
// response on failure.
func (h *PDFHandler) render(c *gin.Context, req *printing.RenderRequest) (*printing.RenderOutput, bool) {
	var (
		out *printing.RenderOutput
		err error
	)
	labels := telemetry.RenderLabels(c.FullPath(), c.Request.Method, req.Kind.String())
	telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
		out, err = h.service.Render(ctx, req)
	})
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	h.log(c).Debug("PDF response ready",
		zap.String("kind", req.Kind.String()),
		zap.Int("size", len(out.PDF)),
		zap.Bool("json", wantsJSON(c)))
	return out, true
}

func (h *PDFHandler) decodeTicket(raw []byte) (*jobticket.JobTicket, error) {
	if h.schema != nil {
		if err := h.schema.Validate(raw); err != nil {
			return nil, err
		}
	}
	var ticket jobticket.JobTicket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, printing.NewBadRequest("Invalid JSON payload: " + err.Error())
	}
	return &ticket, nil
}

func (h *PDFHandler) multipartForm(c *gin.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, readError(err)
	}
	return form, nil
}

// jobTicketPart returns the job ticket JSON, sent as a file or a plain
// form field.
func (h *PDFHandler) jobTicketPart(form *multipart.Form) ([]byte, error) {
	for _, name := range []string{PartJobTicket, partLegacyJSONFile} {
		raw, err := h.part(form, name)
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(raw)) > 0 {
			return raw, nil
		}
	}
	return nil, printing.NewBadRequest(fmt.Sprintf("Missing or empty required part '%s'", PartJobTicket))
}

// uploadCount is the number of files counted against the per-request limit:
// the job ticket, sent as a file or a field, plus every non-empty file part
// besides it.
func uploadCount(form *multipart.Form) int {
	n := 1
	for name, files := range form.File {
		if name == PartJobTicket || name == partLegacyJSONFile {
			continue
		}
		for _, fh := range files {
			if fh.Size > 0 {
				n++
			}
		}
	}
	return n
}

// part returns the content of the named part, or nil when it is absent.
func (h *PDFHandler) part(form *multipart.Form, name string) ([]byte, error) {
	if files := form.File[name]; len(files) > 0 {
		return h.readPart(files[0])
	}
	if values := form.Value[name]; len(values) > 0 {
		return []byte(values[0]), nil
	}
	return nil, nil
}

func (h *PDFHandler) readPart(fh *multipart.FileHeader) ([]byte, error) {
	if h.MaxFileSize > 0 && fh.Size > h.MaxFileSize {
		return nil, &http.MaxBytesError{Limit: h.MaxFileSize}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, readError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, readError(err)
	}
	return data, nil
}

func (h *PDFHandler) readImages(parts []*multipart.FileHeader) ([]printing.ImageFile, error) {
	images := make([]printing.ImageFile, 0, len(parts))
	for _, fh := range parts {
		data, err := h.readPart(fh)
		if err != nil {
			return nil, err
		}
		images = append(images, printing.ImageFile{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return images, nil
}

// readError classifies a body read failure. Oversized bodies keep their
// *http.MaxBytesError so they map to 413.
func readError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return maxBytesErr
	}
	return printing.NewInvalidRequest("Error processing uploaded files: "+err.Error(), err)
}

func isNullBody(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// wantsJSON reports whether the Accept header asks for JSON
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), mimeJSON)
}

func encodePDF(pdf []byte) string {
	return base64.StdEncoding.EncodeToString(pdf)
}

func formData(name, filename string) string {
	return fmt.Sprintf(`form-data; name="%s"; filename="%s"`, name, filename)
}

func writePDF(c *gin.Context, pdf []byte, disposition string, noCache bool) {
	c.Header("Content-Disposition", disposition)
	if noCache {
		c.Header("Cache-Control", cacheControlNoStore)
	}
	c.Header("Content-Length", strconv.Itoa(len(pdf)))
	c.Data(http.StatusOK, mimePDF, pdf)
}
