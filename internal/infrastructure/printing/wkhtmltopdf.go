package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oqd/pdfservice/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultBinaryPath   = "wkhtmltopdf"
	defaultTimeout      = 30 * time.Second
	defaultDPI          = 96
	defaultImageQuality = 94

	// stdio is wkhtmltopdf's name for stdin (input) and stdout (output)
	stdio = "-"

	wkhtmltopdfPageFooter = "Page [page] of [topage]"
)

// WkhtmltopdfConfig contains configuration for the wkhtmltopdf renderer
type WkhtmltopdfConfig struct {
	// BinaryPath is an absolute path or a name looked up in PATH
	BinaryPath     string
	DefaultTimeout time.Duration
	// TempDir holds header and footer documents for the duration of a render
	TempDir string
	// SkipBackground drops CSS backgrounds from the output
	SkipBackground bool
	DPI            int
	ImageQuality   int
	Logger         *zap.Logger
}

// marginFiles are the header/footer documents passed by path. wkhtmltopdf
// does not accept margin HTML inline.
type marginFiles struct {
	header string
	footer string
}

func (m *marginFiles) cleanup() {
	for _, p := range []string{m.header, m.footer} {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

// WkhtmltopdfRenderer runs the wkhtmltopdf binary once per render, streaming
// the document through stdin and reading the PDF from stdout.
type WkhtmltopdfRenderer struct {
	config *WkhtmltopdfConfig
	logger *zap.Logger
}

// NewWkhtmltopdfRenderer creates a renderer after checking that the binary
// can be found.
func NewWkhtmltopdfRenderer(config *WkhtmltopdfConfig) (*WkhtmltopdfRenderer, error) {
	cfg := WkhtmltopdfConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.BinaryPath == "" {
		cfg.BinaryPath = defaultBinaryPath
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = defaultTimeout
	}
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.DPI <= 0 {
		cfg.DPI = defaultDPI
	}
	if cfg.ImageQuality <= 0 || cfg.ImageQuality > 100 {
		cfg.ImageQuality = defaultImageQuality
	}

	binaryPath, err := resolveBinaryPath(cfg.BinaryPath)
	if err != nil {
		return nil, NewRenderError(ErrCodeBinaryNotFound,
			fmt.Sprintf("wkhtmltopdf binary not found: %s", cfg.BinaryPath), err)
	}
	cfg.BinaryPath = binaryPath

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WkhtmltopdfRenderer{config: &cfg, logger: logger}, nil
}

func resolveBinaryPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}
		return path, nil
	}
	return exec.LookPath(path)
}

// Render converts HTML content to PDF
func (r *WkhtmltopdfRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	start := time.Now()
	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	margins, err := r.writeMargins(req)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write header/footer document", err)
	}
	defer margins.cleanup()

	args := r.buildArgs(req, margins)
	r.logger.Debug("executing wkhtmltopdf",
		zap.String("binary", r.config.BinaryPath),
		zap.Strings("args", args))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.config.BinaryPath, args...)
	cmd.Stdin = strings.NewReader(req.HTML)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		// wkhtmltopdf exits 1 on network errors for sub-resources while still
		// producing a usable document.
		if !bytes.HasPrefix(stdout.Bytes(), pdfMagic) {
			r.logger.Error("wkhtmltopdf failed",
				zap.Error(err),
				zap.String("stderr", strings.TrimSpace(stderr.String())))
			return nil, NewRenderError(ErrCodeRenderFailed,
				"wkhtmltopdf execution failed: "+strings.TrimSpace(stderr.String()), err)
		}
		r.logger.Warn("wkhtmltopdf reported errors", zap.String("stderr", strings.TrimSpace(stderr.String())))
	}

	pdfData := stdout.Bytes()
	if err := validatePDF(pdfData); err != nil {
		return nil, err
	}

	result := &RenderResult{
		PDFData:        pdfData,
		PageCount:      estimatePageCount(pdfData),
		RenderDuration: time.Since(start),
	}
	r.logger.Debug("PDF rendered",
		zap.String("engine", "wkhtmltopdf"),
		zap.Int("bytes", len(result.PDFData)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// writeMargins stores the request's header and footer HTML in temp files.
func (r *WkhtmltopdfRenderer) writeMargins(req *RenderRequest) (*marginFiles, error) {
	m := &marginFiles{}
	var err error
	if req.HeaderHTML != "" {
		if m.header, err = r.writeTempHTML(req.HeaderHTML, "header-*.html"); err != nil {
			return m, err
		}
	}
	if req.FooterHTML != "" {
		if m.footer, err = r.writeTempHTML(req.FooterHTML, "footer-*.html"); err != nil {
			m.cleanup()
			return m, err
		}
	}
	return m, nil
}

// buildArgs assembles the command line; the document is read from stdin and
// the PDF written to stdout.
func (r *WkhtmltopdfRenderer) buildArgs(req *RenderRequest, margins *marginFiles) []string {
	args := []string{
		"--quiet",
		"--encoding", "UTF-8",
		"--dpi", strconv.Itoa(r.config.DPI),
		"--image-quality", strconv.Itoa(r.config.ImageQuality),
		"--disable-javascript",
		"--no-outline",
	}
	args = append(args, r.buildPaperSizeArgs(req.PaperSize, req.Orientation)...)
	args = append(args,
		"--margin-top", mm(req.Margins.Top),
		"--margin-right", mm(req.Margins.Right),
		"--margin-bottom", mm(req.Margins.Bottom),
		"--margin-left", mm(req.Margins.Left),
	)

	if r.config.SkipBackground {
		args = append(args, "--no-background")
	} else {
		args = append(args, "--background")
	}
	if req.EnableLocalFileAccess {
		args = append(args, "--enable-local-file-access")
	} else {
		args = append(args, "--disable-local-file-access")
	}
	if req.Title != "" {
		args = append(args, "--title", req.Title)
	}

	if margins != nil && margins.header != "" {
		args = append(args, "--header-html", margins.header)
	}
	switch {
	case margins != nil && margins.footer != "":
		args = append(args, "--footer-html", margins.footer)
	case req.PageNumbers:
		args = append(args, "--footer-center", wkhtmltopdfPageFooter, "--footer-font-size", "8")
	}

	return append(args, stdio, stdio)
}

func mm(v int) string {
	return strconv.Itoa(v) + "mm"
}

func (r *WkhtmltopdfRenderer) buildPaperSizeArgs(paperSize printing.PaperSize, orientation printing.Orientation) []string {
	name := "A4"
	switch paperSize {
	case printing.PaperSizeA3:
		name = "A3"
	case printing.PaperSizeA5:
		name = "A5"
	case printing.PaperSizeLetter:
		name = "Letter"
	case printing.PaperSizeLegal:
		name = "Legal"
	}

	orient := "Portrait"
	if orientation == printing.OrientationLandscape {
		orient = "Landscape"
	}
	return []string{"--page-size", name, "--orientation", orient}
}

func (r *WkhtmltopdfRenderer) writeTempHTML(html, pattern string) (string, error) {
	file, err := os.CreateTemp(r.config.TempDir, pattern)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.WriteString(html); err != nil {
		_ = os.Remove(file.Name())
		return "", err
	}
	return file.Name(), nil
}

// Close is a no-op; each render runs its own process.
func (r *WkhtmltopdfRenderer) Close() error {
	return nil
}

var _ PDFRenderer = (*WkhtmltopdfRenderer)(nil)
