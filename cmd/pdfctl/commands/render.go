package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oqd/pdfservice/internal/application/printing"
	"github.com/oqd/pdfservice/internal/domain/jobticket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	input           string
	output          string
	images          []string
	shortWorkPeriod string
	engine          string
	validateSchema  bool
	verbose         bool
}

func newRenderCommand(d deps) *cobra.Command {
	var opts renderOptions
	kinds := make([]string, 0, len(printing.AllKinds()))
	for _, k := range printing.AllKinds() {
		kinds = append(kinds, k.String())
	}

	cmd := &cobra.Command{
		Use:       "render <kind>",
		Short:     "Render a PDF from a JSON document",
		Long:      "Render a PDF locally. kind is one of: " + strings.Join(kinds, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, d, printing.RequestKind(args[0]), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "JSON input file, - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: the kind's filename)")
	cmd.Flags().StringSliceVar(&opts.images, "image", nil, "image file to embed (job-ticket-with-images, repeatable)")
	cmd.Flags().StringVar(&opts.shortWorkPeriod, "short-work-period", "", "work order export (job-ticket-short-work-period)")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "renderer engine override: chromedp, wkhtmltopdf")
	cmd.Flags().BoolVar(&opts.validateSchema, "validate", false, "validate job tickets against the JSON schema first")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging on stderr")
	return cmd
}

func runRender(cmd *cobra.Command, d deps, kind printing.RequestKind, opts renderOptions) error {
	if !kind.IsValid() {
		return fmt.Errorf("unknown kind %q", kind)
	}

	raw, err := readInput(cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}
	req, err := buildRequest(kind, raw, opts)
	if err != nil {
		return err
	}

	cfg, err := d.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.engine != "" {
		cfg.Renderer.Engine = opts.engine
	}
	log := newLogger(cfg, opts.verbose)
	defer func() { _ = log.Sync() }()

	service, renderer, err := d.newService(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Warn("Error closing renderer", zap.Error(err))
		}
	}()

	out, err := service.Render(cmd.Context(), req)
	if err != nil {
		return describe(err)
	}

	target := opts.output
	if target == "" {
		target = out.Filename
	}
	if target == "-" {
		_, err := cmd.OutOrStdout().Write(out.PDF)
		return err
	}
	if err := os.WriteFile(target, out.PDF, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes, %d pages)\n", target, len(out.PDF), out.PageCount)
	return nil
}

func buildRequest(kind printing.RequestKind, raw []byte, opts renderOptions) (*printing.RenderRequest, error) {
	req := &printing.RenderRequest{Kind: kind}

	if kind == printing.KindChecklist {
		if err := json.Unmarshal(raw, &req.Items); err != nil {
			return nil, fmt.Errorf("decode checklist: %w", err)
		}
		return req, nil
	}

	if opts.validateSchema {
		if err := validateTicket(raw); err != nil {
			return nil, describe(err)
		}
	}
	var ticket jobticket.JobTicket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, fmt.Errorf("decode job ticket: %w", err)
	}
	req.Ticket = &ticket

	switch kind {
	case printing.KindJobTicketWithImages:
		if err := printing.ValidateFileCount(len(opts.images)+1, printing.DefaultMaxFiles); err != nil {
			return nil, describe(err)
		}
		images, err := readImages(opts.images)
		if err != nil {
			return nil, err
		}
		if err := printing.NewFileTypeValidator().Validate(images); err != nil {
			return nil, describe(err)
		}
		req.Images = images
	case printing.KindJobTicketShortWorkPeriod:
		if opts.shortWorkPeriod != "" {
			swp, err := os.ReadFile(opts.shortWorkPeriod)
			if err != nil {
				return nil, fmt.Errorf("read short work period: %w", err)
			}
			req.ShortWorkPeriod = swp
		}
	}
	return req, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return raw, nil
}

func readImages(paths []string) ([]printing.ImageFile, error) {
	images := make([]printing.ImageFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		images = append(images, printing.ImageFile{
			Filename:    filepath.Base(p),
			ContentType: mimetype.Detect(data).String(),
			Data:        data,
		})
	}
	return images, nil
}

// describe flattens validation errors into one readable message
func describe(err error) error {
	var verr *printing.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("validation failed:\n  %s", strings.Join(verr.Messages(), "\n  "))
	}
	return err
}
