package capabilities

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	dcconfig "github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/encoding"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"golang.org/x/sync/errgroup"

	"github.com/albmartin/po-intake/internal/prompts"
)

// VisionOCR recovers attachment text by rendering PDF pages to PNG via
// ImageMagick and transcribing each page with the vision model. Pages
// are transcribed concurrently with bounded parallelism; each goroutine
// creates its own agent.
type VisionOCR struct {
	config  gaconfig.AgentConfig
	prompts prompts.System
}

// NewVisionOCR creates a vision-model-backed text extractor.
func NewVisionOCR(cfg gaconfig.AgentConfig, p prompts.System) *VisionOCR {
	return &VisionOCR{config: cfg, prompts: p}
}

func (o *VisionOCR) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	tempDir, err := os.MkdirTemp("", "po-intake-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "attachment.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	pages, err := o.transcribePages(ctx, pdfPath)
	if err != nil {
		return "", err
	}

	return strings.Join(pages, "\n\n"), nil
}

func (o *VisionOCR) transcribePages(ctx context.Context, pdfPath string) ([]string, error) {
	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(dcconfig.DefaultImageConfig())
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	allPages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return nil, fmt.Errorf("extract pages: %w", err)
	}

	prompt, err := o.prompts.GetAndRender("extract", "transcribe", nil)
	if err != nil {
		return nil, fmt.Errorf("compose transcribe prompt: %w", err)
	}

	texts := make([]string, len(allPages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ocrWorkerCount(len(allPages)))

	for i, page := range allPages {
		pageNum := i + 1

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			data, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", pageNum, err)
			}

			dataURI, err := encoding.EncodeImageDataURI(data, document.PNG)
			if err != nil {
				return fmt.Errorf("encode page %d: %w", pageNum, err)
			}

			a, err := agent.New(&o.config)
			if err != nil {
				return fmt.Errorf("page %d: create agent: %w", pageNum, err)
			}

			resp, err := a.Vision(gctx, prompt, []string{dataURI})
			if err != nil {
				return fmt.Errorf("page %d: vision call: %w", pageNum, err)
			}

			texts[i] = strings.TrimSpace(resp.Content())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return texts, nil
}

func ocrWorkerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
