// Package export turns a rendered resume into a PDF on the local machine:
// HTML is rasterized by a browser, then sliced across A4 pages.
package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/redmonkez12/cvbuilder/internal/resume"
)

// HTMLRenderer is satisfied by *render.Renderer
type HTMLRenderer interface {
	Render(w io.Writer, tpl resume.Template, r *resume.Resume) error
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	unsafeName = regexp.MustCompile(`[/\\:*?"<>|]`)
)

// FileName is "<full name>.pdf" with whitespace runs turned into underscores,
// or "Resume.pdf" when there is no name.
func FileName(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "Resume"
	}
	name = unsafeName.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, "_")
	if name == "" {
		name = "Resume"
	}
	return name + ".pdf"
}

// Exporter renders, rasterizes and paginates a resume into a PDF file
type Exporter struct {
	renderer   HTMLRenderer
	rasterizer Rasterizer
}

func NewExporter(renderer HTMLRenderer, rasterizer Rasterizer) *Exporter {
	return &Exporter{renderer: renderer, rasterizer: rasterizer}
}

// PDF builds the document in memory
func (e *Exporter) PDF(ctx context.Context, res *resume.Resume, tpl resume.Template) ([]byte, error) {
	var page bytes.Buffer
	if err := e.renderer.Render(&page, tpl, res); err != nil {
		return nil, fmt.Errorf("failed to render resume: %w", err)
	}

	img, err := e.rasterizer.Rasterize(ctx, page.Bytes())
	if err != nil {
		return nil, err
	}

	var doc bytes.Buffer
	if err := WritePDF(&doc, img); err != nil {
		return nil, err
	}
	return doc.Bytes(), nil
}

// Export writes the PDF into dir and returns its path. The file only appears
// once it is complete; a failed export leaves nothing behind.
func (e *Exporter) Export(ctx context.Context, res *resume.Resume, tpl resume.Template, dir string) (string, error) {
	doc, err := e.PDF(ctx, res, tpl)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".resume-*.pdf.part")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	target := filepath.Join(dir, FileName(res.PersonalInfo.FullName))
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("failed to move pdf into place: %w", err)
	}

	return target, nil
}
