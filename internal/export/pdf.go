package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/go-pdf/fpdf"
)

// A4 in millimetres
const (
	PageWidth  = 210.0
	PageHeight = 297.0
)

// sub-micron leftovers do not get a page of their own
const epsilon = 1e-6

// Placement is where the full image is drawn on one page. Y is negative on
// every page but the first so the right slice shows through.
type Placement struct {
	Y      float64
	Height float64
}

// Paginate lays an image of imgW x imgH pixels across A4 pages at full page
// width. The first page draws it at y=0 and each further page shifts it up by
// one page height.
func Paginate(imgW, imgH int) []Placement {
	if imgW <= 0 || imgH <= 0 {
		return nil
	}

	imgHeight := float64(imgH) * PageWidth / float64(imgW)
	placements := []Placement{{Y: 0, Height: imgHeight}}

	heightLeft := imgHeight - PageHeight
	for heightLeft > epsilon {
		placements = append(placements, Placement{Y: heightLeft - imgHeight, Height: imgHeight})
		heightLeft -= PageHeight
	}

	return placements
}

// WritePDF lays the PNG out on A4 pages and writes the finished document to
// w. Nothing is written unless the whole document was built.
func WritePDF(w io.Writer, img []byte) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	placements := Paginate(cfg.Width, cfg.Height)
	if len(placements) == 0 {
		return fmt.Errorf("image has no area: %dx%d", cfg.Width, cfg.Height)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("resume", opts, bytes.NewReader(img))

	for _, p := range placements {
		pdf.AddPage()
		pdf.ImageOptions("resume", 0, p.Y, PageWidth, p.Height, false, opts, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}

	_, err = buf.WriteTo(w)
	return err
}
