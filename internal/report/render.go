// Package report renders a check-in's insights as a shareable PNG and
// encodes the public share token.
package report

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/mindtrack-backend/internal/wellness"
)

const (
	pageWidth = 1200
	margin    = 72.0
	contentW  = pageWidth - 2*margin

	disclaimer = "This assessment is for informational purposes only and should not replace professional medical advice. Please consult with a qualified healthcare provider for personalized guidance."
)

var (
	colorBackground = color.NRGBA{R: 0xF8, G: 0xFA, B: 0xFC, A: 0xFF}
	colorInk        = color.NRGBA{R: 0x1E, G: 0x29, B: 0x3B, A: 0xFF}
	colorMuted      = color.NRGBA{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF}
	colorPrimary    = color.NRGBA{R: 0x63, G: 0x66, B: 0xF1, A: 0xFF}
	colorRisk       = color.NRGBA{R: 0xDC, G: 0x26, B: 0x26, A: 0xFF}
	colorPositive   = color.NRGBA{R: 0x16, G: 0xA3, B: 0x4A, A: 0xFF}
	colorGrid       = color.NRGBA{R: 0xCB, G: 0xD5, B: 0xE1, A: 0xFF}
)

// Report is everything drawn onto one page.
type Report struct {
	CheckIn     wellness.NormalizedCheckIn
	Insights    *wellness.Insights
	GeneratedAt time.Time
	// Location only affects the printed generation date.
	Location *time.Location
}

// Renderer holds parsed fonts. Faces are created per render because
// truetype faces are not safe for concurrent use.
type Renderer struct {
	regular *truetype.Font
	bold    *truetype.Font
}

func NewRenderer() (*Renderer, error) {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold}, nil
}

type faces struct {
	title, heading, body, small, score font.Face
}

func (r *Renderer) newFaces() faces {
	mk := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	return faces{
		title:   mk(r.bold, 44),
		heading: mk(r.bold, 28),
		body:    mk(r.regular, 22),
		small:   mk(r.regular, 17),
		score:   mk(r.bold, 72),
	}
}

// FileName is the download name for a report of a check-in completed at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("MindTrack-Wellness-Report-%s.png", t.UTC().Format(wellness.DateLayout))
}

// Render draws the report and returns PNG bytes.
func (r *Renderer) Render(rep Report) ([]byte, error) {
	if rep.Insights == nil {
		return nil, fmt.Errorf("insights required")
	}
	f := r.newFaces()

	measure := &page{dc: gg.NewContext(pageWidth, 1), faces: f, dry: true}
	measure.draw(rep)
	height := int(math.Ceil(measure.y + margin))

	p := &page{dc: gg.NewContext(pageWidth, height), faces: f}
	p.dc.SetColor(colorBackground)
	p.dc.Clear()
	p.draw(rep)

	var buf bytes.Buffer
	if err := p.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// page lays content out top to bottom. In dry mode it only advances y so
// the canvas height can be computed first.
type page struct {
	dc    *gg.Context
	faces faces
	dry   bool
	y     float64
}

func (p *page) draw(rep Report) {
	in := rep.Insights
	loc := rep.Location
	if loc == nil {
		loc = time.UTC
	}
	generated := rep.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	p.y = margin
	p.line(p.faces.title, colorInk, "MindTrack Wellness Report", 56)
	p.line(p.faces.small, colorMuted, fmt.Sprintf(
		"Assessment completed %s  |  Generated %s",
		rep.CheckIn.Timestamp.UTC().Format(wellness.DateLayout),
		generated.In(loc).Format(wellness.DateLayout),
	), 40)

	p.scoreBlock(in)
	p.heading("Wellness Balance")
	p.radar(in.Balance)

	if risks := in.Risks(); len(risks) > 0 {
		p.heading("Areas of Concern")
		for _, fl := range risks {
			p.bullet(colorRisk, fmt.Sprintf("[%s] %s", strings.ToUpper(string(fl.Severity)), fl.Message))
		}
	}
	if positives := in.Positives(); len(positives) > 0 {
		p.heading("Strengths")
		for _, fl := range positives {
			p.bullet(colorPositive, fl.Message)
		}
	}

	p.heading("Recommendations")
	for _, rec := range in.Recommendations {
		p.bullet(colorPrimary, fmt.Sprintf("%s (%s priority): %s", rec.Category, rec.Priority, rec.Action))
	}

	p.heading("Doctor Ready Notes")
	for _, note := range in.Notes {
		p.bullet(colorInk, note)
	}

	p.y += 16
	p.wrapped(p.faces.small, colorMuted, disclaimer, margin, contentW)
	p.y += 8
	p.wrapped(p.faces.small, colorMuted, "Generated by MindTrack  |  Report #"+rep.CheckIn.ID, margin, contentW)
}

func (p *page) line(face font.Face, c color.Color, s string, advance float64) {
	if !p.dry {
		p.dc.SetFontFace(face)
		p.dc.SetColor(c)
		p.dc.DrawStringAnchored(s, margin, p.y, 0, 1)
	}
	p.y += advance
}

func (p *page) heading(s string) {
	p.y += 24
	if !p.dry {
		p.dc.SetColor(colorGrid)
		p.dc.SetLineWidth(1)
		p.dc.DrawLine(margin, p.y, pageWidth-margin, p.y)
		p.dc.Stroke()
	}
	p.y += 16
	p.line(p.faces.heading, colorInk, s, 44)
}

func (p *page) bullet(marker color.Color, s string) {
	if !p.dry {
		p.dc.SetColor(marker)
		p.dc.DrawCircle(margin+8, p.y+13, 5)
		p.dc.Fill()
	}
	p.wrapped(p.faces.body, colorInk, s, margin+28, contentW-28)
	p.y += 8
}

func (p *page) wrapped(face font.Face, c color.Color, s string, x, width float64) {
	p.dc.SetFontFace(face)
	lineH := p.dc.FontHeight() * 1.4
	for _, ln := range p.dc.WordWrap(s, width) {
		if !p.dry {
			p.dc.SetColor(c)
			p.dc.DrawStringAnchored(ln, x, p.y, 0, 1)
		}
		p.y += lineH
	}
}

func bandColor(b wellness.Band) color.Color {
	switch b {
	case wellness.BandThriving:
		return colorPositive
	case wellness.BandStable:
		return colorPrimary
	default:
		return colorRisk
	}
}

func (p *page) scoreBlock(in *wellness.Insights) {
	const radius = 90.0
	top := p.y + 10
	cx, cy := margin+radius, top+radius
	if !p.dry {
		p.dc.SetLineWidth(18)
		p.dc.SetColor(colorGrid)
		p.dc.DrawCircle(cx, cy, radius)
		p.dc.Stroke()

		p.dc.SetColor(bandColor(in.Band))
		start := -math.Pi / 2
		p.dc.DrawArc(cx, cy, radius, start, start+2*math.Pi*float64(in.Score)/100)
		p.dc.Stroke()

		p.dc.SetFontFace(p.faces.score)
		p.dc.SetColor(colorInk)
		p.dc.DrawStringAnchored(fmt.Sprintf("%d", in.Score), cx, cy, 0.5, 0.35)

		p.dc.SetFontFace(p.faces.heading)
		p.dc.DrawStringAnchored("Overall Wellness Score", cx+radius+48, cy-24, 0, 0.5)
		p.dc.SetColor(bandColor(in.Band))
		p.dc.DrawStringAnchored(string(in.Band), cx+radius+48, cy+24, 0, 0.5)
	}
	p.y = top + 2*radius + 20
}

func (p *page) radar(axes []wellness.BalanceAxis) {
	const radius = 170.0
	n := len(axes)
	top := p.y + 40
	cx, cy := pageWidth/2.0, top+radius
	p.y = cy + radius + 50
	if p.dry || n < 3 {
		return
	}

	point := func(i int, frac float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		return cx + math.Cos(angle)*radius*frac, cy + math.Sin(angle)*radius*frac
	}

	p.dc.SetLineWidth(1)
	p.dc.SetColor(colorGrid)
	for ring := 1; ring <= 5; ring++ {
		for i := 0; i < n; i++ {
			x, y := point(i, float64(ring)/5)
			if i == 0 {
				p.dc.MoveTo(x, y)
			} else {
				p.dc.LineTo(x, y)
			}
		}
		p.dc.ClosePath()
		p.dc.Stroke()
	}

	for i, a := range axes {
		frac := 0.0
		if a.FullMark > 0 {
			frac = float64(a.Value) / float64(a.FullMark)
		}
		x, y := point(i, frac)
		if i == 0 {
			p.dc.MoveTo(x, y)
		} else {
			p.dc.LineTo(x, y)
		}
	}
	p.dc.ClosePath()
	p.dc.SetColor(color.NRGBA{R: colorPrimary.R, G: colorPrimary.G, B: colorPrimary.B, A: 0x55})
	p.dc.FillPreserve()
	p.dc.SetColor(colorPrimary)
	p.dc.SetLineWidth(3)
	p.dc.Stroke()

	p.dc.SetFontFace(p.faces.small)
	p.dc.SetColor(colorInk)
	for i, a := range axes {
		x, y := point(i, 1.18)
		p.dc.DrawStringAnchored(fmt.Sprintf("%s %d/%d", a.Metric, a.Value, a.FullMark), x, y, 0.5, 0.5)
	}
}
