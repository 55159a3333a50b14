package particles

import (
	"fmt"
	"image"
	"sync"
	"unicode/utf8"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	RasterWidth  = 400
	RasterHeight = 200
	// RasterScale converts raster pixels to scene units.
	RasterScale = 0.03

	rasterStride    = 2
	rasterThreshold = 128
	rasterMargin    = 20
	repeatJitter    = 0.1
	maxFontSize     = 160
)

// TextRasterizer turns strings into particle targets by drawing them into an
// off-screen alpha raster and sampling the lit pixels.
type TextRasterizer struct {
	font *opentype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

func NewTextRasterizer() (*TextRasterizer, error) {
	f, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return &TextRasterizer{font: f, faces: make(map[float64]font.Face)}, nil
}

var (
	defaultRasterizer     *TextRasterizer
	defaultRasterizerErr  error
	defaultRasterizerOnce sync.Once
)

// DefaultTextRasterizer returns a shared rasterizer using the embedded Go Bold face.
func DefaultTextRasterizer() (*TextRasterizer, error) {
	defaultRasterizerOnce.Do(func() {
		defaultRasterizer, defaultRasterizerErr = NewTextRasterizer()
	})
	return defaultRasterizer, defaultRasterizerErr
}

func (tr *TextRasterizer) face(size float64) (font.Face, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if f, ok := tr.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(tr.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	tr.faces[size] = f
	return f, nil
}

// fontSize shrinks with the rune count so single digits and short words both fit.
func fontSize(text string) float64 {
	n := utf8.RuneCountInString(text)
	if n <= 1 {
		return maxFontSize
	}
	return min(maxFontSize, 600/float64(n))
}

// Render draws text centered in a RasterWidth x RasterHeight alpha image.
func (tr *TextRasterizer) Render(text string) (*image.Alpha, error) {
	img := image.NewAlpha(image.Rect(0, 0, RasterWidth, RasterHeight))
	if text == "" {
		return img, nil
	}

	size := fontSize(text)
	face, err := tr.face(size)
	if err != nil {
		return nil, err
	}
	width := font.MeasureString(face, text)
	if limit := fixed.I(RasterWidth - rasterMargin); width > limit {
		size = size * float64(limit) / float64(width)
		if face, err = tr.face(size); err != nil {
			return nil, err
		}
		width = font.MeasureString(face, text)
	}

	metrics := face.Metrics()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: face,
		Dot: fixed.Point26_6{
			X: (fixed.I(RasterWidth) - width) / 2,
			Y: (fixed.I(RasterHeight) + metrics.Ascent - metrics.Descent) / 2,
		},
	}
	d.DrawString(text)
	return img, nil
}

// Sample returns the scene-space positions of the lit raster pixels, scanned on
// a fixed stride. Y is flipped so the text reads upright in the scene.
func (tr *TextRasterizer) Sample(text string) ([]mgl32.Vec3, error) {
	img, err := tr.Render(text)
	if err != nil {
		return nil, err
	}
	var points []mgl32.Vec3
	for y := 0; y < RasterHeight; y += rasterStride {
		for x := 0; x < RasterWidth; x += rasterStride {
			if img.AlphaAt(x, y).A <= rasterThreshold {
				continue
			}
			points = append(points, mgl32.Vec3{
				float32(x-RasterWidth/2) * RasterScale,
				-float32(y-RasterHeight/2) * RasterScale,
				0,
			})
		}
	}
	return points, nil
}

// Rasterize fills count particles from the glyph pixels of text. When count
// exceeds the lit pixels the indices wrap around and every repeated pass gets
// its own small jitter. Empty text, or text without lit pixels, yields an
// all-zero buffer.
func (tr *TextRasterizer) Rasterize(text string, count int, rng Rand) (Buffer, error) {
	rng = orDefault(rng)
	buf := NewBuffer(count)
	points, err := tr.Sample(text)
	if err != nil {
		return buf, err
	}
	if len(points) == 0 {
		return buf, nil
	}
	for i := 0; i < count; i++ {
		p := points[i%len(points)]
		if i >= len(points) {
			p = p.Add(mgl32.Vec3{
				(rng.Float32() - 0.5) * repeatJitter,
				(rng.Float32() - 0.5) * repeatJitter,
				(rng.Float32() - 0.5) * repeatJitter,
			})
		}
		buf.Set(i, p)
	}
	return buf, nil
}
