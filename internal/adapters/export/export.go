// Package export rasterizes timeline SVG documents with a headless browser.
package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/jpeg"
	"image/png"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

var (
	// ErrUnsupportedFormat is returned for formats other than PNG and JPEG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrRasterizer is returned when the browser fails to produce an image.
	ErrRasterizer = errors.New("rasterizer failed")
)

// Format is an output image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// DefaultTimeout bounds one rasterization.
const DefaultTimeout = 15 * time.Second

// DefaultQuality is the JPEG quality.
const DefaultQuality = 90

// ParseFormat accepts png, jpg and jpeg in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// DataURI embeds an SVG document so the browser can load it without a file.
func DataURI(svg []byte) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg)
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithTimeout bounds each rasterization.
func WithTimeout(d time.Duration) Option {
	return func(r *Rasterizer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithQuality sets the JPEG quality (1-100).
func WithQuality(q int) Option {
	return func(r *Rasterizer) {
		if q >= 1 && q <= 100 {
			r.quality = q
		}
	}
}

// WithAllocatorOptions adds chromedp allocator flags such as NoSandbox.
func WithAllocatorOptions(opts ...chromedp.ExecAllocatorOption) Option {
	return func(r *Rasterizer) { r.alloc = append(r.alloc, opts...) }
}

// Rasterizer turns SVG into PNG or JPEG bytes. Each call starts its own
// browser tab, so a Rasterizer is safe for concurrent use.
type Rasterizer struct {
	timeout time.Duration
	quality int
	alloc   []chromedp.ExecAllocatorOption
}

// New creates a rasterizer.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{timeout: DefaultTimeout, quality: DefaultQuality}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rasterize renders svg at width x height pixels.
func (r *Rasterizer) Rasterize(ctx context.Context, svg []byte, format Format, width, height int) ([]byte, error) {
	if format != PNG && format != JPEG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions(width, height)...)
	defer cancelAlloc()

	tab, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var shot []byte
	err := chromedp.Run(tab,
		chromedp.Navigate(DataURI(svg)),
		chromedp.WaitVisible(`svg`, chromedp.ByQuery),
		chromedp.Screenshot(`svg`, &shot, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterizer, err)
	}
	if len(shot) == 0 {
		return nil, fmt.Errorf("%w: empty screenshot", ErrRasterizer)
	}

	if format == PNG {
		return shot, nil
	}
	return r.toJPEG(shot)
}

// allocatorOptions starts from chromedp's defaults, which already run
// headless, and sizes the window when both sides are known.
func (r *Rasterizer) allocatorOptions(width, height int) []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if width > 0 && height > 0 {
		opts = append(opts, chromedp.WindowSize(width, height))
	}
	return append(opts, r.alloc...)
}

func (r *Rasterizer) toJPEG(shot []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}
	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}
