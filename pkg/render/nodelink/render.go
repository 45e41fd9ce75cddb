package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodevis/pkg/cache"
	"github.com/matzehuels/nodevis/pkg/errors"
)

// Format is an output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts "svg" and "png".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPNG:
		return Format(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unsupported format %q (want svg or png)", s)
}

// Render lays out dot with neato and writes it in the given format.
func Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	gvFormat := graphviz.SVG
	if format == FormatPNG {
		gvFormat = graphviz.PNG
	}
	var buf bytes.Buffer
	if err := gv.Render(ctx, g, gvFormat, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if format == FormatSVG {
		return normalizeViewBox(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

// RenderSVG renders dot as SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return Render(ctx, dot, FormatSVG)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root tag so the drawing scales with its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %.2f %.2f" width="%.0f" height="%.0f">`,
		match[1], match[2], w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// Renderer renders DOT and caches the output.
type Renderer struct {
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewRenderer returns a renderer using c. A nil cache disables caching.
func NewRenderer(c cache.Cache, ttl time.Duration) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Renderer{cache: c, keyer: cache.NewDefaultKeyer(), ttl: ttl}
}

// Render returns the rendered dot, from cache when possible.
func (r *Renderer) Render(ctx context.Context, dot string, format Format) ([]byte, error) {
	key := r.keyer.RenderKey(cache.Hash([]byte(dot)), cache.RenderKeyOpts{Format: string(format), Engine: "neato"})
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	out, err := Render(ctx, dot, format)
	if err != nil {
		return nil, err
	}
	_ = r.cache.Set(ctx, key, out, r.ttl)
	return out, nil
}
