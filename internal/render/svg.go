package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"strconv"
)

// SVGCanvas is a Surface that keeps its drawing as SVG elements.
// It is not safe for concurrent use.
type SVGCanvas struct {
	width  float64
	height float64
	body   bytes.Buffer
}

// NewSVGCanvas creates a canvas of the given size.
func NewSVGCanvas(width, height float64) *SVGCanvas {
	return &SVGCanvas{
		width:  width,
		height: height,
	}
}

// Size returns the logical canvas dimensions.
func (c *SVGCanvas) Size() (float64, float64) {
	return c.width, c.height
}

// Clear drops every element.
func (c *SVGCanvas) Clear() {
	c.body.Reset()
}

// FillCircle appends a filled circle.
func (c *SVGCanvas) FillCircle(cx, cy, r float64, fill color.RGBA) {
	fmt.Fprintf(&c.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`,
		num(cx), num(cy), num(r), CSSColor(fill))
}

// StrokeLine appends a line.
func (c *SVGCanvas) StrokeLine(x1, y1, x2, y2 float64, stroke Stroke) {
	lineCap := stroke.Cap
	if lineCap == "" {
		lineCap = CapButt
	}

	fmt.Fprintf(&c.body,
		`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="%s"/>`,
		num(x1), num(y1), num(x2), num(y2), CSSColor(stroke.Color), num(stroke.Width), lineCap)
}

// FillText appends text centered on (x, y).
func (c *SVGCanvas) FillText(text string, x, y float64, font Font, fill color.RGBA) {
	fmt.Fprintf(&c.body,
		`<text x="%s" y="%s" font-size="%s" font-weight="%s" font-family="%s" fill="%s" `+
			`text-anchor="middle" dominant-baseline="middle">`,
		num(x), num(y), num(font.Size), escape(font.Weight), escape(font.Family), CSSColor(fill))
	_ = xml.EscapeText(&c.body, []byte(text))
	c.body.WriteString(`</text>`)
}

// Bytes returns the current drawing as a standalone SVG document.
func (c *SVGCanvas) Bytes() []byte {
	var doc bytes.Buffer

	w, h := num(c.width), num(c.height)
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`, w, h, w, h)
	doc.Write(c.body.Bytes())
	doc.WriteString(`</svg>`)

	return doc.Bytes()
}

// String returns Bytes as a string.
func (c *SVGCanvas) String() string {
	return string(c.Bytes())
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func escape(s string) string {
	var buf bytes.Buffer

	_ = xml.EscapeText(&buf, []byte(s))

	return buf.String()
}
