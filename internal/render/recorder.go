package render

import "image/color"

// OpKind names a recorded drawing primitive.
type OpKind string

// Recorded primitives.
const (
	OpClear  OpKind = "clear"
	OpCircle OpKind = "circle"
	OpLine   OpKind = "line"
	OpText   OpKind = "text"
)

// Op is one recorded call on a Recorder.
type Op struct {
	Kind   OpKind
	Points []float64
	Color  color.RGBA
	Stroke Stroke
	Font   Font
	Text   string
}

// Recorder is a Surface that remembers every call.
type Recorder struct {
	Width  float64
	Height float64
	Ops    []Op
}

// NewRecorder creates a recorder of the given size.
func NewRecorder(width, height float64) *Recorder {
	return &Recorder{Width: width, Height: height}
}

// Size returns the configured dimensions.
func (r *Recorder) Size() (float64, float64) {
	return r.Width, r.Height
}

// Clear records a clear and forgets previous operations.
func (r *Recorder) Clear() {
	r.Ops = append(r.Ops[:0], Op{Kind: OpClear})
}

// FillCircle records a filled circle.
func (r *Recorder) FillCircle(cx, cy, radius float64, fill color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, Points: []float64{cx, cy, radius}, Color: fill})
}

// StrokeLine records a line.
func (r *Recorder) StrokeLine(x1, y1, x2, y2 float64, stroke Stroke) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Points: []float64{x1, y1, x2, y2}, Stroke: stroke, Color: stroke.Color})
}

// FillText records text.
func (r *Recorder) FillText(text string, x, y float64, font Font, fill color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Points: []float64{x, y}, Font: font, Color: fill, Text: text})
}

// Filter returns the recorded operations of one kind, in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op

	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}

	return out
}
