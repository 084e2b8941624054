// Package render draws analog clock faces onto a Surface.
//
// Surface is the small set of 2D primitives a face needs: clear, filled
// circle, stroked line and centered text. SVGCanvas implements it by
// accumulating SVG elements; Recorder keeps the raw operations, which is what
// tests look at.
package render
