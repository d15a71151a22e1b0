// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"
	"time"
)

// Date is an object field holding a timestamp.
type Date struct {
	owned
	when time.Time
}

// NewDate returns a date field for the given time.
func NewDate(when time.Time) *Date { return &Date{when: when} }

// FieldKind implements Field.
func (*Date) FieldKind() Kind { return KindDate }

// Time returns the wrapped timestamp.
func (d *Date) Time() time.Time { return d.when }

// String returns the RFC 3339 rendering used by the export archive.
func (d *Date) String() string { return d.when.Format(time.RFC3339) }

// Copy implements Object.
func (d *Date) Copy() Object { return &Date{when: d.when} }

// RichText is an object field holding a rich-text payload. Data is the
// serialized form (which may embed other documents' IDs as hyperlink
// and anchor references — the clone post-pass rewrites those); Text is
// the plain-text projection used for search and display fallbacks.
type RichText struct {
	owned
	data string
	text string
}

// NewRichText returns a rich-text field with the given serialized
// payload and plain-text projection.
func NewRichText(data, text string) *RichText {
	return &RichText{data: data, text: text}
}

// FieldKind implements Field.
func (*RichText) FieldKind() Kind { return KindRichText }

// Data returns the serialized payload.
func (r *RichText) Data() string { return r.data }

// Text returns the plain-text projection.
func (r *RichText) Text() string { return r.text }

// Copy implements Object.
func (r *RichText) Copy() Object { return &RichText{data: r.data, text: r.text} }

// URLKind discriminates the media kinds a URL field can reference.
type URLKind string

const (
	URLImage URLKind = "image"
	URLVideo URLKind = "video"
	URLAudio URLKind = "audio"
	URLWeb   URLKind = "web"
	URLPDF   URLKind = "pdf"
)

// valid reports whether the kind is one of the declared constants.
func (k URLKind) valid() bool {
	switch k {
	case URLImage, URLVideo, URLAudio, URLWeb, URLPDF:
		return true
	default:
		return false
	}
}

// URL is an object field referencing external media by address.
type URL struct {
	owned
	kind URLKind
	href string
}

// NewURL returns a URL field of the given media kind.
func NewURL(kind URLKind, href string) (*URL, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("field: unknown URL kind %q", kind)
	}
	return &URL{kind: kind, href: href}, nil
}

// MustNewURL is like NewURL but panics on error. Use in tests and
// static initialization where the kind is a declared constant.
func MustNewURL(kind URLKind, href string) *URL {
	u, err := NewURL(kind, href)
	if err != nil {
		panic(err)
	}
	return u
}

// FieldKind implements Field.
func (*URL) FieldKind() Kind { return KindURL }

// URLKind returns the media kind.
func (u *URL) URLKind() URLKind { return u.kind }

// Href returns the address.
func (u *URL) Href() string { return u.href }

// Copy implements Object.
func (u *URL) Copy() Object { return &URL{kind: u.kind, href: u.href} }

// Point is a single sample in an ink stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ink is an object field holding a collection of pen strokes.
type Ink struct {
	owned
	strokes [][]Point
}

// NewInk returns an ink field with the given strokes. The slices are
// taken over by the field; callers must not retain them.
func NewInk(strokes [][]Point) *Ink { return &Ink{strokes: strokes} }

// FieldKind implements Field.
func (*Ink) FieldKind() Kind { return KindInk }

// Strokes returns the stroke collection. Callers must not mutate it.
func (i *Ink) Strokes() [][]Point { return i.strokes }

// Copy implements Object.
func (i *Ink) Copy() Object {
	strokes := make([][]Point, len(i.strokes))
	for j, stroke := range i.strokes {
		strokes[j] = append([]Point(nil), stroke...)
	}
	return &Ink{strokes: strokes}
}

// Script is an object field holding an executable script source.
// Docgraph stores and transports scripts; evaluation is the embedding
// application's concern.
type Script struct {
	owned
	source string
}

// NewScript returns a script field with the given source.
func NewScript(source string) *Script { return &Script{source: source} }

// FieldKind implements Field.
func (*Script) FieldKind() Kind { return KindScript }

// Source returns the script source.
func (s *Script) Source() string { return s.source }

// Copy implements Object.
func (s *Script) Copy() Object { return &Script{source: s.source} }

// Computed is an object field whose value is derived from a formula.
// The formula is the durable part: cloning and copying carry the
// formula, never the last evaluated value.
type Computed struct {
	owned
	formula   string
	evaluated Field
}

// NewComputed returns a computed field with the given formula.
func NewComputed(formula string) *Computed { return &Computed{formula: formula} }

// FieldKind implements Field.
func (*Computed) FieldKind() Kind { return KindComputed }

// Formula returns the formula source.
func (c *Computed) Formula() string { return c.formula }

// SetEvaluated caches the most recent evaluation result. The cache is
// transient: it is not serialized and not carried by Copy.
func (c *Computed) SetEvaluated(value Field) { c.evaluated = value }

// Evaluated returns the cached evaluation result, or Absent if the
// formula has not been evaluated.
func (c *Computed) Evaluated() Result { return Of(c.evaluated) }

// Copy implements Object. Only the formula is copied.
func (c *Computed) Copy() Object { return &Computed{formula: c.formula} }
