// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"

	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// Kind identifies the concrete kind of a Field. The set is closed:
// a slot holds exactly one of these kinds, and a typed accessor that
// finds a different kind reports absence rather than coercing.
type Kind int

const (
	// KindInvalid is the zero Kind; no valid Field reports it.
	KindInvalid Kind = iota
	KindString
	KindNumber
	KindBoolean
	KindList
	KindDate
	KindRichText
	KindURL
	KindInk
	KindScript
	KindComputed
	KindProxy
	KindDocument
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "list"
	case KindDate:
		return "date"
	case KindRichText:
		return "richtext"
	case KindURL:
		return "url"
	case KindInk:
		return "ink"
	case KindScript:
		return "script"
	case KindComputed:
		return "computed"
	case KindProxy:
		return "proxy"
	case KindDocument:
		return "document"
	default:
		return fmt.Sprintf("invalid(%d)", int(k))
	}
}

// Field is a value a document slot may hold. Implementations are the
// primitives, the object fields, and the reference fields declared in
// this package, plus the document type itself (a document stored
// directly in a slot is a reference field).
type Field interface {
	// FieldKind reports the concrete kind of this value.
	FieldKind() Kind
}

// Ref is a reference field: a value that stands for a document and is
// addressed by the document's stable ID. Implemented by *Proxy and by
// the document type.
type Ref interface {
	Field
	// RefID returns the ID of the referenced document.
	RefID() ref.DocumentID
}

// String is a primitive string field.
type String string

// FieldKind implements Field.
func (String) FieldKind() Kind { return KindString }

// Number is a primitive numeric field. All document numbers are
// float64, matching the JSON data model of the delta protocol.
type Number float64

// FieldKind implements Field.
func (Number) FieldKind() Kind { return KindNumber }

// Boolean is a primitive boolean field.
type Boolean bool

// FieldKind implements Field.
func (Boolean) FieldKind() Kind { return KindBoolean }

// state is the occupancy state of a Result.
type state int

const (
	absent state = iota
	present
	pending
)

// Result is the outcome of reading a document slot. A missing key is
// Absent — a first-class result, never an error. A slot whose reference
// is still being resolved is Pending; callers treat Pending as "try
// again later", not as failure.
type Result struct {
	value Field
	state state
}

// Absent is the Result for a missing slot.
var Absent = Result{}

// Pending is the Result for a slot whose referenced document has not
// finished resolving.
var Pending = Result{state: pending}

// Of wraps a concrete field value in a Result. A nil field produces
// Absent.
func Of(f Field) Result {
	if f == nil {
		return Absent
	}
	return Result{value: f, state: present}
}

// IsAbsent reports whether the slot had no value.
func (r Result) IsAbsent() bool { return r.state == absent }

// IsPending reports whether the slot's reference is still resolving.
func (r Result) IsPending() bool { return r.state == pending }

// Value returns the concrete field and whether one is present.
func (r Result) Value() (Field, bool) {
	if r.state != present {
		return nil, false
	}
	return r.value, true
}

// AsString returns the string value, or ("", false) if the slot is
// absent, pending, or holds a different kind.
func (r Result) AsString() (string, bool) {
	if s, ok := r.value.(String); ok && r.state == present {
		return string(s), true
	}
	return "", false
}

// StringOr returns the string value or fallback.
func (r Result) StringOr(fallback string) string {
	if s, ok := r.AsString(); ok {
		return s
	}
	return fallback
}

// AsNumber returns the numeric value, or (0, false) if the slot is
// absent, pending, or holds a different kind.
func (r Result) AsNumber() (float64, bool) {
	if n, ok := r.value.(Number); ok && r.state == present {
		return float64(n), true
	}
	return 0, false
}

// NumberOr returns the numeric value or fallback.
func (r Result) NumberOr(fallback float64) float64 {
	if n, ok := r.AsNumber(); ok {
		return n
	}
	return fallback
}

// AsBool returns the boolean value, or (false, false) if the slot is
// absent, pending, or holds a different kind.
func (r Result) AsBool() (bool, bool) {
	if b, ok := r.value.(Boolean); ok && r.state == present {
		return bool(b), true
	}
	return false, false
}

// BoolOr returns the boolean value or fallback.
func (r Result) BoolOr(fallback bool) bool {
	if b, ok := r.AsBool(); ok {
		return b
	}
	return fallback
}

// AsList returns the list value, or (nil, false) if the slot is absent,
// pending, or holds a different kind.
func (r Result) AsList() (*List, bool) {
	if l, ok := r.value.(*List); ok && r.state == present {
		return l, true
	}
	return nil, false
}

// AsRef returns the reference value (a proxy or a document), or
// (nil, false) if the slot is absent, pending, or not a reference.
func (r Result) AsRef() (Ref, bool) {
	if ref, ok := r.value.(Ref); ok && r.state == present {
		return ref, true
	}
	return nil, false
}

// AsObject returns the object-field value, or (nil, false) if the slot
// is absent, pending, or not an object field.
func (r Result) AsObject() (Object, bool) {
	if o, ok := r.value.(Object); ok && r.state == present {
		return o, true
	}
	return nil, false
}
