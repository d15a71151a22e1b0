// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/docgraph-foundation/docgraph/lib/ref"
)

func TestWireRoundTripThroughJSON(t *testing.T) {
	t.Parallel()

	id := ref.NewDocumentID()
	tests := []struct {
		name  string
		field Field
		check func(t *testing.T, decoded Field)
	}{
		{
			name:  "string",
			field: String("hello"),
			check: func(t *testing.T, decoded Field) {
				if decoded != String("hello") {
					t.Errorf("got %v", decoded)
				}
			},
		},
		{
			name:  "number",
			field: Number(2.5),
			check: func(t *testing.T, decoded Field) {
				if decoded != Number(2.5) {
					t.Errorf("got %v", decoded)
				}
			},
		},
		{
			name:  "boolean",
			field: Boolean(true),
			check: func(t *testing.T, decoded Field) {
				if decoded != Boolean(true) {
					t.Errorf("got %v", decoded)
				}
			},
		},
		{
			name:  "proxy stub",
			field: NewProxy(id),
			check: func(t *testing.T, decoded Field) {
				proxy, ok := decoded.(*Proxy)
				if !ok || proxy.RefID() != id {
					t.Errorf("got %#v", decoded)
				}
				if proxy.Prefetch() {
					t.Error("plain proxy decoded as prefetch")
				}
			},
		},
		{
			name:  "date",
			field: NewDate(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
			check: func(t *testing.T, decoded Field) {
				date, ok := decoded.(*Date)
				if !ok || !date.Time().Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
					t.Errorf("got %#v", decoded)
				}
			},
		},
		{
			name:  "richtext",
			field: NewRichText(`{"docid":"abc"}`, "plain"),
			check: func(t *testing.T, decoded Field) {
				rt, ok := decoded.(*RichText)
				if !ok || rt.Data() != `{"docid":"abc"}` || rt.Text() != "plain" {
					t.Errorf("got %#v", decoded)
				}
			},
		},
		{
			name:  "web url",
			field: MustNewURL(URLWeb, "https://example.com"),
			check: func(t *testing.T, decoded Field) {
				u, ok := decoded.(*URL)
				if !ok || u.URLKind() != URLWeb || u.Href() != "https://example.com" {
					t.Errorf("got %#v", decoded)
				}
			},
		},
		{
			name:  "ink",
			field: NewInk([][]Point{{{X: 1, Y: 2}}}),
			check: func(t *testing.T, decoded Field) {
				ink, ok := decoded.(*Ink)
				if !ok || len(ink.Strokes()) != 1 || ink.Strokes()[0][0] != (Point{X: 1, Y: 2}) {
					t.Errorf("got %#v", decoded)
				}
			},
		},
		{
			name:  "computed keeps formula",
			field: NewComputed("this.a + 1"),
			check: func(t *testing.T, decoded Field) {
				c, ok := decoded.(*Computed)
				if !ok || c.Formula() != "this.a + 1" {
					t.Errorf("got %#v", decoded)
				}
			},
		},
		{
			name:  "nested list",
			field: NewList(String("x"), NewList(Number(1)), NewProxy(id)),
			check: func(t *testing.T, decoded Field) {
				list, ok := decoded.(*List)
				if !ok || list.Len() != 3 {
					t.Fatalf("got %#v", decoded)
				}
				if _, ok := list.At(1).(*List); !ok {
					t.Errorf("nested list lost: %#v", list.At(1))
				}
				if r, ok := list.At(2).(Ref); !ok || r.RefID() != id {
					t.Errorf("nested proxy lost: %#v", list.At(2))
				}
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			// Serialize through encoding/json to mirror the delta
			// protocol: values arrive as parsed JSON, not as the
			// in-memory wire maps.
			encoded, err := json.Marshal(ToWire(test.field))
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var wire any
			if err := json.Unmarshal(encoded, &wire); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			decoded, err := FromWire(wire)
			if err != nil {
				t.Fatalf("FromWire: %v", err)
			}
			test.check(t, decoded)
		})
	}
}

func TestPrefetchProxyDiscriminator(t *testing.T) {
	t.Parallel()

	id := ref.NewDocumentID()
	wire := ToWire(&Proxy{fieldID: id, prefetch: true}).(map[string]any)
	if wire["__type"] != "prefetch_proxy" {
		t.Fatalf("discriminator: got %v", wire["__type"])
	}
	decoded, err := FromWire(wire)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if proxy := decoded.(*Proxy); !proxy.Prefetch() || proxy.RefID() != id {
		t.Errorf("got %#v", proxy)
	}
}

func TestFromWireRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		wire any
	}{
		{name: "null", wire: nil},
		{name: "missing discriminator", wire: map[string]any{"url": "https://x"}},
		{name: "unknown discriminator", wire: map[string]any{"__type": "hologram"}},
		{name: "date without payload", wire: map[string]any{"__type": "date"}},
		{name: "bad date string", wire: map[string]any{"__type": "date", "date": "yesterday"}},
		{name: "proxy with invalid id", wire: map[string]any{"__type": "proxy", "fieldId": "nope"}},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if _, err := FromWire(test.wire); err == nil {
				t.Errorf("expected error for %#v", test.wire)
			}
		})
	}
}
