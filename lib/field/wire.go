// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package field

import (
	"fmt"
	"time"

	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// Wire encoding: every field kind maps to a JSON-compatible value.
// Primitives are encoded raw; everything else is a map carrying a
// __type discriminator. Reference fields — proxies and documents stored
// directly in slots — are always encoded as {fieldId, __type} stubs,
// never inlined: the referenced document is serialized (or not) by the
// graph walker, and the stub keeps the reference by ID.
//
// The same encoding serves the export archive (JSON), arena snapshots
// (CBOR), and incoming field deltas.

// ToWire encodes a field into its wire form.
func ToWire(f Field) any {
	switch v := f.(type) {
	case String:
		return string(v)
	case Number:
		return float64(v)
	case Boolean:
		return bool(v)
	case *List:
		elems := make([]any, v.Len())
		for i, elem := range v.Elements() {
			elems[i] = ToWire(elem)
		}
		return map[string]any{"__type": "list", "fields": elems}
	case *Date:
		return map[string]any{"__type": "date", "date": v.String()}
	case *RichText:
		return map[string]any{"__type": "richtext", "Data": v.Data(), "Text": v.Text()}
	case *URL:
		return map[string]any{"__type": string(v.URLKind()), "url": v.Href()}
	case *Ink:
		strokes := make([]any, len(v.Strokes()))
		for i, stroke := range v.Strokes() {
			points := make([]any, len(stroke))
			for j, point := range stroke {
				points[j] = map[string]any{"x": point.X, "y": point.Y}
			}
			strokes[i] = points
		}
		return map[string]any{"__type": "ink", "strokes": strokes}
	case *Script:
		return map[string]any{"__type": "script", "script": v.Source()}
	case *Computed:
		return map[string]any{"__type": "computed", "script": v.Formula()}
	case *Proxy:
		discriminator := "proxy"
		if v.Prefetch() {
			discriminator = "prefetch_proxy"
		}
		return map[string]any{"__type": discriminator, "fieldId": v.RefID().String()}
	case Ref:
		return map[string]any{"__type": "proxy", "fieldId": v.RefID().String()}
	default:
		return nil
	}
}

// FromWire decodes a wire value into a field. Reference stubs decode to
// lazy proxies; the store resolves them on first access. Unknown
// discriminators and malformed payloads are errors so that a corrupt
// incoming delta can be dropped without assigning a wrong value.
func FromWire(v any) (Field, error) {
	switch value := v.(type) {
	case string:
		return String(value), nil
	case bool:
		return Boolean(value), nil
	case float64:
		return Number(value), nil
	// CBOR decoding produces integer types for whole numbers.
	case int:
		return Number(value), nil
	case int64:
		return Number(value), nil
	case uint64:
		return Number(value), nil
	case []any:
		return listFromWire(value)
	case map[string]any:
		return taggedFromWire(value)
	case nil:
		return nil, fmt.Errorf("field: cannot decode null wire value")
	default:
		return nil, fmt.Errorf("field: cannot decode wire value of type %T", v)
	}
}

func listFromWire(elems []any) (*List, error) {
	list := NewList()
	for i, elem := range elems {
		decoded, err := FromWire(elem)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		list.Append(decoded)
	}
	return list, nil
}

func taggedFromWire(m map[string]any) (Field, error) {
	discriminator, ok := m["__type"].(string)
	if !ok {
		return nil, fmt.Errorf("field: wire object is missing __type discriminator")
	}
	switch discriminator {
	case "list":
		elems, ok := m["fields"].([]any)
		if !ok {
			return nil, fmt.Errorf("field: list wire object has no fields array")
		}
		return listFromWire(elems)
	case "date":
		raw, ok := m["date"].(string)
		if !ok {
			return nil, fmt.Errorf("field: date wire object has no date string")
		}
		when, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("field: invalid date %q: %w", raw, err)
		}
		return NewDate(when), nil
	case "richtext", "RichTextField":
		data, _ := m["Data"].(string)
		text, _ := m["Text"].(string)
		return NewRichText(data, text), nil
	case "image", "video", "audio", "web", "pdf":
		href, ok := m["url"].(string)
		if !ok {
			return nil, fmt.Errorf("field: %s wire object has no url string", discriminator)
		}
		return NewURL(URLKind(discriminator), href)
	case "ink":
		return inkFromWire(m)
	case "script":
		source, ok := m["script"].(string)
		if !ok {
			return nil, fmt.Errorf("field: script wire object has no script string")
		}
		return NewScript(source), nil
	case "computed":
		formula, ok := m["script"].(string)
		if !ok {
			return nil, fmt.Errorf("field: computed wire object has no script string")
		}
		return NewComputed(formula), nil
	case "proxy", "prefetch_proxy":
		raw, ok := m["fieldId"].(string)
		if !ok {
			return nil, fmt.Errorf("field: %s wire object has no fieldId", discriminator)
		}
		id, err := ref.ParseDocumentID(raw)
		if err != nil {
			return nil, fmt.Errorf("field: %s wire object: %w", discriminator, err)
		}
		proxy := NewProxy(id)
		proxy.prefetch = discriminator == "prefetch_proxy"
		return proxy, nil
	default:
		return nil, fmt.Errorf("field: unknown wire discriminator %q", discriminator)
	}
}

func inkFromWire(m map[string]any) (*Ink, error) {
	rawStrokes, ok := m["strokes"].([]any)
	if !ok {
		return nil, fmt.Errorf("field: ink wire object has no strokes array")
	}
	strokes := make([][]Point, len(rawStrokes))
	for i, rawStroke := range rawStrokes {
		points, ok := rawStroke.([]any)
		if !ok {
			return nil, fmt.Errorf("field: ink stroke %d is not an array", i)
		}
		stroke := make([]Point, len(points))
		for j, rawPoint := range points {
			pm, ok := rawPoint.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("field: ink point %d/%d is not an object", i, j)
			}
			x, xok := asFloat(pm["x"])
			y, yok := asFloat(pm["y"])
			if !xok || !yok {
				return nil, fmt.Errorf("field: ink point %d/%d has non-numeric coordinates", i, j)
			}
			stroke[j] = Point{X: x, Y: y}
		}
		strokes[i] = stroke
	}
	return NewInk(strokes), nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
