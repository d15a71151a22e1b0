// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package richtext scans and rewrites document references embedded in
// rich-text payloads.
//
// A rich-text field's serialized form can reference other documents two
// ways: structured attributes in the serialized editor state
// ("docid"/"targetId"/"linkId" JSON keys), and hyperlinks whose
// destination is a /doc/<id> path (both in serialized JSON and in
// markdown-authored payloads). The clone engine uses ExtractIDs to
// decide which payloads need a post-pass and RewriteIDs to remap
// embedded IDs onto their clones, leaving IDs outside the clone map
// untouched.
//
// Markdown payloads are parsed with goldmark and scanned at the AST
// level, so only real link destinations count — a /doc/<id> inside a
// code block is not a reference.
package richtext

import (
	"regexp"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// attributePattern matches the structured reference attributes in a
// serialized editor payload: "docid":"<id>", "targetId":"<id>",
// "linkId":"<id>".
var attributePattern = regexp.MustCompile(`("docid"|"targetId"|"linkId")\s*:\s*"([0-9a-f]{32})"`)

// docPathPattern matches a /doc/<id> hyperlink destination anywhere in
// the payload. Used for rewriting; extraction of markdown links goes
// through the goldmark AST instead.
var docPathPattern = regexp.MustCompile(`(/doc/)([0-9a-f]{32})`)

// markdownParser is initialized once and reused. The parser
// configuration never changes and the goldmark parser is safe to
// share — parsing creates per-call state via Parse(reader).
var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(
			goldmark.WithExtensions(extension.Linkify),
		)
	})
	return markdownParser
}

// HasReferences reports whether the payload may embed document
// references. It is a cheap substring test used by the clone engine to
// decide whether a payload needs recording for the post-pass.
func HasReferences(data string) bool {
	return strings.Contains(data, `"docid":`) ||
		strings.Contains(data, `"targetId":`) ||
		strings.Contains(data, `"linkId":`) ||
		strings.Contains(data, "/doc/")
}

// ExtractIDs returns the distinct document IDs referenced by the
// payload, in first-appearance order.
func ExtractIDs(data string) []ref.DocumentID {
	seen := make(map[ref.DocumentID]bool)
	var ids []ref.DocumentID
	record := func(raw string) {
		id, err := ref.ParseDocumentID(raw)
		if err != nil || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	for _, match := range attributePattern.FindAllStringSubmatch(data, -1) {
		record(match[2])
	}
	for _, destination := range markdownLinkDestinations(data) {
		if match := docPathPattern.FindStringSubmatch(destination); match != nil {
			record(match[2])
		}
	}
	// Serialized editor payloads carry /doc/ hrefs outside any
	// markdown structure; pick those up too.
	for _, match := range docPathPattern.FindAllStringSubmatch(data, -1) {
		record(match[2])
	}
	return ids
}

// markdownLinkDestinations parses the payload as markdown and returns
// every link and autolink destination.
func markdownLinkDestinations(data string) []string {
	source := []byte(data)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	var destinations []string
	_ = ast.Walk(document, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch link := node.(type) {
		case *ast.Link:
			destinations = append(destinations, string(link.Destination))
		case *ast.AutoLink:
			destinations = append(destinations, string(link.URL(source)))
		}
		return ast.WalkContinue, nil
	})
	return destinations
}

// RewriteIDs returns the payload with every embedded document ID for
// which mapping returns a replacement rewritten to that replacement.
// IDs the mapping does not cover are left untouched — they reference
// documents outside the rewritten subgraph and must keep pointing at
// the originals.
func RewriteIDs(data string, mapping func(ref.DocumentID) (ref.DocumentID, bool)) string {
	rewritten := attributePattern.ReplaceAllStringFunc(data, func(match string) string {
		parts := attributePattern.FindStringSubmatch(match)
		id, err := ref.ParseDocumentID(parts[2])
		if err != nil {
			return match
		}
		if mapped, ok := mapping(id); ok {
			return parts[1] + `:"` + mapped.String() + `"`
		}
		return match
	})
	return docPathPattern.ReplaceAllStringFunc(rewritten, func(match string) string {
		parts := docPathPattern.FindStringSubmatch(match)
		id, err := ref.ParseDocumentID(parts[2])
		if err != nil {
			return match
		}
		if mapped, ok := mapping(id); ok {
			return parts[1] + mapped.String()
		}
		return match
	})
}
