// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package richtext

import (
	"strings"
	"testing"

	"github.com/docgraph-foundation/docgraph/lib/ref"
)

var (
	idA = ref.MustParseDocumentID("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	idB = ref.MustParseDocumentID("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	idC = ref.MustParseDocumentID("cccccccccccccccccccccccccccccccc")
)

func TestHasReferences(t *testing.T) {
	t.Parallel()

	if !HasReferences(`{"docid":"` + idA.String() + `"}`) {
		t.Error("docid attribute not detected")
	}
	if !HasReferences("see [here](/doc/" + idA.String() + ")") {
		t.Error("doc path not detected")
	}
	if HasReferences("plain text with no references") {
		t.Error("false positive on plain text")
	}
}

func TestExtractIDs(t *testing.T) {
	t.Parallel()

	payload := `{"content":[{"attrs":{"docid":"` + idA.String() + `","targetId":"` + idB.String() + `"}},` +
		`{"attrs":{"linkId":"` + idA.String() + `"}}]}`
	ids := ExtractIDs(payload)
	if len(ids) != 2 || ids[0] != idA || ids[1] != idB {
		t.Errorf("got %v, want [%v %v]", ids, idA, idB)
	}
}

func TestExtractIDsFromMarkdownLinks(t *testing.T) {
	t.Parallel()

	payload := "Intro [target](https://store.example/doc/" + idC.String() + ") outro"
	ids := ExtractIDs(payload)
	if len(ids) != 1 || ids[0] != idC {
		t.Errorf("got %v, want [%v]", ids, idC)
	}
}

func TestRewriteIDs(t *testing.T) {
	t.Parallel()

	mapping := map[ref.DocumentID]ref.DocumentID{idA: idC}
	lookup := func(id ref.DocumentID) (ref.DocumentID, bool) {
		mapped, ok := mapping[id]
		return mapped, ok
	}

	payload := `{"docid":"` + idA.String() + `","targetId":"` + idB.String() + `"}` +
		` plus a link: /doc/` + idA.String()
	rewritten := RewriteIDs(payload, lookup)

	if !strings.Contains(rewritten, `"docid":"`+idC.String()+`"`) {
		t.Errorf("docid not rewritten: %s", rewritten)
	}
	// idB has no clone; it references a document outside the cloned
	// subgraph and must keep pointing at the original.
	if !strings.Contains(rewritten, `"targetId":"`+idB.String()+`"`) {
		t.Errorf("unmapped targetId should be untouched: %s", rewritten)
	}
	if !strings.Contains(rewritten, "/doc/"+idC.String()) {
		t.Errorf("doc path not rewritten: %s", rewritten)
	}
	if strings.Contains(rewritten, idA.String()) {
		t.Errorf("original mapped ID should not remain: %s", rewritten)
	}
}

func TestRewriteIDsIdentityWhenUnmapped(t *testing.T) {
	t.Parallel()

	payload := `{"docid":"` + idA.String() + `"} /doc/` + idB.String()
	rewritten := RewriteIDs(payload, func(ref.DocumentID) (ref.DocumentID, bool) {
		return ref.DocumentID{}, false
	})
	if rewritten != payload {
		t.Errorf("payload changed with empty mapping:\n%s\n%s", payload, rewritten)
	}
}
