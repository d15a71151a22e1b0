// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"errors"
	"testing"

	"github.com/docgraph-foundation/docgraph/lib/acl"
	"github.com/docgraph-foundation/docgraph/lib/field"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

var (
	alice = ref.MustParsePrincipal("alice@example.com")
	bob   = ref.MustParsePrincipal("bob@example.com")
)

func newTestStore(t *testing.T, principal ref.Principal) *Store {
	t.Helper()
	return NewStore(Options{Principal: principal})
}

// authoredBy rewrites a document's author, standing in for a record
// that arrived from another session.
func authoredBy(doc *Document, author ref.Principal) *Document {
	doc.author = author
	doc.aclCache.valid = false
	return doc
}

func TestGetInheritsThroughPrototype(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	parent := store.NewDocument()
	if err := parent.Set("title", field.String("A")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	child := store.NewDocument()
	child.SetProto(parent)

	if got := child.Get("title").StringOr(""); got != "A" {
		t.Fatalf("inherited title = %q, want %q", got, "A")
	}

	// A write lands on the child itself, never the prototype.
	if err := child.Set("title", field.String("B")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := child.Get("title").StringOr(""); got != "B" {
		t.Fatalf("own title = %q, want %q", got, "B")
	}
	if got := parent.Get("title").StringOr(""); got != "A" {
		t.Fatalf("prototype title = %q, want %q (write must not propagate)", got, "A")
	}
}

func TestGetAbsentIsNotAnError(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)
	doc := store.NewDocument()

	result := doc.Get("missing")
	if !result.IsAbsent() {
		t.Fatalf("Get on missing key: got %+v, want absent", result)
	}
	if _, ok := result.AsString(); ok {
		t.Fatal("absent result must not surface a value")
	}
}

func TestGetIgnoreProtoStopsAtOwnFields(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	parent := store.NewDocument()
	if err := parent.Set("title", field.String("A")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	child := store.NewDocument()
	child.SetProto(parent)

	if got := child.GetIgnoreProto("title"); !got.IsAbsent() {
		t.Fatalf("GetIgnoreProto = %+v, want absent", got)
	}
}

func TestSetRejectsSecondOwnerForObjectFields(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	list := field.NewList(field.String("x"))
	first := store.NewDocument()
	second := store.NewDocument()

	if err := first.Set("items", list); err != nil {
		t.Fatalf("first Set: %v", err)
	}
	err := second.Set("items", list)
	if !errors.Is(err, field.ErrAlreadyOwned) {
		t.Fatalf("second Set err = %v, want ErrAlreadyOwned", err)
	}
}

func TestSetNilDeletesSlot(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)
	doc := store.NewDocument()

	if err := doc.Set("title", field.String("x")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := doc.Delete("title"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if doc.Has("title") {
		t.Fatal("slot still present after Delete")
	}
}

func TestGetProtoTerminatesAtPrototypeFlag(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	base := store.NewDocument()
	if err := base.Set("isPrototype", field.Boolean(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	middle := store.NewDocument()
	middle.SetProto(base)
	leaf := store.NewDocument()
	leaf.SetProto(middle)

	data, err := leaf.GetProto()
	if err != nil {
		t.Fatalf("GetProto: %v", err)
	}
	if data != base {
		t.Fatalf("GetProto = %v, want the prototype-flagged terminal", data)
	}
}

func TestGetProtoTerminatesAtProtolessNode(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	root := store.NewDocument()
	leaf := store.NewDocument()
	leaf.SetProto(root)

	data, err := leaf.GetProto()
	if err != nil {
		t.Fatalf("GetProto: %v", err)
	}
	if data != root {
		t.Fatalf("GetProto = %v, want the protoless terminal", data)
	}
}

func TestGetProtoSignalsCyclicChain(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	a := store.NewDocument()
	b := store.NewDocument()
	a.SetProto(b)
	b.SetProto(a)

	data, err := a.GetProto()
	if !errors.Is(err, ErrCyclicPrototype) {
		t.Fatalf("GetProto err = %v, want ErrCyclicPrototype", err)
	}
	if data != a {
		t.Fatal("cycle fallback must return the original document")
	}
}

func TestAreProtosEqual(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	proto := store.NewDocument()
	if err := proto.Set("isPrototype", field.Boolean(true)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	left := store.MakeDelegate(proto, "left")
	right := store.MakeDelegate(proto, "right")

	sameContent := store.NewDocument()
	other := store.NewDocument()
	for _, doc := range []*Document{sameContent, other} {
		if err := doc.Set("title", field.String("same")); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	cases := []struct {
		name     string
		doc, oth *Document
		want     bool
	}{
		{"identical", proto, proto, true},
		{"delegate and its prototype", left, proto, true},
		{"two delegates of one prototype", left, right, true},
		{"equal content, unrelated identity", sameContent, other, false},
		{"nil operand", nil, proto, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AreProtosEqual(tc.doc, tc.oth); got != tc.want {
				t.Fatalf("AreProtosEqual = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAliasResolvesToSameData(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	doc := store.NewDocument()
	if err := doc.Set("title", field.String("original")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	alias := store.MakeAlias(doc)

	if alias == doc {
		t.Fatal("alias must be a distinct document")
	}
	if got := alias.Get("title").StringOr(""); got != "original" {
		t.Fatalf("alias title = %q, want inherited %q", got, "original")
	}
	data, err := alias.GetProto()
	if err != nil {
		t.Fatalf("GetProto: %v", err)
	}
	if !AreProtosEqual(doc, data) {
		t.Fatal("alias data document must match the original")
	}
	if aliasOf, ok := alias.GetDocument("aliasOf"); !ok || aliasOf != doc {
		t.Fatalf("aliasOf = %v, want the original", aliasOf)
	}
	aliases, ok := doc.Get("aliases").AsList()
	if !ok || aliases.IndexOfRef(alias.ID()) < 0 {
		t.Fatal("original must register the alias in its aliases list")
	}
}

func TestEffectiveACLCascade(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, bob)

	parent := authoredBy(store.NewDocument(), alice)
	if err := parent.setFromServer("acl-Public", field.String("Admin")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	child := authoredBy(store.NewDocument(), alice)
	child.SetProto(parent)

	if got := child.EffectiveACL(); got != acl.Admin {
		t.Fatalf("inherited level = %v, want Admin", got)
	}

	// An own grant overrides the whole chain.
	if err := child.Set("acl-Public", field.String("None")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := child.EffectiveACL(); got != acl.Private {
		t.Fatalf("own level = %v, want Private", got)
	}
}

func TestEffectiveACLPrincipalSpecificBeatsPublic(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, bob)

	doc := authoredBy(store.NewDocument(), alice)
	if err := doc.setFromServer("acl-Public", field.String("View")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	if err := doc.setFromServer(bob.AclFieldName(), field.String("Admin")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	if got := doc.EffectiveACL(); got != acl.Admin {
		t.Fatalf("level = %v, want the principal-specific Admin", got)
	}
}

func TestEffectiveACLDefaults(t *testing.T) {
	t.Parallel()

	asAuthor := newTestStore(t, alice)
	own := asAuthor.NewDocument()
	if got := own.EffectiveACL(); got != acl.Admin {
		t.Fatalf("author default = %v, want Admin", got)
	}

	asOther := newTestStore(t, bob)
	foreign := authoredBy(asOther.NewDocument(), alice)
	if got := foreign.EffectiveACL(); got != acl.ReadOnly {
		t.Fatalf("non-author default = %v, want ReadOnly", got)
	}
}

func TestPrivateDocumentHidesFieldsAndRefusesWrites(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, bob)

	doc := authoredBy(store.NewDocument(), alice)
	if err := doc.setFromServer("title", field.String("secret")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	if err := doc.setFromServer("acl-Public", field.String("None")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}

	if keys := doc.Keys(); keys != nil {
		t.Fatalf("Keys on private document = %v, want none", keys)
	}
	if !doc.Get("title").IsAbsent() {
		t.Fatal("private document must not surface field values")
	}
	err := doc.Set("title", field.String("overwrite"))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Set err = %v, want ErrPermissionDenied", err)
	}
	if got := doc.GetIgnoreProto("title"); !got.IsAbsent() {
		t.Fatal("rejected write must leave the document hidden and unchanged")
	}
}

func TestOwnerBypassesPrivateHiding(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	doc := store.NewDocument()
	if err := doc.Set("title", field.String("mine")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := doc.Set("acl-Public", field.String("None")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := doc.Get("title").StringOr(""); got != "mine" {
		t.Fatalf("owner read = %q, want %q", got, "mine")
	}
	if err := doc.Set("title", field.String("still mine")); err != nil {
		t.Fatalf("owner write rejected: %v", err)
	}
}

func TestWriteBelowEditIsRejected(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, bob)

	doc := authoredBy(store.NewDocument(), alice)
	if err := doc.setFromServer("acl-Public", field.String("View")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	err := doc.Set("title", field.String("x"))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("Set err = %v, want ErrPermissionDenied", err)
	}
}

func TestACLWriteRequiresAdmin(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, bob)

	doc := authoredBy(store.NewDocument(), alice)
	if err := doc.setFromServer("acl-Public", field.String("Edit")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}

	// Edit covers ordinary fields but not sharing grants.
	if err := doc.Set("title", field.String("x")); err != nil {
		t.Fatalf("field write at Edit: %v", err)
	}
	err := doc.Set(bob.AclFieldName(), field.String("Admin"))
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("ACL write at Edit err = %v, want ErrPermissionDenied", err)
	}

	if err := doc.setFromServer("acl-Public", field.String("Admin")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	if err := doc.Set(bob.AclFieldName(), field.String("View")); err != nil {
		t.Fatalf("ACL write at Admin: %v", err)
	}
}

func TestParentACLWriteInvalidatesDescendantCache(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, bob)

	parent := authoredBy(store.NewDocument(), alice)
	if err := parent.setFromServer("acl-Public", field.String("Admin")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	child := authoredBy(store.NewDocument(), alice)
	child.SetProto(parent)

	if got := child.EffectiveACL(); got != acl.Admin {
		t.Fatalf("level before = %v, want Admin", got)
	}
	if err := parent.Set("acl-Public", field.String("View")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := child.EffectiveACL(); got != acl.ReadOnly {
		t.Fatalf("level after parent ACL change = %v, want ReadOnly", got)
	}
}

func TestAddToListPermissions(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, bob)

	doc := authoredBy(store.NewDocument(), alice)
	if err := doc.setFromServer("acl-Public", field.String("Add")); err != nil {
		t.Fatalf("setFromServer: %v", err)
	}
	target := store.NewDocument()

	if err := store.AddToList(doc, "children", target, false); err != nil {
		t.Fatalf("AddToList at AddOnly: %v", err)
	}
	// Adding again is a no-op, not a duplicate.
	if err := store.AddToList(doc, "children", target, false); err != nil {
		t.Fatalf("AddToList repeat: %v", err)
	}
	children, ok := doc.GetIgnoreProto("children").AsList()
	if !ok || children.Len() != 1 {
		t.Fatalf("children = %+v, want exactly one entry", children)
	}

	// Removal shrinks the collection and needs Edit.
	err := store.RemoveFromList(doc, "children", target)
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("RemoveFromList err = %v, want ErrPermissionDenied", err)
	}
}

func TestAddToListCopiesInheritedList(t *testing.T) {
	t.Parallel()
	store := newTestStore(t, alice)

	parent := store.NewDocument()
	first := store.NewDocument()
	if err := store.AddToList(parent, "children", first, false); err != nil {
		t.Fatalf("AddToList: %v", err)
	}
	child := store.NewDocument()
	child.SetProto(parent)

	second := store.NewDocument()
	if err := store.AddToList(child, "children", second, false); err != nil {
		t.Fatalf("AddToList: %v", err)
	}

	parentList, _ := parent.GetIgnoreProto("children").AsList()
	if parentList.Len() != 1 {
		t.Fatalf("prototype list length = %d, want 1 (must not be mutated)", parentList.Len())
	}
	childList, _ := child.GetIgnoreProto("children").AsList()
	if childList.Len() != 2 {
		t.Fatalf("child list length = %d, want 2", childList.Len())
	}
}
