// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package acl

import "testing"

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		expected Level
		wantErr  bool
	}{
		{value: "None", expected: Private},
		{value: "Not Shared", expected: Private},
		{value: "View", expected: ReadOnly},
		{value: "Add", expected: AddOnly},
		{value: "Edit", expected: Edit},
		{value: "Admin", expected: Admin},
		{value: "Unset", expected: Unset},
		{value: "edit", wantErr: true},
		{value: "", wantErr: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.value, func(t *testing.T) {
			t.Parallel()
			level, err := ParseLevel(test.value)
			if test.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", level)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if level != test.expected {
				t.Fatalf("got %v, want %v", level, test.expected)
			}
		})
	}
}

func TestLevelOrdering(t *testing.T) {
	t.Parallel()

	if !Admin.AtLeast(Edit) || !Edit.AtLeast(ReadOnly) || !ReadOnly.AtLeast(Private) {
		t.Error("level order violated")
	}
	if ReadOnly.AtLeast(Edit) {
		t.Error("ReadOnly should not satisfy Edit")
	}
	if Unset.AtLeast(ReadOnly) {
		t.Error("Unset should satisfy nothing above Unset")
	}
	if Edit.CanWrite() != true || AddOnly.CanWrite() != false {
		t.Error("CanWrite table wrong")
	}
	if !AddOnly.CanAdd() || ReadOnly.CanAdd() {
		t.Error("CanAdd table wrong")
	}
}

func TestLevelTextRoundTrip(t *testing.T) {
	t.Parallel()

	for _, level := range []Level{Unset, Private, ReadOnly, AddOnly, Edit, Admin} {
		text, err := level.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", level, err)
		}
		var decoded Level
		if err := decoded.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if decoded != level {
			t.Fatalf("round trip: %v != %v", decoded, level)
		}
	}
}
