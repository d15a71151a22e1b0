// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/docgraph-foundation/docgraph/lib/acl"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Permissions.AuthorDefault != acl.Admin {
		t.Errorf("author default: got %v", cfg.Permissions.AuthorDefault)
	}
	if cfg.Permissions.OtherDefault != acl.ReadOnly {
		t.Errorf("other default: got %v", cfg.Permissions.OtherDefault)
	}
	if cfg.Documents.LayoutKey != "layout" {
		t.Errorf("layout key: got %q", cfg.Documents.LayoutKey)
	}
	if err := cfg.validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "docgraph.yaml", `
permissions:
  author_default: Admin
  other_default: None
  new_documents_private: true
documents:
  layout_key: display
  clone_exclusions: [context, secret]
sync:
  playground_fields: [panX, panY]
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Permissions.OtherDefault != acl.Private {
		t.Errorf("other default: got %v", cfg.Permissions.OtherDefault)
	}
	if !cfg.Permissions.NewDocumentsPrivate {
		t.Error("new_documents_private not applied")
	}
	if cfg.Documents.LayoutKey != "display" {
		t.Errorf("layout key: got %q", cfg.Documents.LayoutKey)
	}
	if len(cfg.Sync.PlaygroundFields) != 2 {
		t.Errorf("playground fields: got %v", cfg.Sync.PlaygroundFields)
	}
	// Defaults survive for unmentioned keys.
	if cfg.Documents.PrototypeDepthLimit != 100 {
		t.Errorf("depth limit default lost: got %d", cfg.Documents.PrototypeDepthLimit)
	}
}

func TestLoadFileJSONC(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "docgraph.jsonc", `{
  // comments are fine in jsonc
  "permissions": {"other_default": "Edit"},
  "documents": {"layout_key": "layout",},
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Permissions.OtherDefault != acl.Edit {
		t.Errorf("other default: got %v", cfg.Permissions.OtherDefault)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unset author default", content: "permissions:\n  author_default: Unset\n"},
		{name: "empty layout key", content: "documents:\n  layout_key: \"\"\n"},
		{name: "bad level name", content: "permissions:\n  other_default: Sometimes\n"},
		{name: "negative depth limit", content: "documents:\n  prototype_depth_limit: -1\n"},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, "docgraph.yaml", test.content)
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadRequiresEnvVar(t *testing.T) {
	// Mutates the environment; not parallel.
	t.Setenv("DOCGRAPH_CONFIG", "")
	if _, err := Load(); err == nil {
		t.Error("expected error when DOCGRAPH_CONFIG is unset")
	}
}
