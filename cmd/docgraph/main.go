// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Command docgraph is the offline tool for document graphs: it converts
// between snapshots and interchange archives and inspects their
// contents.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/docgraph-foundation/docgraph/cmd/docgraph/cli"
	"github.com/docgraph-foundation/docgraph/lib/config"
	"github.com/docgraph-foundation/docgraph/lib/document"
	"github.com/docgraph-foundation/docgraph/lib/export"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

func main() {
	root := &cli.Command{
		Name:    "docgraph",
		Summary: "Work with document graph snapshots and archives.",
		Description: "docgraph converts document graphs between the snapshot backup\n" +
			"format and the zip interchange archive, and inspects both.",
		Subcommands: []*cli.Command{
			exportCommand(),
			importCommand(),
			snapshotCommand(),
			inspectCommand(),
		},
	}
	if err := root.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "docgraph: %v\n", err)
		os.Exit(1)
	}
}

// storeOptions are the flags shared by every command that opens a
// store.
type storeOptions struct {
	configPath string
	principal  string
	verbose    bool
}

// openStore builds a store from the shared flags: configuration from
// --config (falling back to defaults when unset and DOCGRAPH_CONFIG is
// absent), the session principal from --as, and logging to stderr when
// --verbose is given.
func (o *storeOptions) openStore() (*document.Store, error) {
	cfg := config.Default()
	switch {
	case o.configPath != "":
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case os.Getenv("DOCGRAPH_CONFIG") != "":
		loaded, err := config.Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	var principal ref.Principal
	if o.principal != "" {
		parsed, err := ref.ParsePrincipal(o.principal)
		if err != nil {
			return nil, fmt.Errorf("--as: %w", err)
		}
		principal = parsed
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if o.verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	return document.NewStore(document.Options{
		Config:    cfg,
		Logger:    logger,
		Principal: principal,
	}), nil
}

// loadSnapshotInto reads the snapshot file into the store.
func loadSnapshotInto(store *document.Store, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return export.ReadSnapshot(file, store)
}
