// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/docgraph-foundation/docgraph/cmd/docgraph/cli"
	"github.com/docgraph-foundation/docgraph/lib/export"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

func exportCommand() *cli.Command {
	var (
		opts     storeOptions
		snapshot string
		rootID   string
	)
	return &cli.Command{
		Name:    "export",
		Summary: "Write the graph reachable from a document as a zip archive.",
		Usage:   "docgraph export --snapshot <file> --root <id> <out.zip>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("export", pflag.ContinueOnError)
			fs.StringVar(&opts.configPath, "config", "", "path to the config file")
			fs.StringVar(&opts.principal, "as", "", "session principal for permission checks")
			fs.BoolVar(&opts.verbose, "verbose", false, "log to stderr")
			fs.StringVar(&snapshot, "snapshot", "", "snapshot file holding the graph")
			fs.StringVar(&rootID, "root", "", "ID of the document to export")
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one output path, got %d arguments", len(args))
			}
			if snapshot == "" || rootID == "" {
				return fmt.Errorf("--snapshot and --root are required")
			}
			id, err := ref.ParseDocumentID(rootID)
			if err != nil {
				return fmt.Errorf("--root: %w", err)
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			if _, err := loadSnapshotInto(store, snapshot); err != nil {
				return err
			}
			root, err := store.Lookup(id)
			if err != nil {
				return fmt.Errorf("document %s is not in the snapshot: %w", id, err)
			}

			out, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer out.Close()
			if err := export.Zip(out, store, root); err != nil {
				return err
			}
			return out.Close()
		},
	}
}

func importCommand() *cli.Command {
	var (
		opts        storeOptions
		compression string
	)
	return &cli.Command{
		Name:    "import",
		Summary: "Convert a zip archive into a snapshot.",
		Usage:   "docgraph import [--compression zstd] <in.zip> <out.snapshot>",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("import", pflag.ContinueOnError)
			fs.StringVar(&opts.configPath, "config", "", "path to the config file")
			fs.StringVar(&opts.principal, "as", "", "session principal for permission checks")
			fs.BoolVar(&opts.verbose, "verbose", false, "log to stderr")
			fs.StringVar(&compression, "compression", "zstd", "snapshot compression: none, lz4, or zstd")
			return fs
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected <in.zip> <out.snapshot>, got %d arguments", len(args))
			}
			tag, err := export.ParseCompressionTag(compression)
			if err != nil {
				return err
			}

			store, err := opts.openStore()
			if err != nil {
				return err
			}
			archive, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer archive.Close()
			info, err := archive.Stat()
			if err != nil {
				return err
			}
			if _, err := export.Import(store, archive, info.Size()); err != nil {
				return err
			}

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()
			if err := export.WriteSnapshot(out, store, tag); err != nil {
				return err
			}
			return out.Close()
		},
	}
}
