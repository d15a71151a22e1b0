// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	t.Parallel()
	var ran []string
	root := &Command{
		Name: "tool",
		Subcommands: []*Command{
			{
				Name: "inner",
				Run: func(args []string) error {
					ran = args
					return nil
				},
			},
		},
	}
	if err := root.Execute([]string{"inner", "a", "b"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ran) != 2 || ran[0] != "a" || ran[1] != "b" {
		t.Fatalf("args = %v, want [a b]", ran)
	}
}

func TestExecuteUnknownSubcommand(t *testing.T) {
	t.Parallel()
	root := &Command{
		Name:        "tool",
		Subcommands: []*Command{{Name: "known", Run: func([]string) error { return nil }}},
	}
	err := root.Execute([]string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v, want unknown command", err)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	t.Parallel()
	var verbose bool
	cmd := &Command{
		Name: "tool",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("tool", pflag.ContinueOnError)
			fs.BoolVar(&verbose, "verbose", false, "enable verbose output")
			return fs
		},
		Run: func(args []string) error { return nil },
	}
	if err := cmd.Execute([]string{"--verbose"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !verbose {
		t.Fatal("flag did not bind")
	}
}

func TestExecuteRejectsUnknownFlag(t *testing.T) {
	t.Parallel()
	cmd := &Command{
		Name:  "tool",
		Flags: func() *pflag.FlagSet { return pflag.NewFlagSet("tool", pflag.ContinueOnError) },
		Run:   func(args []string) error { return nil },
	}
	if err := cmd.Execute([]string{"--bogus"}); err == nil {
		t.Fatal("unknown flag must fail")
	}
}

func TestHelpListsSubcommands(t *testing.T) {
	t.Parallel()
	root := &Command{
		Name:        "tool",
		Summary:     "does things",
		Subcommands: []*Command{{Name: "inner", Summary: "inner things"}},
	}
	var out strings.Builder
	root.PrintHelp(&out)
	for _, want := range []string{"does things", "inner", "inner things", "tool <command>"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("help output missing %q:\n%s", want, out.String())
		}
	}
}
