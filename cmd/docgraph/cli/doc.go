// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command dispatch framework for the docgraph tool:
// a tree of named commands with pflag flag sets and generated help.
package cli
