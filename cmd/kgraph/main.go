// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Learning Commons Contributors

// kgraph is the command-line interface to the curriculum standards
// knowledge graph: loading snapshots, generating and searching
// embeddings, aligning standards across jurisdictions, and generating
// prerequisite practice questions.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
