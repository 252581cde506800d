package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Alia5/cpp2d/internal/codegen/scanner"
)

// dump-tree parses a C++ header and prints the declaration tree that the
// translator would see, as JSON (default), YAML or TOML.
//
//	go run ./internal/codegen/cmd/dump-tree shapes.hpp [json|yaml|toml]
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <header> [json|yaml|toml]\n", os.Args[0])
		os.Exit(2)
	}
	format := scanner.FormatJSON
	if len(os.Args) > 2 {
		format = os.Args[2]
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading header: %v\n", err)
		os.Exit(1)
	}

	p := &scanner.HeaderParser{Lenient: true}
	ns, err := p.Parse(context.Background(), src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	out, err := scanner.EncodeDocument(ns, format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding tree: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
