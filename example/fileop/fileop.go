// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/yeetrun/argbind/pkg/argbind"
)

type operation int

const (
	opCreate operation = iota
	opDelete
	opUpdate
)

func (operation) EnumNames() []string {
	return []string{"Create", "Delete", "Update"}
}

func (o operation) String() string {
	return o.EnumNames()[o]
}

type args struct {
	Operation operation `short:"o" help:"The operation to perform"`
	Verbose   bool      `help:"Print details"`
	Files     []string  `pos:"" display:"file"`
}

func (args) Description() string {
	return "Performs an operation on a set of files."
}

func main() {
	a, err := argbind.Bind[args](os.Args[1:], argbind.ParseOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		help, _ := argbind.HelpFor[args]("fileop")
		fmt.Fprint(os.Stderr, help)
		os.Exit(2)
	}
	for _, f := range a.Files {
		if a.Verbose {
			fmt.Printf("%s %s\n", a.Operation, f)
			continue
		}
		fmt.Println(f)
	}
	if a.Verbose {
		fmt.Printf("%d files\n", len(a.Files))
	}
}
