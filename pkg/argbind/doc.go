// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argbind binds command-line tokens to a declared set of fields and
// renders a help page from the same declaration.
//
// The parser follows a small, strict grammar:
//   - Options start with a single '-' and are matched case-insensitively by
//     name or alias: -verbose, -V, -Verbose
//   - Boolean options take no value; their presence sets them to true
//   - Scalar options take exactly the next token: -value 42
//   - Array options take every following token up to the next option or
//     the end of input: -values 1 2 3
//   - Any other token fills the next positional field
//   - Options and positionals may be interleaved freely
//
// There is no --name=value form, no clustering of short flags, and no "--"
// separator. A token that starts with '-' is always an option, so negative
// numbers cannot be passed as values.
//
// # Schemas
//
// A schema can be declared directly:
//
//	schema := argbind.NewSchema("Performs an operation on files",
//	    argbind.Enum("operation", "Create", "Delete").WithAliases("o"),
//	    argbind.Bool("verbose").WithAliases("v"),
//	    argbind.Array("files", argbind.ScalarString).AsPositional().WithDisplayName("file"),
//	)
//	r, err := argbind.Resolve(schema)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vals, err := r.Parse(os.Args[1:], argbind.ParseOptions{})
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	    fmt.Fprint(os.Stderr, r.Help("files"))
//	    os.Exit(2)
//	}
//	fmt.Println(vals.String("operation"), vals.Strings("files"))
//
// # Struct Tags
//
// Or derived from a struct:
//
//	type Args struct {
//	    Operation string   `enum:"Create|Delete" alias:"o" help:"Operation to perform"`
//	    Verbose   bool     `short:"v" help:"Print progress"`
//	    Retries   int      `default:"3"`
//	    Files     []string `pos:"" display:"file"`
//	}
//
//	args, err := argbind.Bind[Args](os.Args[1:], argbind.ParseOptions{})
//
// # Errors
//
// Resolve reports a *SchemaError when two names collide. Parse reports a
// *ParseError whose Kind says what went wrong; both also match sentinel
// errors such as ErrUnknownOption through errors.Is. A failed parse never
// returns a partially filled result.
//
// # Locales
//
// Numeric tokens are read with the symbols of ParseOptions.Locale:
//
//	loc, _ := argbind.ParseLocale("de-DE")
//	vals, err := r.Parse([]string{"-ratio", "1.234,5"}, argbind.ParseOptions{Locale: loc})
package argbind
