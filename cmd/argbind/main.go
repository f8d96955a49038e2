// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argbind parses command-line arguments against schema files and
// prints the bound values.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argbind/pkg/cli"
	"github.com/yeetrun/argbind/pkg/tui"
)

const (
	exitError = 1
	exitUsage = 2
)

type globalFlagsParsed struct {
	Verbose bool `flag:"verbose" short:"v" help:"Log what argbind is doing to stderr"`
	NoColor bool `flag:"no-color" help:"Disable colored diagnostics (also NO_COLOR)"`
}

// parseGlobalFlags reads global flags from the args before the command name.
// Flags after it belong to the command or to the schema being parsed.
func parseGlobalFlags(args []string) (globalFlagsParsed, []string, error) {
	end := slices.IndexFunc(args, func(arg string) bool {
		return !strings.HasPrefix(arg, "-")
	})
	if end < 0 {
		end = len(args)
	}
	result, err := yargs.ParseKnownFlags[globalFlagsParsed](args[:end], yargs.KnownFlagsOptions{})
	if err != nil {
		return globalFlagsParsed{}, nil, err
	}
	for _, arg := range result.RemainingArgs {
		switch arg {
		case "-h", "--help", "--help-llm":
		default:
			return globalFlagsParsed{}, nil, fmt.Errorf("unknown flag: %s", arg)
		}
	}
	return result.Flags, append(result.RemainingArgs, args[end:]...), nil
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	globalFlags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	log.SetFlags(0)
	log.SetPrefix("argbind: ")
	log.SetOutput(io.Discard)
	if globalFlags.Verbose {
		log.SetOutput(stderr)
	}

	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	if f, ok := stderr.(*os.File); ok {
		a.colors = tui.NewColorizer(!globalFlags.NoColor, f)
	}

	helpConfig := cli.CommandRegistry().HelpConfig()
	args = yargs.ApplyAliases(remaining, helpConfig)

	handlers := map[string]yargs.SubcommandHandler{
		"parse": a.handleParse,
		"usage": a.handleUsage,
		"check": a.handleCheck,
	}
	// Keep group handlers aligned with pkg/cli group metadata.
	groups := a.buildGroupHandlers()
	if err := yargs.RunSubcommandsWithGroups(ctx, args, helpConfig, globalFlagsParsed{}, handlers, groups); err != nil {
		a.printCLIError(err)
		return exitCodeFor(err)
	}
	return 0
}

// usageError is a command line the schema could not bind. It carries the
// usage page so the user can see what was expected.
type usageError struct {
	err   error
	usage string
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func exitCodeFor(err error) int {
	var ue *usageError
	var flagErr *yargs.InvalidFlagError
	var valueErr *yargs.FlagValueError
	switch {
	case errors.As(err, &ue), errors.As(err, &flagErr), errors.As(err, &valueErr):
		return exitUsage
	}
	return exitError
}

func (a *app) printCLIError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(a.stderr, "%s %v\n", a.colors.Error("error:"), err)
	var ue *usageError
	if errors.As(err, &ue) && ue.usage != "" {
		fmt.Fprintln(a.stderr)
		fmt.Fprint(a.stderr, ue.usage)
	}
}
