// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli holds the command metadata and flag parsing for the argbind
// command.
package cli

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/shayne/yargs"
)

type FlagSpec struct {
	ConsumesValue bool
}

type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Hidden      bool
	Aliases     []string
	// ArgsSchema optionally defines positional args via `pos` tags.
	ArgsSchema any
}

type GroupInfo struct {
	Name        string
	Description string
	Commands    map[string]CommandInfo
	Hidden      bool
}

type ParseFlags struct {
	Locale  string
	Format  string
	Program string
}

type UsageFlags struct {
	Program string
}

type ConvertFlags struct {
	To  string
	Out string
	Yes bool
}

type JSONSchemaFlags struct {
	Out string
	Yes bool
}

type parseFlagsParsed struct {
	Locale  string `flag:"locale" help:"Locale for numeric values (e.g. de-DE)"`
	Format  string `flag:"format" default:"json" help:"Output format: json, yaml or toml"`
	Program string `flag:"program" help:"Program name shown in the usage page"`
}

type usageFlagsParsed struct {
	Program string `flag:"program" help:"Program name shown in the usage page"`
}

type checkFlagsParsed struct{}

type convertFlagsParsed struct {
	To  string `flag:"to" help:"Target format: json, yaml or toml (default: from --out)"`
	Out string `flag:"out" help:"Write to this file instead of stdout"`
	Yes bool   `flag:"yes" short:"y" help:"Overwrite --out without asking"`
}

type jsonSchemaFlagsParsed struct {
	Out string `flag:"out" help:"Write to this file instead of stdout"`
	Yes bool   `flag:"yes" short:"y" help:"Overwrite --out without asking"`
}

// SchemaArgs is the positional layout shared by every command.
type SchemaArgs struct {
	Schema SchemaPath `pos:"0" help:"Schema file (.toml, .yaml, .yml or .json)"`
}

type SchemaPath string

func IsSchemaArgSpec(spec yargs.ArgSpec) bool {
	return spec.GoType == reflect.TypeOf(SchemaPath(""))
}

var commandInfos = map[string]CommandInfo{
	"parse": {Name: "parse", Description: "Parse arguments against a schema and print the values", Usage: "SCHEMA [--locale=TAG] [--format=json|yaml|toml] [--program=NAME] [--] ARGS...", Examples: []string{
		"argbind parse fileop.toml -o delete a.txt b.txt",
		"argbind parse --format=yaml fileop.toml -- -verbose a.txt",
		"argbind parse --locale=de-DE stats.yaml -ratio 1.234,5",
	}, ArgsSchema: SchemaArgs{}},
	"usage": {Name: "usage", Description: "Print the usage page of a schema", Usage: "SCHEMA [--program=NAME]", Examples: []string{
		"argbind usage fileop.toml",
		"argbind usage fileop.toml --program=fileop",
	}, ArgsSchema: SchemaArgs{}},
	"check": {Name: "check", Description: "Resolve a schema and list its options and positionals", Usage: "SCHEMA", Examples: []string{
		"argbind check fileop.toml",
	}, Aliases: []string{"validate"}, ArgsSchema: SchemaArgs{}},
}

var parseFlagSpecs = flagSpecsFromStruct(parseFlagsParsed{})

// Keep this in sync with the group handlers in cmd/argbind.
var groupInfos = map[string]GroupInfo{
	"schema": {
		Name:        "schema",
		Description: "Schema file tools",
		Commands: map[string]CommandInfo{
			"convert": {Name: "convert", Description: "Rewrite a schema file in another format", Usage: "schema convert SCHEMA [--to=json|yaml|toml] [--out=FILE] [--yes]", Examples: []string{
				"argbind schema convert fileop.toml --to=yaml",
				"argbind schema convert fileop.toml --out=fileop.json",
			}, ArgsSchema: SchemaArgs{}},
			"jsonschema": {Name: "jsonschema", Description: "Print the JSON Schema of schema files, or of the values a schema parses to", Usage: "schema jsonschema [SCHEMA] [--out=FILE] [--yes]", Examples: []string{
				"argbind schema jsonschema --out=argbind.schema.json",
				"argbind schema jsonschema fileop.toml",
			}, ArgsSchema: SchemaArgs{}},
		},
	},
}

// CommandNames returns the flat command names in sorted order.
func CommandNames() []string {
	names := make([]string, 0, len(commandInfos))
	for name := range commandInfos {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func CommandInfos() map[string]CommandInfo {
	return commandInfos
}

func CommandRegistry() yargs.Registry {
	subcommands := make(map[string]yargs.CommandSpec, len(commandInfos))
	for name, info := range commandInfos {
		subcommands[name] = yargs.CommandSpec{
			Info:       toSubCommandInfo(name, info),
			ArgsSchema: info.ArgsSchema,
		}
	}
	groups := make(map[string]yargs.GroupSpec, len(groupInfos))
	for name, info := range groupInfos {
		cmds := make(map[string]yargs.CommandSpec, len(info.Commands))
		for cmdName, cmd := range info.Commands {
			cmds[cmdName] = yargs.CommandSpec{
				Info:       toSubCommandInfo(cmdName, cmd),
				ArgsSchema: cmd.ArgsSchema,
			}
		}
		groupInfo := yargs.GroupInfo{
			Name:        info.Name,
			Description: info.Description,
			Hidden:      info.Hidden,
		}
		groups[name] = yargs.GroupSpec{
			Info:     groupInfo,
			Commands: cmds,
		}
	}
	return yargs.Registry{
		Command: yargs.CommandInfo{
			Name:        "argbind",
			Description: "Parse command-line arguments against declarative schema files",
			Examples: []string{
				"argbind parse fileop.toml -o create notes.txt",
				"argbind usage fileop.toml",
			},
		},
		SubCommands: subcommands,
		Groups:      groups,
	}
}

func GroupInfos() map[string]GroupInfo {
	return groupInfos
}

func toSubCommandInfo(name string, info CommandInfo) yargs.SubCommandInfo {
	return yargs.SubCommandInfo{
		Name:        name,
		Description: info.Description,
		Usage:       info.Usage,
		Examples:    info.Examples,
		Hidden:      info.Hidden,
		Aliases:     info.Aliases,
	}
}

// ParseParse parses the flags of the parse command. The returned args hold
// the schema path followed by the tokens to bind: everything from the first
// single-dash token, unknown flag or "--" onwards is passed through as is.
func ParseParse(args []string) (ParseFlags, []string, error) {
	parseArgs, extraArgs := splitArgsForParsing(args, parseFlagSpecs)
	parsed, err := parseFlags[parseFlagsParsed](parseArgs)
	if err != nil {
		return ParseFlags{}, nil, err
	}
	flags := ParseFlags{
		Locale:  parsed.Flags.Locale,
		Format:  parsed.Flags.Format,
		Program: parsed.Flags.Program,
	}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

func ParseUsage(args []string) (UsageFlags, []string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[usageFlagsParsed](parseArgs)
	if err != nil {
		return UsageFlags{}, nil, err
	}
	flags := UsageFlags{Program: parsed.Flags.Program}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

func ParseCheck(args []string) ([]string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[checkFlagsParsed](parseArgs)
	if err != nil {
		return nil, err
	}
	return append(parsed.Args, extraArgs...), nil
}

func ParseConvert(args []string) (ConvertFlags, []string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[convertFlagsParsed](parseArgs)
	if err != nil {
		return ConvertFlags{}, nil, err
	}
	flags := ConvertFlags{
		To:  parsed.Flags.To,
		Out: parsed.Flags.Out,
		Yes: parsed.Flags.Yes,
	}
	argsOut := append(parsed.Args, extraArgs...)
	return flags, argsOut, nil
}

func ParseJSONSchema(args []string) (JSONSchemaFlags, []string, error) {
	parseArgs, extraArgs := splitArgsAtDoubleDash(args)
	parsed, err := parseFlags[jsonSchemaFlagsParsed](parseArgs)
	if err != nil {
		return JSONSchemaFlags{}, nil, err
	}
	flags := JSONSchemaFlags{Out: parsed.Flags.Out, Yes: parsed.Flags.Yes}
	return flags, append(parsed.Args, extraArgs...), nil
}

type parsedFlags[T any] struct {
	Flags  T
	Args   []string
	Parser *yargs.Parser
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut, Parser: result.Parser}, nil
}

func splitArgsAtDoubleDash(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
	}
	return args, nil
}

// splitArgsForParsing splits args at the first token that is not a known
// double-dash flag of the command. Single-dash tokens always split, since
// they are options of the schema being parsed.
func splitArgsForParsing(args []string, specs map[string]FlagSpec) ([]string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		if !strings.HasPrefix(arg, "--") || len(arg) == 2 {
			return args[:i], args[i:]
		}
		name, _, hasValue := strings.Cut(arg, "=")
		spec, ok := specs[name]
		if !ok {
			return args[:i], args[i:]
		}
		if spec.ConsumesValue && !hasValue {
			i++
		}
	}
	return args, nil
}

func flagSpecsFromStruct(v any) map[string]FlagSpec {
	specs := make(map[string]FlagSpec)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return specs
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("flag")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		spec := FlagSpec{ConsumesValue: consumesValue(field.Type)}
		specs["--"+name] = spec
		if short := field.Tag.Get("short"); short != "" {
			specs["-"+short] = spec
		}
	}
	return specs
}

func consumesValue(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Bool:
		return false
	default:
		return true
	}
}

func RequireArgsAtLeast(subcmd string, args []string, count int) error {
	if len(args) < count {
		return fmt.Errorf("'%s' requires at least %d argument(s), got %d", subcmd, count, len(args))
	}
	return nil
}

// RequireArgsExactly reports an error unless args holds exactly count items.
func RequireArgsExactly(subcmd string, args []string, count int) error {
	if len(args) != count {
		return fmt.Errorf("'%s' takes exactly %d argument(s), got %d", subcmd, count, len(args))
	}
	return nil
}
