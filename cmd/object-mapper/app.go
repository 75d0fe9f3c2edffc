package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"object-mapper/engine"
	"object-mapper/internal/common"
	"object-mapper/internal/diagnostic"
	"object-mapper/internal/mapping"
	"object-mapper/internal/match"
	"object-mapper/record"
	"object-mapper/resolve"
	"object-mapper/rule"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

const maxDumpDepth = 16

// errValidation is returned by check when the document has errors.
var errValidation = errors.New("mapping document has errors")

func newApp(cfg Config) *cli.App {
	return &cli.App{
		Name:  "object-mapper",
		Usage: "reshape JSON documents with declarative mapping specifications",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Value: cfg.LogLevel,
				Usage: "log level: debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "disable colored output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}

			return nil
		},
		Commands: []*cli.Command{
			mapCommand(cfg),
			checkCommand(cfg),
			inspectCommand(cfg),
		},
	}
}

func specFlag(cfg Config) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "spec",
		Aliases: []string{"s"},
		Value:   cfg.Spec,
		Usage:   "path to the YAML mapping document",
	}
}

func nameFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "mapping to use; optional when the document has exactly one",
	}
}

func mapCommand(cfg Config) *cli.Command {
	return &cli.Command{
		Name:  "map",
		Usage: "Map a JSON document with a named mapping",
		Description: `
Reads a JSON document from --input (or stdin) and writes the mapped result:

  object-mapper map --spec product.yaml --name product --input product.json
  cat order.json | object-mapper map -s orders.yaml --deep --pretty`[1:],
		Flags: []cli.Flag{
			specFlag(cfg),
			nameFlag(),
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Value:   "-",
				Usage:   "JSON input file, - for stdin",
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: cfg.Mode,
				Usage: "resolution mode: path or deep",
			},
			&cli.BoolFlag{
				Name:  "deep",
				Usage: "shorthand for --mode deep",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Value: cfg.MaxDepth,
				Usage: "nesting limit for mapping recursion",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "dotted path of the sub-document to map",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "output format: json or yaml",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "indent JSON output",
			},
		},
		Action: runMap,
	}
}

func runMap(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"), c.App.ErrWriter)
	if err != nil {
		return err
	}

	mode, err := resolve.ParseMode(c.String("mode"))
	if err != nil {
		return err
	}

	if c.Bool("deep") {
		mode = resolve.DeepKeySearch
	}

	spec, err := loadSpec(c.String("spec"), c.String("name"))
	if err != nil {
		return err
	}

	src, err := readInput(c.String("input"), c.App.Reader, c.String("root"))
	if err != nil {
		return err
	}

	e := engine.New(
		engine.WithMode(mode),
		engine.WithMaxDepth(c.Int("max-depth")),
		engine.WithLogger(logger),
	)

	out, err := e.Map(src, spec)
	if err != nil {
		return fmt.Errorf("failed to map input: %w", err)
	}

	return writeRecord(c.App.Writer, out, c.String("format"), c.Bool("pretty"))
}

func checkCommand(cfg Config) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate a mapping document",
		Description: `
Exits with a status code 1 if any validation errors are detected. Only the
builtin transforms (identity, json) are registered.`[1:],
		Flags: []cli.Flag{
			specFlag(cfg),
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "report errors only",
			},
		},
		Action: func(c *cli.Context) error {
			mf, err := mapping.LoadFile(specPath(c.String("spec")))
			if err != nil {
				return err
			}

			res := mapping.Validate(mf, mapping.Builtins())
			printDiagnostics(c.App.Writer, res, c.Bool("quiet"))

			if res.HasErrors() {
				return errValidation
			}

			return nil
		},
	}
}

func inspectCommand(cfg Config) *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Print the compiled form of a named mapping",
		Flags: []cli.Flag{
			specFlag(cfg),
			nameFlag(),
			&cli.IntFlag{
				Name:  "depth",
				Value: 8,
				Usage: "how many nested levels to expand",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "dump the rule values instead of an outline",
			},
		},
		Action: func(c *cli.Context) error {
			spec, err := loadSpec(c.String("spec"), c.String("name"))
			if err != nil {
				return err
			}

			// Compiled specs may be recursive, so output is always bounded.
			depth := c.Int("depth")
			if depth <= 0 {
				depth = maxDumpDepth
			}

			if c.Bool("dump") {
				cs := spew.ConfigState{
					Indent:                  "  ",
					MaxDepth:                depth,
					DisablePointerAddresses: true,
					DisableCapacities:       true,
				}
				cs.Fdump(c.App.Writer, spec)

				return nil
			}

			_, err = io.WriteString(c.App.Writer, rule.Describe(spec, depth))

			return err
		},
	}
}

// specPath falls back to mapping.yaml in the working directory.
func specPath(path string) string {
	if path == "" {
		return "mapping.yaml"
	}

	return path
}

// loadSpec loads and compiles the document at path and returns the named mapping.
func loadSpec(path, name string) (rule.Spec, error) {
	mf, err := mapping.LoadFile(specPath(path))
	if err != nil {
		return nil, err
	}

	cat, err := mapping.Compile(mf, mapping.Builtins())
	if err != nil {
		return nil, err
	}

	names := cat.Names()

	if name == "" {
		first, ok := common.First(names)
		if !ok || len(names) > 1 {
			return nil, fmt.Errorf("--name is required, document declares: %s", strings.Join(names, ", "))
		}

		name = first
	}

	spec, ok := cat.Get(name)
	if !ok {
		msg := fmt.Sprintf("%v %q", mapping.ErrUnknownMapping, name)
		if s := match.Suggest(name, names, 3); len(s) > 0 {
			msg += fmt.Sprintf(" (did you mean %q?)", s[0])
		}

		return nil, errors.New(msg)
	}

	return spec, nil
}

// readInput parses the JSON input and selects the sub-document at root.
func readInput(path string, stdin io.Reader, root string) (*gabs.Container, error) {
	var (
		data []byte
		err  error
	)

	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	doc, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input JSON: %w", err)
	}

	if root == "" {
		return doc, nil
	}

	if !doc.ExistsP(root) {
		return nil, fmt.Errorf("root %q not found in input", root)
	}

	return doc.Path(root), nil
}

func writeRecord(w io.Writer, out *record.Record, format string, pretty bool) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(format) {
	case "json", "":
		if pretty {
			data, err = json.MarshalIndent(out, "", "  ")
		} else {
			data, err = json.Marshal(out)
		}

		if err == nil {
			data = append(data, '\n')
		}
	case "yaml", "yml":
		data, err = yaml.Marshal(out)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = w.Write(data)

	return err
}

func printDiagnostics(w io.Writer, res *diagnostic.Diagnostics, quiet bool) {
	for _, d := range res.All() {
		switch d.Severity {
		case diagnostic.SeverityError:
			fmt.Fprintf(w, "%s %s\n", red("error:"), d.String())
		case diagnostic.SeverityWarning:
			if !quiet {
				fmt.Fprintf(w, "%s %s\n", yellow("warning:"), d.String())
			}
		default:
			if !quiet {
				fmt.Fprintf(w, "%s %s\n", cyan("info:"), d.String())
			}
		}
	}

	if res.IsValid() {
		fmt.Fprintf(w, "%s %d warning(s)\n", green("ok:"), len(res.Warnings))
		return
	}

	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", len(res.Errors), len(res.Warnings))
}
