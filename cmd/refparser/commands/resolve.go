package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/erraggy/refparser"
	"github.com/erraggy/refparser/internal/cliutil"
	"github.com/erraggy/refparser/referrors"
	"github.com/erraggy/refparser/resolver"
)

// ResolveCommandFlags contains flags for the resolve command
type ResolveCommandFlags struct {
	ResolveFlags
	Format string
}

// SetupResolveFlags creates and configures a FlagSet for the resolve command.
// Returns the FlagSet and a ResolveCommandFlags struct with bound flag variables.
func SetupResolveFlags() (*flag.FlagSet, *ResolveCommandFlags) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	flags := &ResolveCommandFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: refparser resolve [flags] <file|url|->\n\n")
		cliutil.Writef(output, "Load a document and every document it references, and report the reference graph.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  refparser resolve openapi.yaml\n")
		cliutil.Writef(output, "  refparser resolve --collect-all --format json schema.json\n")
		cliutil.Writef(output, "  refparser resolve --resolve-http-refs https://example.com/api/openapi.yaml\n")
		cliutil.Writef(output, "  cat schema.json | refparser resolve --base-url file:///specs/schema.json -\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    All references resolved\n")
		cliutil.Writef(output, "  1    A reference could not be resolved\n")
	}

	return fs, flags
}

// resolveReport is the structured output of the resolve command.
type resolveReport struct {
	Root       string           `json:"root" yaml:"root"`
	Documents  []resolveDocInfo `json:"documents" yaml:"documents"`
	Edges      []resolveEdge    `json:"edges" yaml:"edges"`
	Unresolved []string         `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

type resolveDocInfo struct {
	URL    string `json:"url" yaml:"url"`
	Parser string `json:"parser" yaml:"parser"`
	Size   int    `json:"size" yaml:"size"`
	Digest string `json:"digest" yaml:"digest"`
}

type resolveEdge struct {
	From string `json:"from" yaml:"from"`
	Ref  string `json:"ref" yaml:"ref"`
	To   string `json:"to" yaml:"to"`
}

// HandleResolve executes the resolve command
func HandleResolve(args []string) error {
	fs, flags := SetupResolveFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("resolve command requires exactly one file path, URL, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	specPath := fs.Arg(0)
	ctx, cancel := flags.context()
	defer cancel()

	opts, err := flags.options(ctx, specPath)
	if err != nil {
		return err
	}
	result, err := resolver.ResolveWithOptions(opts...)
	if result == nil {
		return fmt.Errorf("resolving %s: %w", FormatSpecPath(specPath), err)
	}

	report := buildResolveReport(result)
	if flags.Format != FormatText {
		if err := OutputStructured(os.Stdout, report, flags.Format); err != nil {
			return err
		}
	} else {
		printResolveReport(specPath, result, report, flags.Quiet)
	}

	printWarnings(result.Warnings)
	var list referrors.ErrorList
	if errors.As(err, &list) {
		return fmt.Errorf("%d unresolved reference(s)", len(list))
	}
	return err
}

func buildResolveReport(result *resolver.ResolveResult) resolveReport {
	g := result.Graph
	report := resolveReport{
		Root:       g.Root,
		Documents:  make([]resolveDocInfo, 0, len(g.Documents)),
		Edges:      make([]resolveEdge, 0, len(g.Edges)),
		Unresolved: result.Warnings,
	}
	for _, u := range g.Documents {
		if doc, ok := g.Store.Get(u); ok {
			report.Documents = append(report.Documents, resolveDocInfo{
				URL:    doc.URL,
				Parser: doc.Parser,
				Size:   len(doc.Data),
				Digest: doc.Digest,
			})
		}
	}
	for _, e := range g.Edges {
		report.Edges = append(report.Edges, resolveEdge{From: e.From(), Ref: e.Ref, To: e.To()})
	}
	return report
}

func printResolveReport(specPath string, result *resolver.ResolveResult, report resolveReport, quiet bool) {
	if !quiet {
		cliutil.Writef(os.Stderr, "refparser version: %s\n", refparser.Version())
		cliutil.Writef(os.Stderr, "Document: %s\n", FormatSpecPath(specPath))
		cliutil.Writef(os.Stderr, "Resolve Time: %v\n\n", result.ResolveTime)
	}
	cliutil.Writef(os.Stdout, "Documents (%d):\n", len(report.Documents))
	for _, d := range report.Documents {
		cliutil.Writef(os.Stdout, "  %s [%s, %d bytes]\n", d.URL, d.Parser, d.Size)
	}
	cliutil.Writef(os.Stdout, "\nReferences (%d):\n", len(report.Edges))
	for _, e := range report.Edges {
		cliutil.Writef(os.Stdout, "  %s -> %s\n", e.From, e.To)
	}
}
