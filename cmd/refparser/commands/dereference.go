package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/erraggy/refparser"
	"github.com/erraggy/refparser/internal/cliutil"
	"github.com/erraggy/refparser/resolver"
)

// DereferenceFlags contains flags for the dereference command
type DereferenceFlags struct {
	ResolveFlags
	Output       string
	Format       string
	Circular     string
	Siblings     string
	ExternalOnly bool
	MaxRefDepth  int
	Exclude      string
}

// SetupDereferenceFlags creates and configures a FlagSet for the dereference command.
// Returns the FlagSet and a DereferenceFlags struct with bound flag variables.
func SetupDereferenceFlags() (*flag.FlagSet, *DereferenceFlags) {
	fs := flag.NewFlagSet("dereference", flag.ContinueOnError)
	flags := &DereferenceFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Circular, "circular", string(resolver.CircularReferenceObject), "cycle policy: produce-reference-object, ignore, or error")
	fs.StringVar(&flags.Siblings, "siblings", string(resolver.SiblingsMerge), "members next to $ref: merge or ignore")
	fs.BoolVar(&flags.ExternalOnly, "external-only", false, "only inline references that leave the root document")
	fs.IntVar(&flags.MaxRefDepth, "max-ref-depth", resolver.DefaultMaxRefDepth, "maximum nested substitutions")
	fs.StringVar(&flags.Exclude, "exclude", "", "comma-separated output path globs to leave unexpanded, e.g. '/paths/*'")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: refparser dereference [flags] <file|url|->\n\n")
		cliutil.Writef(output, "Replace every $ref with the value it points to.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  refparser dereference openapi.yaml -o flat.json\n")
		cliutil.Writef(output, "  refparser dereference --circular ignore --format yaml schema.json\n")
		cliutil.Writef(output, "  refparser dereference --external-only openapi.yaml\n")
		cliutil.Writef(output, "\nCircular References:\n")
		cliutil.Writef(output, "  produce-reference-object  keep a local $ref to the ancestor where the cycle closes\n")
		cliutil.Writef(output, "  ignore                    leave the original $ref in place\n")
		cliutil.Writef(output, "  error                     fail on the first cycle\n")
		cliutil.Writef(output, "\nExit Codes:\n")
		cliutil.Writef(output, "  0    Dereferencing successful\n")
		cliutil.Writef(output, "  1    A reference could not be resolved, or a cycle was met with --circular error\n")
	}

	return fs, flags
}

// HandleDereference executes the dereference command
func HandleDereference(args []string) error {
	fs, flags := SetupDereferenceFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("dereference command requires exactly one file path, URL, or '-' for stdin")
	}
	if err := ValidateDocumentFormat(flags.Format); err != nil {
		return err
	}
	circular, err := resolver.ParseCircularPolicy(flags.Circular)
	if err != nil {
		return err
	}
	siblings, err := resolver.ParseSiblingPolicy(flags.Siblings)
	if err != nil {
		return err
	}
	matcher, err := excludeMatcher(flags.Exclude)
	if err != nil {
		return err
	}

	specPath := fs.Arg(0)
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, specPath); err != nil {
			return err
		}
	}

	ctx, cancel := flags.context()
	defer cancel()

	opts, err := flags.options(ctx, specPath)
	if err != nil {
		return err
	}
	opts = append(opts,
		resolver.WithCircularPolicy(circular),
		resolver.WithSiblingPolicy(siblings),
		resolver.WithExternalOnly(flags.ExternalOnly),
		resolver.WithMaxRefDepth(flags.MaxRefDepth),
	)
	if matcher != nil {
		opts = append(opts, resolver.WithExcludedPathMatcher(matcher))
	}

	result, err := resolver.DereferenceWithOptions(opts...)
	if result != nil && result.Graph != nil && result.Value == nil {
		printWarnings(graphWarnings(result.Graph))
	}
	if err != nil {
		return fmt.Errorf("dereferencing %s: %w", FormatSpecPath(specPath), err)
	}

	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "refparser version: %s\n", refparser.Version())
		cliutil.Writef(os.Stderr, "Document: %s\n", FormatSpecPath(specPath))
		cliutil.Writef(os.Stderr, "Documents: %d\n", len(result.Graph.Documents))
		cliutil.Writef(os.Stderr, "Dereference Time: %v\n", result.DereferenceTime)
		if result.IsCircular() {
			cliutil.Writef(os.Stderr, "Circular References (%d):\n", len(result.Circular))
			for _, p := range result.Circular {
				cliutil.Writef(os.Stderr, "  - #%s\n", p)
			}
		}
		cliutil.Writef(os.Stderr, "\n")
	}

	data, err := cliutil.Render(result.Value, flags.Format)
	if err != nil {
		return fmt.Errorf("marshaling dereferenced document: %w", err)
	}
	return writeDocument(data, flags.Output, flags.Quiet)
}

// excludeMatcher compiles comma-separated path globs into a matcher.
// Globs use path.Match syntax against JSON Pointer output paths.
func excludeMatcher(spec string) (func(string) bool, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var patterns []string
	for _, p := range strings.Split(spec, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := path.Match(p, ""); err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		patterns = append(patterns, p)
	}
	return func(out string) bool {
		for _, p := range patterns {
			if ok, _ := path.Match(p, out); ok {
				return true
			}
		}
		return false
	}, nil
}
