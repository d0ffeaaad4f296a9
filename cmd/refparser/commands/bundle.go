package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/erraggy/refparser"
	"github.com/erraggy/refparser/internal/cliutil"
	"github.com/erraggy/refparser/resolver"
)

// BundleFlags contains flags for the bundle command
type BundleFlags struct {
	ResolveFlags
	Output    string
	Format    string
	Namespace string
}

// SetupBundleFlags creates and configures a FlagSet for the bundle command.
// Returns the FlagSet and a BundleFlags struct with bound flag variables.
func SetupBundleFlags() (*flag.FlagSet, *BundleFlags) {
	fs := flag.NewFlagSet("bundle", flag.ContinueOnError)
	flags := &BundleFlags{}

	flags.register(fs)
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Namespace, "namespace", "", "root member that holds embedded documents (default \"$bundled\")")

	fs.Usage = func() {
		output := fs.Output()
		cliutil.Writef(output, "Usage: refparser bundle [flags] <file|url|->\n\n")
		cliutil.Writef(output, "Bundle a document and everything it references into one self-contained document.\n\n")
		cliutil.Writef(output, "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(output, "\nExamples:\n")
		cliutil.Writef(output, "  refparser bundle openapi.yaml -o bundled.json\n")
		cliutil.Writef(output, "  refparser bundle --format yaml --namespace x-bundled openapi.yaml\n")
		cliutil.Writef(output, "\nBundling:\n")
		cliutil.Writef(output, "  External documents are embedded under the namespace member of the root.\n")
		cliutil.Writef(output, "  References into them are rewritten to local pointers, so cycles survive.\n")
	}

	return fs, flags
}

// HandleBundle executes the bundle command
func HandleBundle(args []string) error {
	fs, flags := SetupBundleFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("bundle command requires exactly one file path, URL, or '-' for stdin")
	}
	if err := ValidateDocumentFormat(flags.Format); err != nil {
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
	if flags.Namespace != "" {
		opts = append(opts, resolver.WithBundleNamespace(flags.Namespace))
	}

	result, err := resolver.BundleWithOptions(opts...)
	if result != nil && result.Graph != nil && result.Value == nil {
		printWarnings(graphWarnings(result.Graph))
	}
	if err != nil {
		return fmt.Errorf("bundling %s: %w", FormatSpecPath(specPath), err)
	}

	if !flags.Quiet {
		cliutil.Writef(os.Stderr, "refparser version: %s\n", refparser.Version())
		cliutil.Writef(os.Stderr, "Document: %s\n", FormatSpecPath(specPath))
		cliutil.Writef(os.Stderr, "Documents: %d\n", len(result.Graph.Documents))
		cliutil.Writef(os.Stderr, "Bundle Time: %v\n", result.BundleTime)
		if len(result.Slots) > 0 {
			cliutil.Writef(os.Stderr, "Embedded under %s:\n", result.Namespace)
			urls := make([]string, 0, len(result.Slots))
			for u := range result.Slots {
				urls = append(urls, u)
			}
			sort.Strings(urls)
			for _, u := range urls {
				cliutil.Writef(os.Stderr, "  %s <- %s\n", result.Slots[u], u)
			}
		}
		cliutil.Writef(os.Stderr, "\n")
	}

	data, err := cliutil.Render(result.Value, flags.Format)
	if err != nil {
		return fmt.Errorf("marshaling bundled document: %w", err)
	}
	return writeDocument(data, flags.Output, flags.Quiet)
}

// graphWarnings renders collected graph errors as messages.
func graphWarnings(g *resolver.Graph) []string {
	out := make([]string, 0, len(g.Errors))
	for _, err := range g.Errors {
		out = append(out, err.Error())
	}
	return out
}
