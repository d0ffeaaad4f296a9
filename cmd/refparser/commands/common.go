// Package commands provides CLI command handlers for refparser.
package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/refparser"
	"github.com/erraggy/refparser/internal/cliutil"
	"github.com/erraggy/refparser/resolver"
	"go.yaml.in/yaml/v4"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = cliutil.FormatJSON
	FormatYAML = cliutil.FormatYAML
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// ValidateDocumentFormat validates the format of an output document.
func ValidateDocumentFormat(format string) error {
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// ValidateOutputPath checks that the output path does not overwrite the input.
func ValidateOutputPath(outputPath, inputPath string) error {
	if inputPath == StdinFilePath || strings.Contains(inputPath, "://") {
		return nil
	}
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	absInputPath, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("invalid input path %s: %w", inputPath, err)
	}
	if absOutputPath == absInputPath {
		return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
	}
	return nil
}

// FormatSpecPath returns a display-friendly path for the document.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// headerFlag collects repeated "Name: value" flags.
type headerFlag struct {
	header http.Header
}

func (h *headerFlag) String() string {
	if h.header == nil {
		return ""
	}
	parts := make([]string, 0, len(h.header))
	for k, vs := range h.header {
		for _, v := range vs {
			parts = append(parts, k+": "+v)
		}
	}
	return strings.Join(parts, ", ")
}

func (h *headerFlag) Set(v string) error {
	name, value, ok := strings.Cut(v, ":")
	if !ok || strings.TrimSpace(name) == "" {
		return fmt.Errorf("header must be 'Name: value', got %q", v)
	}
	if h.header == nil {
		h.header = http.Header{}
	}
	h.header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	return nil
}

// ResolveFlags holds the flags shared by every command that loads documents.
type ResolveFlags struct {
	BaseURL         string
	ResolveHTTPRefs bool
	Insecure        bool
	BlockPrivateIPs bool
	RootDir         string
	Concurrency     int
	MaxDocuments    int
	MaxFileSize     int64
	LocalOnly       bool
	CollectAll      bool
	Timeout         time.Duration
	Headers         headerFlag
	Verbose         bool
	Quiet           bool
}

func (f *ResolveFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.BaseURL, "base-url", "", "base URL for relative references when reading from stdin")
	fs.BoolVar(&f.ResolveHTTPRefs, "resolve-http-refs", false, "resolve HTTP/HTTPS $ref URLs")
	fs.BoolVar(&f.Insecure, "insecure", false, "disable TLS certificate verification for HTTPS refs")
	fs.BoolVar(&f.BlockPrivateIPs, "block-private-ips", false, "refuse HTTP refs to private, loopback and link-local addresses")
	fs.StringVar(&f.RootDir, "root-dir", "", "confine file references to this directory")
	fs.IntVar(&f.Concurrency, "concurrency", resolver.DefaultConcurrency, "maximum parallel document fetches")
	fs.IntVar(&f.MaxDocuments, "max-documents", resolver.DefaultMaxDocuments, "maximum number of documents to load")
	fs.Int64Var(&f.MaxFileSize, "max-file-size", 0, "maximum bytes per document (default 10MB)")
	fs.BoolVar(&f.LocalOnly, "local-only", false, "skip references to other documents")
	fs.BoolVar(&f.CollectAll, "collect-all", false, "report every broken reference instead of stopping at the first")
	fs.DurationVar(&f.Timeout, "timeout", 0, "overall time limit, e.g. 30s (default: none)")
	fs.Var(&f.Headers, "H", "HTTP header 'Name: value' for HTTP refs (repeatable)")
	fs.BoolVar(&f.Verbose, "v", false, "verbose: log resolution details to stderr")
	fs.BoolVar(&f.Quiet, "q", false, "quiet mode: only output the document, no diagnostic messages")
	fs.BoolVar(&f.Quiet, "quiet", false, "quiet mode: only output the document, no diagnostic messages")
}

// context returns the context bounding one command run.
func (f *ResolveFlags) context() (context.Context, context.CancelFunc) {
	if f.Timeout > 0 {
		return context.WithTimeout(context.Background(), f.Timeout)
	}
	return context.WithCancel(context.Background())
}

// options translates the flags into resolver options for the document at
// specPath. Stdin is read fully.
func (f *ResolveFlags) options(ctx context.Context, specPath string) ([]resolver.Option, error) {
	opts := []resolver.Option{
		resolver.WithContext(ctx),
		resolver.WithResolveHTTPRefs(f.ResolveHTTPRefs),
		resolver.WithInsecureSkipVerify(f.Insecure),
		resolver.WithSafeHTTP(f.BlockPrivateIPs),
		resolver.WithConcurrency(f.Concurrency),
		resolver.WithMaxDocuments(f.MaxDocuments),
		resolver.WithMaxFileSize(f.MaxFileSize),
		resolver.WithLocalOnly(f.LocalOnly),
		resolver.WithUserAgent(refparser.UserAgent()),
	}
	if f.RootDir != "" {
		opts = append(opts, resolver.WithRootDir(f.RootDir))
	}
	if f.CollectAll {
		opts = append(opts, resolver.WithOnUnresolved(resolver.CollectAll))
	}
	if f.Headers.header != nil {
		opts = append(opts, resolver.WithHTTPHeaders(f.Headers.header))
	}
	if f.Verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, resolver.WithLogger(resolver.NewSlogAdapter(slog.New(handler))))
	}

	if specPath == StdinFilePath {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return append(opts, resolver.WithBytes(f.BaseURL, data)), nil
	}
	if f.BaseURL != "" {
		return nil, fmt.Errorf("--base-url is only valid when reading from stdin")
	}
	return append(opts, resolver.WithFilePath(specPath)), nil
}

// printWarnings writes collected resolution errors to stderr.
func printWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	cliutil.Writef(os.Stderr, "Unresolved References (%d):\n", len(warnings))
	for _, w := range warnings {
		cliutil.Writef(os.Stderr, "  - %s\n", w)
	}
	cliutil.Writef(os.Stderr, "\n")
}

// writeDocument writes data to output, or stdout when output is empty.
func writeDocument(data []byte, output string, quiet bool) error {
	if output == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing document to stdout: %w", err)
		}
		return nil
	}
	written, err := cliutil.WriteOutput(output, data)
	if err != nil {
		return err
	}
	if !quiet {
		cliutil.Writef(os.Stderr, "Output written to: %s\n", written)
	}
	return nil
}
