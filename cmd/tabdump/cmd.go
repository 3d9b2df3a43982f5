package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/simonhull/tabular"
)

type dumpConfig struct {
	delimiter    string
	keyOrder     string
	separator    string
	nullValue    string
	logLevel     string
	limit        int
	strict       bool
	allRowGroups bool
	headersOnly  bool
	logJSON      bool
}

func newRootCmd() *cobra.Command {
	cfg := &dumpConfig{}

	cmd := &cobra.Command{
		Use:   "tabdump [flags] <file>",
		Short: "Print the headers and records of a tabular file",
		Long: "Print the headers and records of a CSV, TSV, JSON or Parquet file as an aligned table.\n" +
			"The encoding is chosen from the file extension.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       tabular.GetVersionInfo().String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.logLevel, cfg.logJSON)
			if err != nil {
				return err
			}
			return runDump(cmd.OutOrStdout(), args[0], cfg, logger)
		},
	}

	cmd.SetVersionTemplate("{{.Version}}")

	flags := cmd.Flags()
	flags.StringVarP(&cfg.delimiter, "delimiter", "d", "", `field delimiter for .csv/.tsv files ("tab" or "\t" for tab); defaults by extension`)
	flags.BoolVar(&cfg.strict, "strict", false, "fail on malformed rows and non-array JSON documents")
	flags.StringVar(&cfg.keyOrder, "key-order", "sorted", "JSON member order: sorted or document")
	flags.StringVar(&cfg.separator, "separator", ".", "separator joining nested header names")
	flags.StringVar(&cfg.nullValue, "null", "null", "text printed for null values")
	flags.BoolVar(&cfg.allRowGroups, "all-row-groups", false, "read every Parquet row group, not only the first")
	flags.BoolVar(&cfg.headersOnly, "headers-only", false, "print headers and exit")
	flags.IntVarP(&cfg.limit, "limit", "n", 0, "maximum number of records to print (0 = all)")
	flags.StringVar(&cfg.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.BoolVar(&cfg.logJSON, "log-json", false, "write logs as JSON")

	return cmd
}

// newLogger returns a slog.Logger backed by a charm logger on w.
func newLogger(w io.Writer, level string, json bool) (*slog.Logger, error) {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           lvl,
		Prefix:          "tabdump",
	})
	if json {
		handler.SetFormatter(charmlog.JSONFormatter)
	}
	return slog.New(handler), nil
}

// options translates the flags into library options for path.
func (c *dumpConfig) options(path string, logger *slog.Logger) ([]tabular.Option, error) {
	opts := []tabular.Option{
		tabular.WithPathSeparator(c.separator),
		tabular.WithNullValue(c.nullValue),
		tabular.WithLogger(logger),
	}

	delimiter, err := parseDelimiter(c.delimiter, path)
	if err != nil {
		return nil, err
	}
	if delimiter != 0 {
		opts = append(opts, tabular.WithDelimiter(delimiter))
	}

	switch c.keyOrder {
	case "sorted":
		opts = append(opts, tabular.WithKeyOrder(tabular.KeyOrderSorted))
	case "document":
		opts = append(opts, tabular.WithKeyOrder(tabular.KeyOrderDocument))
	default:
		return nil, fmt.Errorf("invalid --key-order %q: want sorted or document", c.keyOrder)
	}

	if c.strict {
		opts = append(opts, tabular.WithStrictParsing())
	}
	if c.allRowGroups {
		opts = append(opts, tabular.WithAllRowGroups())
	}
	return opts, nil
}

// parseDelimiter reads the --delimiter flag. Without one, .csv files use a
// comma and .tsv files a tab.
func parseDelimiter(s, path string) (rune, error) {
	switch s {
	case "":
		lower := strings.ToLower(path)
		switch {
		case strings.HasSuffix(lower, ".csv"):
			return ',', nil
		case strings.HasSuffix(lower, ".tsv"):
			return '\t', nil
		}
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) {
		return 0, fmt.Errorf("invalid --delimiter %q: want a single character", s)
	}
	return r, nil
}

// runDump opens path and writes its headers and records to w.
func runDump(w io.Writer, path string, cfg *dumpConfig, logger *slog.Logger) error {
	opts, err := cfg.options(path, logger)
	if err != nil {
		return err
	}

	file, err := tabular.Open(path, opts...)
	if err != nil {
		return err
	}
	defer file.Close()

	headers, err := file.Headers()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(escape(headers), "\t"))
	if cfg.headersOnly {
		return tw.Flush()
	}

	it, err := file.Records()
	if err != nil {
		return err
	}
	defer it.Close()

	n := 0
	for rec := range it.All() {
		fmt.Fprintln(tw, strings.Join(escape(rec), "\t"))
		n++
		if cfg.limit > 0 && n >= cfg.limit {
			break
		}
	}
	if err := it.Err(); err != nil {
		tw.Flush()
		return err
	}

	for _, warning := range it.Warnings() {
		logger.Warn("record skipped", slog.String("path", path), slog.String("warning", warning.String()))
	}

	logger.Info("dumped file",
		slog.String("path", path),
		slog.String("encoding", file.Encoding.String()),
		slog.Int("columns", len(headers)),
		slog.Int("records", n),
	)
	return tw.Flush()
}

var controlEscaper = strings.NewReplacer("\t", `\t`, "\n", `\n`, "\r", `\r`)

// escape keeps embedded tabs and newlines from breaking table alignment.
func escape(rec []string) []string {
	out := make([]string, len(rec))
	for i, field := range rec {
		out[i] = controlEscaper.Replace(field)
	}
	return out
}
