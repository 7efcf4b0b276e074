// Package cli implements the pensionqa command line.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"pensionqa/internal/config"
	"pensionqa/internal/logger"
	"pensionqa/internal/normalizer"
	"pensionqa/internal/report"
	"pensionqa/internal/sheet"
	"pensionqa/internal/validator"
	"pensionqa/pkg/metadata"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitInvalidValue = 1
	ExitNotFound     = 2
	ExitRuntime      = 3
	ExitUnknown      = 4
)

// ErrUsage marks bad arguments or flags.
var ErrUsage = errors.New("invalid usage")

type options struct {
	input      string
	layout     string
	output     string
	configPath string
	logLevel   string
	workers    int
	summary    bool
	manifest   bool
}

// NewRootCommand builds the pensionqa command. Prompts for missing arguments
// are read from in; results go to out and logs to errOut.
func NewRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "pensionqa <input-file> <A|B>",
		Short: "Normalize a pension payee spreadsheet and flag data quality issues",
		Long: `pensionqa reads a payee spreadsheet in layout A or B, maps it to the
canonical payee table and adds data quality flags to every row.

Supported formats: ` + strings.Join(sheet.Extensions(), ", "),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 2 {
				return fmt.Errorf("%w: accepts at most 2 args, received %d", ErrUsage, len(args))
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}

			if len(args) > 1 {
				opts.layout = args[1]
			}

			return run(cmd, in, out, errOut, opts)
		},
	}

	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default from config, "+config.DefaultOutputPath+")")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of normalization workers")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a summary of the data quality checks")
	cmd.Flags().BoolVar(&opts.manifest, "manifest", false, "Write a run manifest next to the output")

	return cmd
}

func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	cfg := config.Default()

	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}

		cfg = loaded
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if cmd.Flags().Changed("workers") {
		cfg.Processing.Workers = opts.workers
	}

	if opts.manifest {
		cfg.Output.WriteManifest = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	return cfg, nil
}

// prompt asks for a value on out and reads one line from in.
func prompt(r *bufio.Reader, out io.Writer, question string) (string, error) {
	fmt.Fprint(out, question)

	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("%w: no answer for %q", ErrUsage, strings.TrimSpace(question))
	}

	return strings.TrimSpace(line), nil
}

func run(cmd *cobra.Command, in io.Reader, out, errOut io.Writer, opts options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	runID := metadata.NewRunID()
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, errOut).With("run_id", runID)

	log.Debug("configuration loaded", "config", cfg.String())

	// Ask for anything left off the command line
	reader := bufio.NewReader(in)

	if opts.input == "" {
		if opts.input, err = prompt(reader, out, "Input file: "); err != nil {
			return err
		}
	}

	if opts.layout == "" {
		if opts.layout, err = prompt(reader, out, "Layout (A or B): "); err != nil {
			return err
		}
	}

	layout, err := normalizer.ParseLayout(opts.layout)
	if err != nil {
		return err
	}

	outputPath := cfg.OutputPath(opts.output)

	// 1. Read
	table, err := sheet.Read(opts.input)
	if err != nil {
		return err
	}

	log.Info("input loaded", "file", opts.input, "layout", layout.String(), "rows", len(table.Rows))

	// 2. Check the header
	result, err := validator.NewHeaderValidator(cfg.Validation.StrictHeader).Validate(layout, table.Header)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings() {
		log.Warn("header mismatch", "detail", w)
	}

	// 3. Normalize
	n, err := normalizer.NewNormalizerWithPattern(cfg.Validation.PostalCodePattern)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	processor := normalizer.NewProcessor(
		normalizer.WithWorkers(cfg.Processing.Workers),
		normalizer.WithNormalizer(n),
		normalizer.WithLogger(log),
	)

	records, err := processor.Process(layout, table.Rows)
	if err != nil {
		return err
	}

	// 4. Write
	err = sheet.Write(outputPath, records, sheet.WriteOptions{
		SheetName: cfg.Output.SheetName,
		TableName: cfg.Output.TableName,
	})
	if err != nil {
		return err
	}

	if cfg.Output.WriteManifest {
		manifestPath := metadata.PathFor(outputPath)

		m := metadata.Sign(runID, layout.String(), opts.input, outputPath, records)
		if err := m.Save(manifestPath); err != nil {
			return err
		}

		log.Info("manifest written", "file", manifestPath, "digest", m.Digest)
	}

	if opts.summary {
		fmt.Fprint(out, report.Summarize(records).Markdown())
	}

	fmt.Fprintf(out, "Processed table has been written to %s\n", outputPath)

	return nil
}

// ExitCode maps an error returned by the command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, fs.ErrNotExist):
		return ExitNotFound
	case errors.Is(err, ErrUsage),
		errors.Is(err, config.ErrInvalid),
		errors.Is(err, normalizer.ErrInvalidLayoutTag),
		errors.Is(err, normalizer.ErrRowLimitExceeded),
		errors.Is(err, sheet.ErrUnsupportedFormat),
		errors.Is(err, sheet.ErrNotReadable),
		errors.Is(err, validator.ErrHeaderMismatch):
		return ExitInvalidValue
	default:
		return ExitRuntime
	}
}

// Execute runs the command with args and returns the exit code. Errors are
// reported on errOut; a panic is reported and mapped to ExitUnknown.
func Execute(args []string, in io.Reader, out, errOut io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errOut, "Unexpected error: %v\n", r)
			code = ExitUnknown
		}
	}()

	cmd := NewRootCommand(in, out, errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	code = ExitCode(err)

	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
	}

	return code
}
