package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-wellformed"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	inputPath string
	format    string
	maxSize   int
	quiet     bool
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	checker, err := wellformed.New(wellformed.WithMaxInputSize(cfg.maxSize))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCheckerFailed, err)
		return ExitCodeUsageError
	}
	report := checker.Check(string(source))

	if !cfg.quiet {
		if cfg.format == OutputFormatJSON {
			outputReportJSON(report, stdout)
		} else {
			outputReportText(report, stdout)
		}
	}

	if !report.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &validateConfig{}

	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.IntVar(&cfg.maxSize, FlagMaxSize, 0, "")
	fs.BoolVar(&cfg.quiet, FlagQuiet, false, "")
	fs.BoolVar(&cfg.quiet, FlagQuietShort, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.inputPath == "" {
		return nil, errors.New(ErrMsgMissingInput)
	}

	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputReportText(report *wellformed.Report, stdout io.Writer) {
	fmt.Fprintln(stdout, report.Reason)
	for _, el := range report.Unclosed {
		fmt.Fprintf(stdout, ValidationTextUnclosedFormat+FmtNewline,
			el.Name, el.Position.Line, el.Position.Column)
	}
}

func outputReportJSON(report *wellformed.Report, stdout io.Writer) {
	jsonBytes, _ := json.MarshalIndent(report, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))
}
