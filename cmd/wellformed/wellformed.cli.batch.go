package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/itsatony/go-wellformed"
	"go.uber.org/zap"
)

// batchConfig holds parsed batch command configuration
type batchConfig struct {
	configPath string
	format     string
	outputPath string
	store      bool
	tags       tagList
	files      []string
}

// tagList collects repeated --tag flags
type tagList []string

func (t *tagList) String() string {
	return strings.Join(*t, wellformed.TagListSeparator)
}

func (t *tagList) Set(value string) error {
	*t = append(*t, value)
	return nil
}

// batchFileOutput represents one file in JSON output
type batchFileOutput struct {
	File     string              `json:"file"`
	Valid    bool                `json:"valid"`
	Outcome  wellformed.Outcome  `json:"outcome,omitempty"`
	Reason   string              `json:"reason,omitempty"`
	Error    string              `json:"error,omitempty"`
	ReportID wellformed.ReportID `json:"report_id,omitempty"`
}

// batchOutput represents JSON output for batch
type batchOutput struct {
	Valid      bool              `json:"valid"`
	Files      []batchFileOutput `json:"files"`
	Invalid    int               `json:"invalid"`
	Unreadable int               `json:"unreadable"`
}

func runBatch(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseBatchFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	appConfig, err := loadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeError
	}

	logger, err := appConfig.Log.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoggerFailed, err)
		return ExitCodeError
	}
	defer func() { _ = logger.Sync() }()

	checker, err := newReportChecker(appConfig, logger)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCheckerFailed, err)
		return ExitCodeError
	}

	var storage wellformed.ReportStorage
	if cfg.store {
		storage, err = appConfig.Storage.Open(logger)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
			return ExitCodeError
		}
		defer func() { _ = storage.Close() }()
	}

	ctx := context.Background()
	output := batchOutput{Files: make([]batchFileOutput, 0, len(cfg.files))}

	for _, file := range cfg.files {
		entry := batchFileOutput{File: file}

		source, err := readInput(file, nil)
		if err != nil {
			entry.Error = err.Error()
			output.Unreadable++
			output.Files = append(output.Files, entry)
			continue
		}

		input := string(source)
		report := checker.Check(input)
		entry.Valid = report.Valid
		entry.Outcome = report.Outcome
		entry.Reason = report.Reason
		if !report.Valid {
			output.Invalid++
		}

		if storage != nil {
			stored := wellformed.NewStoredReport(file, input, report, cfg.tags...)
			if err := storage.Save(ctx, stored); err != nil {
				fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStoreFailed, err)
				return ExitCodeError
			}
			entry.ReportID = stored.ID
		}

		output.Files = append(output.Files, entry)
	}
	output.Valid = output.Invalid == 0 && output.Unreadable == 0

	var data []byte
	if cfg.format == OutputFormatJSON {
		data, _ = json.MarshalIndent(output, "", "  ")
		data = append(data, FmtNewline...)
	} else {
		data = []byte(formatBatchText(output))
	}
	if err := writeOutput(cfg.outputPath, data, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	switch {
	case output.Unreadable > 0:
		return ExitCodeInputError
	case output.Invalid > 0:
		return ExitCodeValidationError
	default:
		return ExitCodeSuccess
	}
}

func parseBatchFlags(args []string) (*batchConfig, error) {
	fs := flag.NewFlagSet(CmdNameBatch, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &batchConfig{}

	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.BoolVar(&cfg.store, FlagStore, false, "")
	fs.Var(&cfg.tags, FlagTag, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	cfg.files = fs.Args()
	if len(cfg.files) == 0 {
		return nil, errors.New(ErrMsgMissingFiles)
	}
	for _, file := range cfg.files {
		if file == InputSourceStdin {
			return nil, errors.New(ErrMsgStdinInBatch)
		}
	}

	return cfg, nil
}

// newReportChecker builds the checker described by config, cached when the
// cache is enabled.
func newReportChecker(config *wellformed.Config, logger *zap.Logger) (wellformed.ReportChecker, error) {
	checker, err := wellformed.New(config.Options(logger)...)
	if err != nil {
		return nil, err
	}
	if !config.Cache.Enabled {
		return checker, nil
	}
	return wellformed.NewCachedChecker(checker, config.Cache.ResultCacheConfig()), nil
}

func formatBatchText(output batchOutput) string {
	var sb strings.Builder
	for _, f := range output.Files {
		switch {
		case f.Error != "":
			fmt.Fprintf(&sb, BatchTextLineFormat+FmtNewline, f.File, f.Error)
		case f.ReportID != "":
			fmt.Fprintf(&sb, BatchTextStoredFormat+FmtNewline, f.File, f.Reason, f.ReportID)
		default:
			fmt.Fprintf(&sb, BatchTextLineFormat+FmtNewline, f.File, f.Reason)
		}
	}
	fmt.Fprintf(&sb, BatchTextSummary+FmtNewline, len(output.Files), output.Invalid, output.Unreadable)
	return sb.String()
}
