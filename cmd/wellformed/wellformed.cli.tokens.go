package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-wellformed/internal"
)

// tokensConfig holds parsed tokens command configuration
type tokensConfig struct {
	inputPath string
	format    string
}

// tokenOutput represents one token in JSON output
type tokenOutput struct {
	Type   string `json:"type"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
	Offset int    `json:"offset"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func runTokens(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseTokensFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	scanner := internal.NewScanner(string(source), nil)

	if cfg.format == OutputFormatJSON {
		output := []tokenOutput{}
		for tok := range scanner.Tokens() {
			output = append(output, tokenOutput{
				Type:   string(tok.Type),
				Name:   tok.Name,
				Value:  tok.Value,
				Offset: tok.Position.Offset,
				Line:   tok.Position.Line,
				Column: tok.Position.Column,
			})
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	i := 0
	for tok := range scanner.Tokens() {
		fmt.Fprintf(stdout, TokenTextFormat+FmtNewline, i, tok)
		i++
	}
	return ExitCodeSuccess
}

func parseTokensFlags(args []string) (*tokensConfig, error) {
	fs := flag.NewFlagSet(CmdNameTokens, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &tokensConfig{}

	fs.StringVar(&cfg.inputPath, FlagInput, "", "")
	fs.StringVar(&cfg.inputPath, FlagInputShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

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
