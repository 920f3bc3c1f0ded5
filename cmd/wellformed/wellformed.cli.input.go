package main

import (
	"io"
	"os"

	"github.com/itsatony/go-wellformed"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// loadConfig loads path, or wellformed.yaml from the working directory
// when path is empty and the file exists, or the defaults.
func loadConfig(path string) (*wellformed.Config, error) {
	if path == "" {
		if _, err := os.Stat(wellformed.DefaultConfigFile); err == nil {
			path = wellformed.DefaultConfigFile
		}
	}
	return wellformed.LoadConfig(path)
}

// validFormat reports whether format is a supported output format
func validFormat(format string) bool {
	return format == OutputFormatText || format == OutputFormatJSON
}
