package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionInfo is printed by the version command
type versionInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsYAML mirrors versions.yaml at the repository root
type versionsYAML struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time      string `yaml:"time"`
		GoVersion string `yaml:"go_version"`
	} `yaml:"build"`
}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	info := getVersionInfo()

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(info, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if !validFormat(cfg.format) {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

// getVersionInfo reads versions.yaml from the working directory or up to
// two parents, falling back to unknown values.
func getVersionInfo() *versionInfo {
	info := &versionInfo{
		Name:      CLIName,
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	dir := "."
	for range 3 {
		vy, ok := readVersionsFile(filepath.Join(dir, VersionsFile))
		if ok {
			applyVersions(info, vy)
			break
		}
		dir = filepath.Join(dir, "..")
	}

	return info
}

func readVersionsFile(path string) (*versionsYAML, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var vy versionsYAML
	if err := yaml.Unmarshal(data, &vy); err != nil {
		return nil, false
	}
	return &vy, true
}

func applyVersions(info *versionInfo, vy *versionsYAML) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&info.Name, vy.Project.Name)
	set(&info.Version, vy.Project.Version)
	set(&info.Commit, vy.Git.Commit)
	set(&info.Branch, vy.Git.Branch)
	set(&info.BuildTime, vy.Build.Time)
	set(&info.GoVersion, vy.Build.GoVersion)
}
