package main

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"plantapi/internal/config"
	"plantapi/internal/logging"
	"plantapi/internal/uml"
)

// app is the state shared by all commands, filled before any command runs.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log *logrus.Logger
}

func (a *app) bindFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "config.json", "path to config JSON")
	pf.StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json (overrides config)")
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, nil)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.logFormat != "" {
		cfg.LogFormat = a.logFormat
	}
	log, err := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// readSource reads a diagram from path, or from the command's stdin when path
// is empty or "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, "read stdin")
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(b), nil
}

// collectInputs expands directories into the diagram files below them.
// Explicit files are kept whatever their extension.
func collectInputs(args []string) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "input %s", arg)
		}
		if !st.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !d.IsDir() && uml.IsDiagramFile(d.Name()) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scan %s", arg)
		}
	}
	return out, nil
}
