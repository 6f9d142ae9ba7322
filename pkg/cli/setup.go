package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/uniclear/clearance/pkg/config"
	"github.com/uniclear/clearance/pkg/credential"
	"github.com/uniclear/clearance/pkg/logging"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

// interactive reports whether prompts may be shown.
var interactive = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// loadConfig resolves the effective configuration and applies the
// --log-level and --log-format overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		if !logging.ValidLevel(logLevel) {
			return nil, fmt.Errorf("invalid --log-level %q", logLevel)
		}
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	return cfg, nil
}

// newLogger builds the operator logger: stderr at the configured level and,
// when logging.file is set, JSON lines appended to that file. The returned
// close function releases the file.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	lc := logging.DefaultConfig()
	lc.Level = logging.ParseLevel(cfg.Logging.Level)
	lc.Format = logging.ParseFormat(cfg.Logging.Format)

	if cfg.Logging.File == "" {
		return logging.New(lc), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	fileCfg := lc
	fileCfg.Format = logging.FormatJSON
	fileCfg.Output = f

	logger := slog.New(logging.NewMultiHandler(logging.NewHandler(lc), logging.NewHandler(fileCfg)))
	return logger, func() { _ = f.Close() }, nil
}

// resolveCredential returns the session credential from cfg, prompting for
// missing parts when attached to a terminal.
func resolveCredential(cfg *config.Config) (credential.Credential, error) {
	if (cfg.Username == "" || cfg.SessionToken == "") && interactive() {
		if err := promptCredential(cfg); err != nil {
			return credential.Credential{}, err
		}
	}
	return cfg.Credential()
}

func promptCredential(cfg *config.Config) error {
	required := func(name string) func(string) error {
		return func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New(name + " is required")
			}
			return nil
		}
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username?").
				Placeholder("institution username").
				Validate(required("username")).
				Value(&cfg.Username),
			huh.NewInput().
				Title("Session token?").
				EchoMode(huh.EchoModePassword).
				Validate(required("session token")).
				Value(&cfg.SessionToken),
		),
	)
	return form.Run()
}

// readInput reads the named file, or stdin for "-".
func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
