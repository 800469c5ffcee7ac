package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/reviewdesk/reviewkit/internal/support"
	"github.com/reviewdesk/reviewkit/pkg/config"
	"github.com/reviewdesk/reviewkit/pkg/credentials"
	"github.com/reviewdesk/reviewkit/pkg/logging"
	"github.com/reviewdesk/reviewkit/pkg/secrets"
)

var logger = logging.Component("internal/cli")

type Globals struct {
	Verbose     bool   `help:"Enable verbose logging." short:"v"`
	LogToFile   bool   `help:"Enable logging to file." env:"REVIEWKIT_LOG_TO_FILE"`
	LogFilePath string `help:"Override default log file path." env:"REVIEWKIT_LOG_FILE"`
}

type CLI struct {
	Globals `embed:""`

	Version  kong.VersionFlag `help:"Show application version."`
	Selector string           `arg:"" optional:"" name:"mode" help:"get or set, optionally written as SECURITY_MODE=<mode>. Defaults to the SECURITY_MODE environment variable."`
	EnvFile  string           `help:"Read SERVICE_* variables from a dotenv file; the environment takes precedence." type:"path"`
	Prompt   bool             `help:"In set mode, prompt for the password when SERVICE_PASSWORD is not set."`
}

// Deps carries the process state Execute works against, so it can be
// driven from tests without touching the real environment or keyring.
type Deps struct {
	Env    config.Config
	Store  secrets.SecretStore
	Stdout io.Writer
	// ReadPassword is used by --prompt. Nil disables prompting.
	ReadPassword func(prompt string) (string, error)
}

func Main() {
	deps := Deps{
		Env:    config.GetEnvConfig(credentials.EnvKeys...),
		Store:  &secrets.KeyringSecretStore{},
		Stdout: os.Stdout,
	}
	if support.IsInteractive() {
		deps.ReadPassword = support.ReadPassword
	}

	if err := Execute(os.Args[1:], deps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Execute parses args and runs one get or set operation. Only a missing
// credential, a parse error or a keyring failure is returned as an error;
// an invalid mode or missing variables are reported on Stdout.
func Execute(args []string, deps Deps) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("keyring-tool"),
		kong.Description("Get or set passwords in the OS keyring"),
		kong.UsageOnError(),
		kong.Vars{"version": versionString()},
	)
	if err != nil {
		return err
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logPath := cli.Globals.LogFilePath
	if cli.Globals.LogToFile && logPath == "" {
		logPath = filepath.Join(logging.GetDefaultLogDir(), "keyring-tool.log")
	}
	logging.SetupLogging(cli.Globals.Verbose, logPath)

	return cli.run(deps)
}

func (c *CLI) run(deps Deps) error {
	out := deps.Stdout

	env, err := support.LoadMergedConfig(deps.Env, c.EnvFile)
	if err != nil {
		return err
	}

	cfg, err := credentials.LoadConfig(c.Selector, env)
	if err != nil {
		logger.Warnf("No usable mode: %v", err)
		printModeError(out)
		return nil
	}
	logger.Debugf("Running in %s mode", cfg.Mode)

	if cfg.Mode == credentials.ModeSet && cfg.Password == "" && c.Prompt && deps.ReadPassword != nil && cfg.User != "" {
		cfg.Password, err = deps.ReadPassword(fmt.Sprintf("Enter password for %s (%s): ", cfg.User, cfg.Service))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	secret, err := credentials.NewHelper(deps.Store).Run(cfg)
	if errors.Is(err, credentials.ErrMissingEnvironmentValue) {
		logger.Warnf("Wrong environment variable(s): %v", err)
		fmt.Fprintln(out, "Wrong environment variable(s)!")
		fmt.Fprintln(out, err)
		return nil
	}
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case credentials.ModeGet:
		fmt.Fprintln(out, secret)
	case credentials.ModeSet:
		fmt.Fprintln(out, "Password saved!")
	}
	return nil
}
