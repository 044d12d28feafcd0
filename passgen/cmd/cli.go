package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/arthur-debert/passgen/formats"
	"github.com/arthur-debert/passgen/passgen"
	"github.com/arthur-debert/passgen/passgen/generator"
)

const version = "1.0"

// CLI wires the passgen root command to viper configuration
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// engineOpts are appended to every Engine, for tests
	engineOpts []passgen.Option
}

// NewCLI creates the CLI reading from stdin and writing to stdout and stderr
func NewCLI(stdin io.Reader, stdout, stderr io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
	}

	cli.setupViperConfig()
	cli.createRootCommand()

	return cli
}

// setupViperConfig configures Viper with environment variables and config files
func (cli *CLI) setupViperConfig() {
	// PASSGEN_CONFIG names a config file explicitly
	if configFile := os.Getenv("PASSGEN_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("passgen")
		cli.viperInst.SetConfigType("yaml")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.passgen")
		cli.viperInst.AddConfigPath("/etc/passgen")
	}

	cli.viperInst.AutomaticEnv()
	cli.viperInst.SetEnvPrefix("PASSGEN")

	// Replace dash with underscore in env vars (e.g., --wordlist-dir -> PASSGEN_WORDLIST_DIR)
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cli.viperInst.SetDefault("log-level", "warn")
	cli.viperInst.SetDefault("format", formats.DefaultFormat)
	cli.viperInst.SetDefault("sink", string(generator.SinkFile))

	// Read config file if it exists (ignore errors)
	_ = cli.viperInst.ReadInConfig()
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:     "passgen [flags] <RULES> [OUTPUT_FILE_PATH]",
		Short:   "A rules-based tool for generating passwords and wordlists",
		Version: version,
		Long: `passgen expands a rule into every password it describes and writes
them, one per line, to a file or the console.

Rule Syntax:
  Regular:   ['a','b']['1','2']        generates a1, a2, b1, b2
  Range:     ['a..c']['0..2']          generates a0, a1, a2, b0, ... c2
  Wordlist:  [wordlist:names.txt]['!'] uses each line of the file as an option

Notes:
  - Range notation supports only alphanumeric characters (a-z, A-Z, 0-9)
  - Wordlist files are searched in: --wordlist-dir, current dir, passgen's install dir
  - At least one output method (file or -s) must be specified

Configuration Sources (in order of precedence):
  1. Command line flags
  2. Environment variables (PASSGEN_*)
  3. Configuration file (PASSGEN_CONFIG, ./passgen.yaml, ~/.passgen, /etc/passgen)

Examples:
  passgen "['p']['a']['s']['s']['w']['o']['r']['d']" out.txt
  passgen "['p','P']['a','A','@']['s','S','$']['s','S','$']['w','W']['o','O','0']['r','R']['d','D']" out.txt
  passgen "['a..c']['0..5'][2..3]" output.txt
  passgen -s -y "[wordlist:common_passwords.txt]['!','@','#']"
  passgen -p 8 -w wordlists "[wordlist:custom.txt]['0..9']" results.txt
  passgen "[wordlist:/home/user/wordlists/common.txt]['!']" out.txt`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.viperInst.BindPFlags(cmd.Flags())
		},
		RunE: cli.runGenerate,
	}

	cli.rootCmd.SetIn(cli.stdin)
	cli.rootCmd.SetOut(cli.stdout)
	cli.rootCmd.SetErr(cli.stderr)

	cli.addFlags(cli.rootCmd.Flags())
}

func (cli *CLI) addFlags(flags *pflag.FlagSet) {
	flags.StringP("processes", "p", "", "Use N processes for parallel generation (default: CPU count)")
	flags.BoolP("show-passwords", "s", false, "Print generated passwords to console")
	flags.BoolP("verbose", "v", false, "Show detailed information during execution")
	flags.BoolP("yes", "y", false, "Skip confirmation and start generating immediately")
	flags.StringP("wordlist-dir", "w", "", "Directory to search for wordlist files")

	flags.StringP("format", "f", formats.DefaultFormat, "Summary format ("+strings.Join(formats.List(), "|")+")")
	flags.String("log-level", "warn", "Log file level (debug|info|warn|error)")
	flags.Duration("timeout", 0, "Abort generation after this long (0 disables)")
	flags.String("sink", string(generator.SinkFile), "Worker buffer (file|memory)")
}

// Execute runs the command and returns the process exit code
func (cli *CLI) Execute(ctx context.Context, args []string) int {
	cli.rootCmd.SetArgs(args)

	if err := cli.rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(cli.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig builds a passgen.Config from arguments, flags, env and config file
func (cli *CLI) loadConfig(args []string) (passgen.Config, []string) {
	v := cli.viperInst
	var warnings []string

	cfg := passgen.Config{
		Rules:            args[0],
		ShowPasswords:    v.GetBool("show-passwords"),
		Verbose:          v.GetBool("verbose"),
		SkipConfirmation: v.GetBool("yes"),
		WordlistDir:      v.GetString("wordlist-dir"),
		Sink:             v.GetString("sink"),
		Timeout:          v.GetDuration("timeout"),
		Format:           v.GetString("format"),
	}
	if len(args) > 1 {
		cfg.OutputPath = args[1]
	}

	processes, err := parseProcesses(v.GetString("processes"))
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("Invalid number of processes %q, using default (%d)", v.GetString("processes"), processes))
	}
	cfg.Processes = processes

	return cfg, warnings
}

// parseProcesses reads the -p value. Empty, unparsable and non-positive
// values fall back to the CPU count; only the latter two are errors.
func parseProcesses(s string) (int, error) {
	if s == "" {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return runtime.NumCPU(), err
	}
	if n < 1 {
		return runtime.NumCPU(), fmt.Errorf("processes must be positive, got %d", n)
	}
	return n, nil
}

func (cli *CLI) runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, warnings := cli.loadConfig(args)

	logger, closeLog, err := initLogging(cli.viperInst.GetString("log-level"), cfg.Verbose, cli.stderr)
	if err != nil {
		fmt.Fprintf(cli.stderr, "Warning: %v\n", err)
		logger, closeLog = slog.New(slog.NewTextHandler(cli.stderr, &slog.HandlerOptions{Level: slog.LevelWarn})), func() {}
	}
	defer closeLog()

	for _, w := range warnings {
		fmt.Fprintf(cli.stderr, "Warning: %s\n", w)
	}

	format, err := formats.Get(cfg.Format)
	if err != nil {
		return NewConfigError("start", err, CommonSuggestions.CheckConfig, CommonSuggestions.RunHelp)
	}

	// Status lines go to stderr when stdout carries structured output
	status := cli.stdout
	if format != formats.Text {
		status = cli.stderr
	}

	confirmer := &summaryConfirmer{
		format:        format,
		out:           cli.stdout,
		status:        status,
		verbose:       cfg.Verbose,
		showPasswords: cfg.ShowPasswords,
		ask:           !cfg.SkipConfirmation,
		prompt:        &promptConfirmer{in: cli.stdin, out: status},
	}

	opts := append([]passgen.Option{
		passgen.WithLogger(logger),
		passgen.WithEcho(cli.stdout),
		passgen.WithConfirmer(confirmer),
	}, cli.engineOpts...)
	engine, err := passgen.New(cfg, opts...)
	if err != nil {
		if errors.Is(err, passgen.ErrNoOutput) {
			return WrapError("start", err)
		}
		return NewConfigError("start", err, CommonSuggestions.CheckConfig, CommonSuggestions.RunHelp)
	}
	for _, w := range engine.Warnings() {
		fmt.Fprintf(cli.stderr, "Warning: %s\n", w)
	}

	plan, report, err := engine.Run(ctx)
	switch {
	case errors.Is(err, passgen.ErrAborted):
		fmt.Fprintln(status, "\nOperation aborted by user.")
		return nil
	case err != nil && plan == nil:
		return WrapError("parse rules", err)
	case err != nil:
		return WrapError("generate passwords", err)
	}

	return format.Report(cli.stdout, report)
}
