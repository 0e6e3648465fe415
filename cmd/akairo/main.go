// Package main provides the akairo CLI: an interactive shell for trying out
// argument resolution, and a batch mode that runs scripted sessions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"akairo/internal/argument"
	"akairo/internal/casting"
	"akairo/internal/commands"
	"akairo/internal/commands/builtin"
	"akairo/internal/config"
	"akairo/internal/logger"
	"akairo/internal/shell"
	"akairo/internal/version"
)

const scriptExt = ".akairo"

var (
	logLevel   string
	logFile    string
	configFile string
	testMode   bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "akairo",
	Short: "akairo - command argument resolution shell",
	Long: `akairo parses command input into typed arguments, prompting for anything
missing or invalid. Run it without a subcommand to start the interactive shell.`,
	RunE: runShell,
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	RunE:  runShell,
}

// batchCmd runs a script of command lines. Prompts take their replies from the following lines.
var batchCmd = &cobra.Command{
	Use:   "batch <script.akairo>",
	Short: "Execute an .akairo script in batch mode",
	Long: `Execute an .akairo script without entering interactive mode. Each line is
handled as if typed into the shell, and a prompt reads its reply from the next line.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file [default: ./akairo.yaml, then the user config dir]")
	rootCmd.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Run in deterministic test mode")
	rootCmd.PersistentFlags().String("prefix", "", "Command prefix [default: !]")

	for _, name := range []string{"log-level", "log-file", "test-mode", "prefix"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	loaded, err := config.Load(config.Options{File: configFile, Viper: viper.GetViper()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	if err := logger.Configure(logLevel, logFile, testMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("Configuration loaded", "file", cfg.Sources.ConfigFile, "env_files", cfg.Sources.EnvFiles)
}

// newDispatcher wires the type registry, the command table and the prompt defaults from c.
func newDispatcher(c *config.Config) (*commands.Dispatcher, error) {
	types := casting.NewRegistryWithBuiltins()
	table := commands.NewTable()

	if err := builtin.Register(table, types); err != nil {
		return nil, err
	}
	if err := builtin.RegisterExamples(table); err != nil {
		return nil, err
	}
	if c.CommandsFile != "" {
		data, err := os.ReadFile(c.CommandsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read commands file: %w", err)
		}
		if err := builtin.RegisterDefinitions(table, data, nil); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", c.CommandsFile, err)
		}
	}

	prompt, err := c.PromptDefaults()
	if err != nil {
		return nil, err
	}
	h := argument.NewHandler(types, nil)
	h.Defaults.Prompt = prompt

	return commands.NewDispatcher(table, h, c.Tokenizer(), c.Prefixes()...), nil
}

func runShell(_ *cobra.Command, _ []string) error {
	logger.Info("Starting akairo", "version", version.GetVersion())

	d, err := newDispatcher(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, sh := shell.NewInteractive(d, shell.NewRenderer(testMode))
	defer sh.Close()

	sh.Println(version.GetFormattedVersion())
	sh.Println(fmt.Sprintf("Type '%shelp' for commands or 'exit' to quit.", cfg.Prefix))

	return s.Run(ctx)
}

func runBatch(_ *cobra.Command, args []string) error {
	scriptPath := args[0]
	logger.Info("Starting akairo batch mode", "version", version.GetVersion(), "script", scriptPath)

	if err := validateScriptFile(scriptPath); err != nil {
		return err
	}
	d, err := newDispatcher(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	s := shell.New(d, shell.NewScriptReader(f), shell.WriterPrinter{W: os.Stdout}, shell.NewRenderer(true))
	if err := s.Run(context.Background()); err != nil {
		return fmt.Errorf("script execution failed: %w", err)
	}
	logger.Info("Script executed successfully", "script", scriptPath)
	return nil
}

func validateScriptFile(scriptPath string) error {
	if _, err := os.Stat(scriptPath); os.IsNotExist(err) {
		return fmt.Errorf("script file does not exist: %s", scriptPath)
	}
	if ext := filepath.Ext(scriptPath); ext != scriptExt {
		return fmt.Errorf("script file must have %s extension, got: %s", scriptExt, ext)
	}
	return nil
}
