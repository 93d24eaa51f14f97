package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"aliasc/internal/prof"
	"aliasc/internal/version"
)

// errFailed — команда уже напечатала диагностики; нужен только код выхода.
var errFailed = errors.New("compilation failed")

// newRootCmd builds the command tree. finish must run after Execute with
// its error, whether or not the command failed: it stops profiles and
// flushes tracing.
func newRootCmd() (rootCmd *cobra.Command, finish func(err error)) {
	rootCmd = &cobra.Command{
		Use:           "aliasc",
		Short:         "Alias language compiler",
		Long:          `aliasc lexes, parses and compiles integer aliases to LLVM IR`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var (
		cleanupTracing func(failed bool)
		profiles       *prof.Session
	)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := setupColor(cmd); err != nil {
			return err
		}
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanupTracing = cleanup
		profiles, err = startProfiles(cmd)
		return err
	}
	finish = func(err error) {
		if err := profiles.Stop(); err != nil {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "profile: %v\n", err)
		}
		profiles = nil
		if cleanupTracing != nil {
			cleanupTracing(err != nil)
			cleanupTracing = nil
		}
	}

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("diag-format", "pretty", "diagnostics format (pretty|json)")
	pf.String("path-mode", "auto", "path display in diagnostics (auto|absolute|relative|basename)")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both|log)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for ring/both modes")
	pf.Bool("log-json", false, "emit trace events as JSON log records (implies --trace-mode=log)")

	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime execution trace to file")

	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd, finish
}

// main builds the command tree and executes it.
// Any error, including reported diagnostics, exits with status 1.
func main() {
	rootCmd, finish := newRootCmd()
	err := rootCmd.Execute()
	finish(err)
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// useColor решает, раскрашивать ли вывод в f.
func useColor(cmd *cobra.Command, f *os.File) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return mode == "on" || (mode == "auto" && isTerminal(f))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func startProfiles(cmd *cobra.Command) (*prof.Session, error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = pf.GetString("cpuprofile"); err != nil {
		return nil, fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	if cfg.Mem, err = pf.GetString("memprofile"); err != nil {
		return nil, fmt.Errorf("failed to get memprofile flag: %w", err)
	}
	if cfg.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}
