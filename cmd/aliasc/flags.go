package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aliasc/internal/diag"
	"aliasc/internal/diagfmt"
	"aliasc/internal/driver"
	"aliasc/internal/lexer"
	"aliasc/internal/observ"
	"aliasc/internal/project"
	"aliasc/internal/source"
)

// outputFlags — общие для всех команд настройки вывода.
type outputFlags struct {
	maxDiagnostics int
	quiet          bool
	timings        bool
	diagFormat     string
	pathMode       diagfmt.PathMode
	color          bool
}

func readOutputFlags(cmd *cobra.Command) (outputFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var out outputFlags
	var err error
	if out.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return out, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if out.quiet, err = pf.GetBool("quiet"); err != nil {
		return out, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if out.timings, err = pf.GetBool("timings"); err != nil {
		return out, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if out.diagFormat, err = pf.GetString("diag-format"); err != nil {
		return out, fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	if out.diagFormat != "pretty" && out.diagFormat != "json" {
		return out, fmt.Errorf("unknown diagnostics format: %s", out.diagFormat)
	}
	pathMode, err := pf.GetString("path-mode")
	if err != nil {
		return out, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if out.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return out, err
	}
	out.color = useColor(cmd, os.Stderr)
	return out, nil
}

// addFrontendFlags регистрирует флаги грамматики и колонок.
func addFrontendFlags(cmd *cobra.Command) {
	cmd.Flags().String("grammar", "core", "accepted grammar (core|alias)")
	cmd.Flags().String("columns", "reset", "column counting across newlines (reset|monotonic)")
}

// pipelineOptions собирает driver.Options из флагов; явный флаг сильнее манифеста.
func pipelineOptions(cmd *cobra.Command, out outputFlags, manifest *project.Manifest) (driver.Options, error) {
	opts := driver.Options{MaxDiagnostics: out.maxDiagnostics}

	grammar := flagOrManifest(cmd, "grammar", manifest, func(b project.BuildConfig) string { return b.Grammar })
	g, err := lexer.ParseGrammar(grammar)
	if err != nil {
		return opts, err
	}
	opts.Grammar = g

	columns := flagOrManifest(cmd, "columns", manifest, func(b project.BuildConfig) string { return b.Columns })
	c, err := source.ParseColumnMode(columns)
	if err != nil {
		return opts, err
	}
	opts.Columns = c

	if cmd.Flags().Lookup("target") != nil {
		opts.TargetTriple = flagOrManifest(cmd, "target", manifest, func(b project.BuildConfig) string { return b.Target })
	}
	return opts, nil
}

func flagOrManifest(cmd *cobra.Command, name string, manifest *project.Manifest, pick func(project.BuildConfig) string) string {
	value, _ := cmd.Flags().GetString(name)
	if manifest != nil && !cmd.Flags().Changed(name) {
		if v := pick(manifest.Config.Build); v != "" {
			return v
		}
	}
	return value
}

// reportDiagnostics печатает диагностики в stderr в выбранном формате.
func reportDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, out outputFlags) error {
	if bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	w := cmd.ErrOrStderr()
	if out.diagFormat == "json" {
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         out.pathMode,
			IncludeNotes:     true,
		})
	}
	diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
		Color:     out.color,
		Context:   2,
		PathMode:  out.pathMode,
		ShowNotes: true,
	})
	return nil
}

func printTimings(cmd *cobra.Command, label string, timer *observ.Timer, out outputFlags) {
	if !out.timings || timer == nil {
		return
	}
	w := cmd.ErrOrStderr()
	if label != "" {
		fmt.Fprintf(w, "== %s ==\n", label)
	}
	fmt.Fprint(w, timer.Summary())
}
