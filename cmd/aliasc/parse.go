package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aliasc/internal/diagfmt"
	"aliasc/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.al|directory>",
		Short: "Parse an alias source file or directory and print the module",
		Long:  `Parse analyzes an alias source file or all *.al files in a directory and prints their syntax trees`,
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|tree)")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	addFrontendFlags(cmd)
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "tree":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	out, err := readOutputFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := pipelineOptions(cmd, out, nil)
	if err != nil {
		return err
	}

	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return runParseDir(cmd, path, format, out, opts)
	}

	result, err := driver.Parse(cmd.Context(), path, opts)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := reportDiagnostics(cmd, result.Bag, result.FileSet, out); err != nil {
		return err
	}
	printTimings(cmd, "", result.Timer, out)
	if result.Module == nil {
		return errFailed
	}

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		return diagfmt.FormatModuleJSON(w, result.Builder, result.Module)
	case "tree":
		return diagfmt.FormatModuleTree(w, result.Builder, result.Module, result.FileSet, result.FileID)
	default:
		return diagfmt.FormatModulePretty(w, result.Builder, result.Module)
	}
}

func runParseDir(cmd *cobra.Command, dir, format string, out outputFlags, opts driver.Options) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	fs, results, err := driver.ParseDir(cmd.Context(), dir, opts, jobs)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := reportDiagnostics(cmd, driver.MergeBags(results, out.maxDiagnostics), fs, out); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	failed := false
	if format == "json" {
		output := make(map[string]diagfmt.ASTNodeOutput, len(results))
		for _, r := range results {
			if r.BuildResult == nil || r.Module == nil {
				failed = true
				continue
			}
			output[r.File.FormatPath("auto", fs.BaseDir())] = diagfmt.BuildModuleOutput(r.Builder, r.Module)
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return err
		}
	} else {
		for idx, r := range results {
			if r.BuildResult == nil || r.Module == nil {
				failed = true
				continue
			}
			if !out.quiet {
				fmt.Fprintf(w, "== %s ==\n", r.File.FormatPath("auto", fs.BaseDir()))
			}
			if format == "tree" {
				err = diagfmt.FormatModuleTree(w, r.Builder, r.Module, fs, r.FileID)
			} else {
				err = diagfmt.FormatModulePretty(w, r.Builder, r.Module)
			}
			if err != nil {
				return err
			}
			if !out.quiet && idx < len(results)-1 {
				fmt.Fprintln(w)
			}
		}
	}
	for _, r := range results {
		if r.BuildResult != nil {
			printTimings(cmd, r.Path, r.Timer, out)
		}
	}
	if failed {
		return errFailed
	}
	return nil
}
