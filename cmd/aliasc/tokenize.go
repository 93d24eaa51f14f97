package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"aliasc/internal/diagfmt"
	"aliasc/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.al",
		Short: "Tokenize an alias source file",
		Long:  `Tokenize breaks an alias source file into tokens and prints them with their ranges`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	addFrontendFlags(cmd)
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
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

	result, err := driver.Tokenize(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	if err := reportDiagnostics(cmd, result.Bag, result.FileSet, out); err != nil {
		return err
	}
	printTimings(cmd, "", result.Timer, out)
	if result.Bag.HasErrors() {
		return errFailed
	}

	w := cmd.OutOrStdout()
	if format == "json" {
		return diagfmt.FormatTokensJSON(w, result.Tokens)
	}
	return diagfmt.FormatTokensPretty(w, result.Tokens)
}
