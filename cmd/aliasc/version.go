package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"aliasc/internal/version"
)

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show aliasc version and build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Current()
			switch strings.ToLower(format) {
			case "pretty":
				_, err := io.WriteString(cmd.OutOrStdout(), info.Pretty(full))
				return err
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), info, full)
			default:
				return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "show every recorded bit of build metadata")
	return cmd
}

func renderVersionJSON(out io.Writer, info version.Info, full bool) error {
	if !full {
		info = version.Info{Version: info.Version}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(versionPayload{Tool: "aliasc", Info: info})
}
