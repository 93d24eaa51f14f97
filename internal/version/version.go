package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the aliasc CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info — снимок версии для JSON вывода.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func Current() Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		GitMessage: GitMessage,
		BuildDate:  BuildDate,
	}
}

// Colored раскрашивает major.minor.patch; суффикс (-dev, +build) остаётся как есть.
// Строки не в формате semver возвращаются без изменений.
func Colored(v string) string {
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	return versionMajorColor.Sprint(parts[0]) + "." +
		versionMinorColor.Sprint(parts[1]) + "." +
		versionPatchColor.Sprint(parts[2]) + suffix
}

// Pretty renders "aliasc <version>" and, with full, the build metadata lines.
func (i Info) Pretty(full bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "aliasc %s\n", Colored(i.Version))
	if !full {
		return b.String()
	}
	if i.GitCommit != "" {
		fmt.Fprintf(&b, "commit: %s\n", i.GitCommit)
	}
	if i.GitMessage != "" {
		fmt.Fprintf(&b, "message: %s\n", i.GitMessage)
	}
	if i.BuildDate != "" {
		fmt.Fprintf(&b, "built: %s\n", i.BuildDate)
	}
	return b.String()
}
