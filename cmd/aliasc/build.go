package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"aliasc/internal/driver"
	"aliasc/internal/project"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [file.al|directory]",
		Short: "Compile alias sources to LLVM IR",
		Long: `Build compiles an alias source file, or every *.al file of a directory, to textual LLVM IR.
Without a path the main entry of aliasc.toml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
	cmd.Flags().StringP("output", "o", "", "output file for a single source (- for stdout) or directory for a directory build")
	cmd.Flags().String("target", "", "target triple written into the module")
	cmd.Flags().Uint16("addrspace", 0, "address space of emitted globals")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI for directory builds (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse results from the on-disk build cache")
	addFrontendFlags(cmd)
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	out, err := readOutputFlags(cmd)
	if err != nil {
		return err
	}

	var manifest *project.Manifest
	var inputPath string
	if len(args) == 1 {
		inputPath = args[0]
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return wdErr
		}
		m, ok, loadErr := project.LoadFrom(wd)
		if loadErr != nil {
			return loadErr
		}
		if !ok {
			return errors.New(project.NoManifestMessage)
		}
		if inputPath, err = m.MainPath(); err != nil {
			return err
		}
		manifest = m
	}

	opts, err := pipelineOptions(cmd, out, manifest)
	if err != nil {
		return err
	}
	if opts.AddressSpace, err = cmd.Flags().GetUint16("addrspace"); err != nil {
		return fmt.Errorf("failed to get addrspace flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache {
		if opts.Cache, err = driver.OpenDiskCache("aliasc"); err != nil {
			return fmt.Errorf("failed to open build cache: %w", err)
		}
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	if output == "" && manifest != nil {
		output = manifest.OutPath()
	}

	st, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if st.IsDir() {
		return runBuildDir(cmd, inputPath, output, out, opts)
	}

	if manifest != nil {
		opts.ModuleName = manifest.Config.Package.Name
	}
	result, err := driver.Build(cmd.Context(), inputPath, opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := reportDiagnostics(cmd, result.Bag, result.FileSet, out); err != nil {
		return err
	}
	printTimings(cmd, "", result.Timer, out)
	if result.Bag.HasErrors() {
		return errFailed
	}

	if output == "-" {
		_, err = io.WriteString(cmd.OutOrStdout(), result.IR)
		return err
	}
	target := output
	if target == "" {
		target = outputFileName(result.Module.Name)
	}
	if err := writeIR(target, result.IR); err != nil {
		return err
	}
	if !out.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s\n", target, cachedSuffix(result.Cached))
	}
	return nil
}

func runBuildDir(cmd *cobra.Command, dir, outDir string, out outputFlags, opts driver.Options) error {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	if outDir == "-" {
		return errors.New("directory builds need an output directory, not stdout")
	}

	var results []driver.DirResult
	var fsErr error
	if shouldUseTUI(mode) && !out.quiet {
		results, fsErr = runBuildDirWithUI(cmd, dir, opts, jobs, out)
	} else {
		results, fsErr = runBuildDirPlain(cmd, dir, opts, jobs, out)
	}
	if fsErr != nil {
		return fsErr
	}

	failed := false
	for _, r := range results {
		if r.Failed() || r.BuildResult == nil {
			failed = true
			continue
		}
		target := dirOutputPath(dir, outDir, r.Path, r.Module.Name)
		if err := writeIR(target, r.IR); err != nil {
			return err
		}
		if !out.quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s%s\n", target, cachedSuffix(r.Cached))
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

func runBuildDirPlain(cmd *cobra.Command, dir string, opts driver.Options, jobs int, out outputFlags) ([]driver.DirResult, error) {
	fs, results, err := driver.BuildDir(cmd.Context(), dir, opts, jobs)
	if err != nil {
		return nil, fmt.Errorf("build failed: %w", err)
	}
	if err := reportDiagnostics(cmd, driver.MergeBags(results, out.maxDiagnostics), fs, out); err != nil {
		return nil, err
	}
	return results, nil
}

func outputFileName(moduleName string) string {
	return moduleName + ".ll"
}

// dirOutputPath повторяет под outDir структуру подкаталогов dir,
// иначе a/x.al и b/x.al записали бы один и тот же x.ll.
func dirOutputPath(dir, outDir, srcPath, moduleName string) string {
	rel, err := filepath.Rel(dir, filepath.Dir(srcPath))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		rel = ""
	}
	return filepath.Join(outDir, rel, outputFileName(moduleName))
}

func writeIR(path, ir string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	// #nosec G306 -- generated IR is not sensitive
	if err := os.WriteFile(path, []byte(ir), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func cachedSuffix(cached bool) string {
	if cached {
		return " (cached)"
	}
	return ""
}
