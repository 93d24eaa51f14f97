package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"aliasc/internal/trace"
)

// setupTracing inspects trace-related flags and initializes the tracer.
// The returned cleanup gets whether the command failed: a ring kept next to
// a stream is dumped to stderr only then.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	flags := cmd.Root().PersistentFlags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	logJSON, err := flags.GetBool("log-json")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-json flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func(bool) {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	var handlers []slog.Handler
	if logJSON {
		mode = trace.ModeLog
		format = trace.FormatNDJSON
		// JSON уходит в файл трассы, провалы фаз дублируются текстом в stderr
		if !isStderrPath(traceOutput) {
			handlers = append(handlers, slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		}
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Handlers:   handlers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	cleanup := func(failed bool) {
		if ring := trace.FindRing(tracer); ring != nil {
			var err error
			switch {
			case mode == trace.ModeRing:
				err = dumpRing(ring, traceOutput)
			case failed && !isStderrPath(traceOutput):
				// поток уже в файле; в stderr — последние события перед ошибкой
				fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before failure:")
				err = ring.Dump(cmd.ErrOrStderr(), trace.FormatText)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}

func isStderrPath(path string) bool {
	return path == "" || path == "-"
}

func dumpRing(ring *trace.RingTracer, path string) error {
	if isStderrPath(path) {
		return ring.Dump(os.Stderr, trace.FormatText)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	format := trace.FormatText
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".json") {
		format = trace.FormatNDJSON
	}
	if err := ring.Dump(f, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
