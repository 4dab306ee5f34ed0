package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cxxscope/internal/config"
	"cxxscope/internal/trace"
)

// setupTracing reads the trace flags, falling back to the [trace] section
// of the project file, and attaches the tracer to the command context.
// It returns a cleanup function.
func setupTracing(cmd *cobra.Command, cfg config.Config, logger zerolog.Logger) (func(), error) {
	flags := cmd.Flags()

	traceOutput := cfg.Trace.Output
	levelStr := cfg.Trace.Level
	modeStr := cfg.Trace.Mode
	var err error
	if flags.Changed("trace") {
		if traceOutput, err = flags.GetString("trace"); err != nil {
			return nil, fmt.Errorf("failed to get trace flag: %w", err)
		}
	}
	if flags.Changed("trace-level") {
		if levelStr, err = flags.GetString("trace-level"); err != nil {
			return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
		}
	}
	if flags.Changed("trace-mode") {
		if modeStr, err = flags.GetString("trace-mode"); err != nil {
			return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
		}
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}

	// If level is off, skip tracing
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}

	tcfg := trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	}
	if mode == trace.ModeLog && traceOutput == "" {
		traceLogger := logger.Level(zerolog.DebugLevel)
		tcfg.Logger = &traceLogger
	}
	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	var heartbeat *trace.Heartbeat
	if heartbeatInterval > 0 {
		heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cleanup := func() {
		// Stop heartbeat first
		if heartbeat != nil {
			heartbeat.Stop()
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
