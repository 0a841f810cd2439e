package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lunatic-rt/lunatic-go/internal/apperr"
	"github.com/lunatic-rt/lunatic-go/internal/process"
	"github.com/lunatic-rt/lunatic-go/internal/trap"
	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"
)

var (
	runEntry     string
	runMaxMemory uint64
	runMaxFuel   uint64
	runAllow     []string
	runPlugins   []string
)

var runCmd = &cobra.Command{
	Use:   "run <file.wasm>",
	Short: "Spawn a Wasm module as a process and run it to completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runEntry, "entry", "_start", "exported function to invoke as the process entry point")
	runCmd.Flags().Uint64Var(&runMaxMemory, "max-memory", 256*1024*1024, "memory cap in bytes (0 = engine default)")
	runCmd.Flags().Uint64Var(&runMaxFuel, "max-fuel", 0, "fuel cap in gallons, 1 gallon ~= 10,000 instructions (0 = unlimited)")
	runCmd.Flags().StringArrayVar(&runAllow, "allow", nil, "permitted host-call namespace prefix (repeatable; empty = permit all)")
	runCmd.Flags().StringArrayVar(&runPlugins, "plugin", nil, "plugin Wasm file applied to the module before compilation (repeatable)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	moduleBytes, err := os.ReadFile(args[0])
	if err != nil {
		return apperr.NewUsageError("", fmt.Sprintf("read %s: %v", args[0], err))
	}

	cfg := process.NewConfig(runMaxMemory, runMaxFuel)
	for _, prefix := range runAllow {
		cfg.AllowNamespace(prefix)
	}

	if err := attachPlugins(ctx, cfg, runPlugins); err != nil {
		return err
	}

	env, err := process.NewEnvironment(ctx, cfg.Snapshot())
	if err != nil {
		return apperr.NewRuntimeError("create environment", err)
	}
	defer func() { _ = env.Release(ctx) }()

	mod, err := env.CreateModule(ctx, moduleBytes)
	if err != nil {
		return apperr.NewRuntimeError("compile module", err)
	}
	defer func() { _ = mod.Close(ctx) }()

	scheduler := process.NewScheduler(ctx, 0)
	_, done, err := scheduler.SpawnRoot(ctx, mod, runEntry, nil)
	if err != nil {
		var recoverable *trap.Recoverable
		if errors.As(err, &recoverable) {
			return apperr.NewUsageError("entry", fmt.Sprintf("%q: %v", runEntry, recoverable))
		}
		return apperr.NewRuntimeError("spawn", err)
	}

	reason := <-done
	slog.Info("process exited", "reason", reason)
	if reason != trap.ExitNormal {
		cmd.SilenceUsage = true
		return fmt.Errorf("process exited abnormally: %s", reason)
	}
	return nil
}

// attachPlugins reads and validates each plugin file before attaching it to
// cfg, using a throwaway wazero runtime: plugins are validated once here,
// independent of the Environment they'll later run inside (§4.C).
func attachPlugins(ctx context.Context, cfg *process.Config, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	validator := wazero.NewRuntime(ctx)
	defer func() { _ = validator.Close(ctx) }()
	applier := process.NewPluginApplier(validator)

	for _, path := range paths {
		blob, err := os.ReadFile(path)
		if err != nil {
			return apperr.NewUsageError("plugin", fmt.Sprintf("read %s: %v", path, err))
		}
		validate := func(b []byte) error { return applier.Validate(ctx, b) }
		if err := cfg.AddPlugin(blob, validate); err != nil {
			return apperr.NewUsageError("plugin", fmt.Sprintf("%s: %v", path, err))
		}
	}
	return nil
}
