package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/lunatic-rt/lunatic-go/internal/apperr"
	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wasm>",
	Short: "Print a module's exported functions without running it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	blob, err := os.ReadFile(args[0])
	if err != nil {
		return apperr.NewUsageError("", fmt.Sprintf("read %s: %v", args[0], err))
	}

	runtime := wazero.NewRuntime(ctx)
	defer func() { _ = runtime.Close(ctx) }()

	compiled, err := runtime.CompileModule(ctx, blob)
	if err != nil {
		return apperr.NewUsageError("", fmt.Sprintf("%s is not a valid Wasm module: %v", args[0], err))
	}
	defer func() { _ = compiled.Close(ctx) }()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "module: %s\n", args[0])

	names := make([]string, 0, len(compiled.ExportedFunctions()))
	for name := range compiled.ExportedFunctions() {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "exported functions (%d):\n", len(names))
	for _, name := range names {
		fn := compiled.ExportedFunctions()[name]
		fmt.Fprintf(out, "  %s%s -> %s\n", name, signature(fn.ParamTypes()), signature(fn.ResultTypes()))
	}

	mem := compiled.ExportedMemories()
	if len(mem) > 0 {
		fmt.Fprintf(out, "exported memories: %d\n", len(mem))
	}

	return nil
}

func signature(types []api.ValueType) string {
	s := "("
	for i, t := range types {
		if i > 0 {
			s += ", "
		}
		s += api.ValueTypeName(t)
	}
	return s + ")"
}
