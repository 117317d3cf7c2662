package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htnplan/htnplan/internal/decompress"
	"github.com/htnplan/htnplan/internal/perr"
)

// runDecompress reads a plan in the decompressor's text format, expands its
// macro steps and compressed methods, and writes the fully expanded plan
// back out.
func runDecompress(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return perr.InputErr("cli", "runDecompress", err)
	}

	plan, err := decompress.Parse(string(text))
	if err != nil {
		return err
	}

	endDecompress := pctx.Profiler.Pass("decompress")
	expanded, err := decompress.Run(plan)
	endDecompress()
	if err != nil {
		return err
	}
	pctx.Logger.Info("decompression finished", "tasks", len(expanded.Tasks), "primitives", len(expanded.PrimitiveOrder))

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	_, err = fmt.Fprint(out, expanded.String())
	return err
}
