package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htnplan/htnplan/internal/planio"
	"github.com/htnplan/htnplan/internal/rcmodel"
)

// runRCModel loads a serialized HTN model and projects it into the
// relaxed-composition classical task, writing the result as STRIPS text.
func runRCModel(cmd *cobra.Command, args []string) error {
	model, err := loadHTNModel(args[0])
	if err != nil {
		return err
	}

	enableTDR, _ := cmd.Flags().GetBool("tdr")
	methodCost, _ := cmd.Flags().GetInt("method-cost")

	endBuild := pctx.Profiler.Pass("rc-model")
	result, err := rcmodel.Build(model, rcmodel.Options{EnableTDR: enableTDR, MethodCost: methodCost})
	endBuild()
	if err != nil {
		return err
	}
	pctx.Logger.Info("rc-model build finished", "facts", result.Task.Store.NumFacts(), "operators", result.Task.Store.NumOperators())

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	return planio.WriteSTRIPS(out, result.Task, planio.StripsFlags{ADL: pctx.Options.ADL})
}
