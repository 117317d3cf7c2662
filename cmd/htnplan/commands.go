package main

import (
	"github.com/spf13/cobra"

	"github.com/htnplan/htnplan/internal/pipeline"
	"github.com/htnplan/htnplan/internal/xlog"
)

// --- Global Command Variables ---
var (
	quiet       bool
	adl         bool
	noADL       bool
	compileCE   bool
	condEffPDDL bool
	configPath  string
	logDir      string

	// ground-specific flags
	lmgMaxCandidates int
	lmgMaxMGroups    int
	lmgFD            bool
	noGroundPrune    bool
	noGroundPrunePre bool
	noGroundPruneDE  bool
	h2fw             bool
	noDeadEndOp      bool
	noH2             bool
	noIrrelevance    bool
	fdrVarLargest    bool
	fdrVarLargestMulti bool
	outPath          string
	lmgOutPath       string
	mgOutPath        string
	mgPreOutPath     string

	pctx *pipeline.Context

	rootCmd = &cobra.Command{
		Use:   "htnplan",
		Short: "A grounder, pruner, and FDR translator for classical and HTN planning tasks",
		Long: `htnplan grounds a lifted STRIPS/HTN domain into a finite-domain
planning task, running mutex-group inference, a pruning cascade, conditional-
effect compilation, and finite-domain variable allocation in one pipeline.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadConfig(configPath)
			pipelineOpts := pipeline.DefaultOptions()
			pipelineOpts.ADL = adl && !noADL
			pipelineOpts.CompileCondEff = compileCE
			pipelineOpts.CondEffPDDL = condEffPDDL
			logger := xlog.New(xlog.Config{LogDir: logDir, Pass: cmd.Name(), Quiet: quiet})
			pctx = pipeline.New(pipelineOpts, logger)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pctx != nil {
				_ = pctx.Logger.Close()
			}
		},
	}

	groundCmd = &cobra.Command{
		Use:   "ground [domain] problem",
		Short: "Ground a lifted domain/problem pair into an FDR planning task",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runGround,
	}

	rcModelCmd = &cobra.Command{
		Use:   "rc-model htn.json",
		Short: "Build the relaxed-composition classical projection of an HTN model",
		Args:  cobra.ExactArgs(1),
		RunE:  runRCModel,
	}

	decompressCmd = &cobra.Command{
		Use:   "decompress plan.txt",
		Short: "Expand macro steps and compressed methods in a plan",
		Args:  cobra.ExactArgs(1),
		RunE:  runDecompress,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify plan.txt ground.json",
		Short: "Replay a plan against a ground task and report the first violation",
		Args:  cobra.ExactArgs(2),
		RunE:  runVerify,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress info/warn logging; errors still print")
	rootCmd.PersistentFlags().BoolVarP(&adl, "adl", "a", true, "Set the adl flag reported in rc-model STRIPS output")
	rootCmd.PersistentFlags().BoolVar(&noADL, "no-adl", false, "Clear the adl flag (overrides --adl); conditional effects are not rejected")
	rootCmd.PersistentFlags().BoolVar(&compileCE, "ce", false, "Compile conditional effects into plain add/delete operators")
	rootCmd.PersistentFlags().BoolVar(&condEffPDDL, "ce-pddl", false, "Has no effect; only --ce compiles conditional effects")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Optional YAML file of default flag values")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for a JSON log file in addition to stderr")

	rootCmd.AddCommand(groundCmd)
	groundCmd.Flags().IntVar(&lmgMaxCandidates, "lmg-max-candidates", 0, "Candidate ceiling for mutex-group inference (0 = pipeline default)")
	groundCmd.Flags().IntVar(&lmgMaxMGroups, "lmg-max-mgroups", 0, "Surviving-group ceiling for mutex-group inference (0 = pipeline default)")
	groundCmd.Flags().BoolVar(&lmgFD, "lmg-fd", false, "Run the monotonicity criterion instead of fam-group")
	groundCmd.Flags().BoolVar(&noGroundPrune, "no-ground-prune", false, "Disable both grounder-level prunings")
	groundCmd.Flags().BoolVar(&noGroundPrunePre, "no-ground-prune-pre", false, "Disable precondition-mutex pruning only")
	groundCmd.Flags().BoolVar(&noGroundPruneDE, "no-ground-prune-dead-end", false, "Disable dead-end-effect pruning only")
	groundCmd.Flags().BoolVar(&h2fw, "h2fw", false, "Has no effect; the h2 pass always propagates forward and backward")
	groundCmd.Flags().BoolVar(&noDeadEndOp, "no-dead-end-op", false, "Disable dead-end operator detection in the pruning cascade")
	groundCmd.Flags().BoolVar(&noH2, "no-h2", false, "Disable h2 mutex-pair reachability in the pruning cascade")
	groundCmd.Flags().BoolVar(&noIrrelevance, "no-irrelevance", false, "Disable irrelevance analysis in the pruning cascade")
	groundCmd.Flags().BoolVar(&fdrVarLargest, "fdr-var-largest", false, "Allocate FDR variables largest-group-first instead of essential-first")
	groundCmd.Flags().BoolVar(&fdrVarLargestMulti, "fdr-var-largest-multi", false, "Largest-group-first without the one-variable-per-fact constraint")
	groundCmd.Flags().StringVarP(&outPath, "output", "o", "", "FDR output path (default: stdout)")
	groundCmd.Flags().StringVar(&lmgOutPath, "lmg-out", "", "Write the lifted mutex-group inference result here")
	groundCmd.Flags().StringVar(&mgOutPath, "mg-out", "", "Write ground mutex groups here")
	groundCmd.Flags().StringVar(&mgPreOutPath, "mg-pre-out", "", "Write pre-pruning ground mutex groups here")

	rootCmd.AddCommand(rcModelCmd)
	rcModelCmd.Flags().StringVarP(&outPath, "output", "o", "", "Classical model output path (default: stdout)")
	rcModelCmd.Flags().Bool("tdr", true, "Enable the top-down-reachable marker layer")
	rcModelCmd.Flags().Int("method-cost", 0, "Cost assigned to every method-application operator")

	rootCmd.AddCommand(decompressCmd)
	decompressCmd.Flags().StringVarP(&outPath, "output", "o", "", "Decompressed plan output path (default: stdout)")

	rootCmd.AddCommand(verifyCmd)
}
