package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htnplan/htnplan/internal/condeff"
	"github.com/htnplan/htnplan/internal/facts"
	"github.com/htnplan/htnplan/internal/fdr"
	"github.com/htnplan/htnplan/internal/ground"
	"github.com/htnplan/htnplan/internal/lmg"
	"github.com/htnplan/htnplan/internal/planio"
	"github.com/htnplan/htnplan/internal/prune"
)

// runGround wires passes A through F: load the domain/problem pair (A),
// infer lifted mutex groups (B), ground into a facts.Task guarded by those
// groups (C), run the pruning cascade (D), optionally compile conditional
// effects into plain add/delete operators (E), and allocate FDR variables
// (F). The FDR task goes to -o (stdout by default); --lmg-out writes one
// line per lifted group, and --mg-out/--mg-pre-out write ground mutex-group
// listings. This command writes no STRIPS or dict output.
func runGround(cmd *cobra.Command, args []string) error {
	problemPath := args[0]
	domainPath := ""
	if len(args) == 2 {
		domainPath = args[0]
		problemPath = args[1]
	} else {
		found, err := discoverDomainFile(problemPath)
		if err != nil {
			return err
		}
		domainPath = found
	}

	dom, err := loadDomain(domainPath, problemPath)
	if err != nil {
		return err
	}

	lmgCfg := lmg.DefaultConfig()
	if lmgMaxCandidates > 0 {
		lmgCfg.MaxCandidates = lmgMaxCandidates
	}
	if lmgMaxMGroups > 0 {
		lmgCfg.MaxMGroups = lmgMaxMGroups
	}
	lmgCfg.Monotonicity = lmgFD

	liftedDom := ground.ToLifted(dom)
	endLmg := pctx.Profiler.Pass("lmg")
	lmgResult := lmg.Infer(liftedDom, lmgCfg)
	endLmg()
	pctx.Logger.Info("mutex-group inference finished", "groups", len(lmgResult.Groups), "limit_hit", lmgResult.LimitHit)
	if lmgOutPath != "" {
		if err := writeLmgGroups(lmgOutPath, lmgResult.Groups); err != nil {
			return err
		}
	}

	groundOpts := ground.Options{
		PreconditionMutexPruning: !noGroundPrune && !noGroundPrunePre,
		DeadEndEffectPruning:     !noGroundPrune && !noGroundPruneDE,
		Groups:                   lmgResult.Groups,
	}

	endGround := pctx.Profiler.Pass("ground")
	task, groundGroups, err := ground.GroundWithGroups(dom, groundOpts)
	endGround()
	if err != nil {
		return err
	}
	pctx.Logger.Info("grounding finished", "facts", task.Store.NumFacts(), "operators", task.Store.NumOperators())

	if mgPreOutPath != "" {
		if err := writeMutexGroupsFile(mgPreOutPath, task, groundGroups); err != nil {
			return err
		}
	}

	pruneCfg := prune.Config{
		DeadEnd:       !noDeadEndOp,
		H2:            !noH2,
		Irrelevance:   !noIrrelevance,
		UselessDelete: true,
	}
	endPrune := pctx.Profiler.Pass("prune")
	pruneResult := prune.Run(task, groundGroups, pruneCfg)
	endPrune()
	pctx.Logger.Info("pruning finished", "removed_facts", pruneResult.RemovedFacts.Len(), "removed_ops", pruneResult.RemovedOps.Len())

	groundGroups = facts.RemapGroups(groundGroups, pruneResult.Remap)
	for i := range groundGroups {
		groundGroups[i].RecomputeExactlyOne(task.Init)
		groundGroups[i].RecomputeIsGoal(task.Goal)
	}

	if pctx.Options.CompileCondEff && task.HasCondEff {
		if err := condeff.Compile(task.Store); err != nil {
			return err
		}
		task.RecomputeHasCondEff()
		pctx.Logger.Info("conditional-effect compilation finished", "operators", task.Store.NumOperators())
	}

	if mgOutPath != "" {
		if err := writeMutexGroupsFile(mgOutPath, task, groundGroups); err != nil {
			return err
		}
	}

	policy := fdr.EssentialFirst
	switch {
	case fdrVarLargestMulti:
		policy = fdr.LargestFirstMulti
	case fdrVarLargest:
		policy = fdr.LargestFirst
	}
	proj := fdr.Allocate(task, groundGroups, policy)
	pctx.Logger.Info("FDR allocation finished", "variables", len(proj.Variables))

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}
	return planio.WriteFDR(out, task, groundGroups, proj)
}

func writeMutexGroupsFile(path string, task *facts.Task, groups []facts.MutexGroup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return planio.WriteMutexGroups(f, task, groups)
}

func writeLmgGroups(path string, groups []lmg.Group) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	for _, g := range groups {
		fmt.Fprintf(f, "fam=%t mono=%t atoms=%d\n", g.IsFamGroup, g.IsMonotone, len(g.Candidate.Atoms))
	}
	return nil
}
