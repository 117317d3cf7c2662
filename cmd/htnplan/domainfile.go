package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/htnplan/htnplan/internal/ground"
	"github.com/htnplan/htnplan/internal/perr"
)

// domainFile is the domain half of a JSON-serialized ground.Domain: the
// type hierarchy and lifted action schemata, everything a PDDL `:domain`
// block would carry.
type domainFile struct {
	Supertypes map[string]string     `json:"supertypes"`
	Actions    []ground.ActionSchema `json:"actions"`
}

// problemFile is the problem half: the object universe and the ground
// init/goal state, everything a PDDL `:problem` block would carry.
type problemFile struct {
	Objects map[string]string     `json:"objects"`
	Init    []ground.GroundAtom   `json:"init"`
	Goal    []ground.GroundAtom   `json:"goal"`
}

// loadDomain reads the JSON-serialized domain and problem files and merges
// them into one ground.Domain. The PDDL lexer/parser this tool ultimately
// sits behind is an external collaborator (spec.md §1 Non-goals); this
// pipeline's own CLI boundary accepts the already-parsed domain/problem
// pair the parser would hand it.
func loadDomain(domainPath, problemPath string) (ground.Domain, error) {
	var dom domainFile
	if err := readJSON(domainPath, &dom); err != nil {
		return ground.Domain{}, err
	}
	var prob problemFile
	if err := readJSON(problemPath, &prob); err != nil {
		return ground.Domain{}, err
	}
	return ground.Domain{
		Objects:    prob.Objects,
		Supertypes: dom.Supertypes,
		Actions:    dom.Actions,
		Init:       prob.Init,
		Goal:       prob.Goal,
	}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return perr.InputErr("cli", "readJSON", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return perr.InputErr("cli", "readJSON", fmt.Errorf("parsing %s: %w", path, err))
	}
	return nil
}

// discoverDomainFile implements spec.md §6.1's heuristic path search for a
// domain file sibling to problemPath, when the CLI was given only one
// positional argument: sibling "domain.pddl", "domain-<name>.pddl",
// "<name>-domain.pddl", or stems obtained by problem->domain, prob->dom,
// satprob->satdom|dom substitutions, each tried with problemPath's own
// extension in place of ".pddl" (no other extension is tried).
func discoverDomainFile(problemPath string) (string, error) {
	dir := filepath.Dir(problemPath)
	ext := filepath.Ext(problemPath)
	base := strings.TrimSuffix(filepath.Base(problemPath), ext)

	candidates := []string{"domain" + ext}
	for _, stem := range []string{"domain-" + base, base + "-domain"} {
		candidates = append(candidates, stem+ext)
	}
	for _, sub := range []struct{ from, to string }{
		{"problem", "domain"}, {"prob", "dom"}, {"satprob", "satdom"}, {"satprob", "dom"},
	} {
		if strings.Contains(base, sub.from) {
			candidates = append(candidates, strings.Replace(base, sub.from, sub.to, 1)+ext)
		}
	}

	for _, c := range candidates {
		full := filepath.Join(dir, c)
		if full == problemPath {
			continue
		}
		if _, err := os.Stat(full); err == nil {
			return full, nil
		}
	}
	return "", perr.InputErr("cli", "discoverDomainFile", fmt.Errorf("no sibling domain file found for %s", problemPath))
}
