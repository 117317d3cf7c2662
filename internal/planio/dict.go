package planio

import (
	"io"

	"github.com/htnplan/htnplan/internal/facts"
	"gopkg.in/yaml.v3"
)

// CondEffectRecord is one conditional effect in dict form.
type CondEffectRecord struct {
	Pre []string `yaml:"pre"`
	Add []string `yaml:"add"`
	Del []string `yaml:"del"`
}

// OperatorRecord is one ground operator in dict form.
type OperatorRecord struct {
	Name        string             `yaml:"name"`
	Cost        int                `yaml:"cost"`
	Pre         []string           `yaml:"pre"`
	Add         []string           `yaml:"add"`
	Del         []string           `yaml:"del"`
	CondEffects []CondEffectRecord `yaml:"cond_effects,omitempty"`
}

// DictRecord is the dictionary-style record spec.md §6.2 describes,
// suitable for a dynamically-typed consumer: domain/problem file names,
// fact name strings, operator records, init, goal, and flags.
type DictRecord struct {
	DomainFile  string           `yaml:"domain_file"`
	ProblemFile string           `yaml:"problem_file"`
	Facts       []string         `yaml:"facts"`
	Operators   []OperatorRecord `yaml:"operators"`
	Init        []string         `yaml:"init"`
	Goal        []string         `yaml:"goal"`
	Flags       StripsFlags      `yaml:"flags"`
}

// BuildDictRecord translates task into a DictRecord, resolving every fact id
// to its interned name.
func BuildDictRecord(task *facts.Task, domainFile, problemFile string, flags StripsFlags) DictRecord {
	rec := DictRecord{
		DomainFile:  domainFile,
		ProblemFile: problemFile,
		Flags:       flags,
	}
	for _, f := range task.Store.Facts() {
		rec.Facts = append(rec.Facts, f.Name)
	}
	for _, op := range task.Store.Operators() {
		rec.Operators = append(rec.Operators, operatorRecord(task, op))
	}
	rec.Init = namesOf(task, task.Init.Slice())
	rec.Goal = namesOf(task, task.Goal.Slice())
	return rec
}

func operatorRecord(task *facts.Task, op *facts.Operator) OperatorRecord {
	rec := OperatorRecord{
		Name: op.Name,
		Cost: op.Cost,
		Pre:  namesOf(task, op.Pre.Slice()),
		Add:  namesOf(task, op.Add.Slice()),
		Del:  namesOf(task, op.Del.Slice()),
	}
	for _, ce := range op.CondEffects {
		rec.CondEffects = append(rec.CondEffects, CondEffectRecord{
			Pre: namesOf(task, ce.Pre.Slice()),
			Add: namesOf(task, ce.Add.Slice()),
			Del: namesOf(task, ce.Del.Slice()),
		})
	}
	return rec
}

func namesOf(task *facts.Task, ids []int) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = task.Store.Fact(id).Name
	}
	return names
}

// WriteDict writes task as a DictRecord in YAML.
func WriteDict(w io.Writer, task *facts.Task, domainFile, problemFile string, flags StripsFlags) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(BuildDictRecord(task, domainFile, problemFile, flags))
}
