// Package decompress implements the plan-text parser/writer and the
// fixed-point decompression algorithm of spec §4.7: it inverts the
// grounding-time encoding tricks (compressed macro-actions, compressed
// methods, artificial primitives/methods) so a search-emitted plan reflects
// the original user task hierarchy.
package decompress

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/htnplan/htnplan/internal/perr"
)

// Task is one node of a decompressed-plan task tree: an instantiated step
// (Name, Args) plus, when non-primitive, the method applied to decompose it
// and its ordered subtask ids. A Task with an empty Method is primitive.
type Task struct {
	ID       int
	Name     string
	Args     []string
	Method   string
	Subtasks []int
}

// IsPrimitive reports whether t has no method applied.
func (t *Task) IsPrimitive() bool { return t.Method == "" }

// Plan is the in-memory form of the §6.3 text format: every task node, the
// linear primitive execution sequence, and the root task ids.
type Plan struct {
	Tasks          map[int]*Task
	PrimitiveOrder []int
	Roots          []int

	nextID int
}

// newID returns a fresh task id, seeded from the highest id currently in
// use so deletes never cause a collision (spec §4.7 Design Notes: the
// "next free id" counter must be monotonic, not a live task count).
func (p *Plan) newID() int {
	id := p.nextID
	p.nextID++
	return id
}

func seedNextID(p *Plan) {
	max := -1
	for id := range p.Tasks {
		if id > max {
			max = id
		}
	}
	p.nextID = max + 1
}

// Parse reads the §6.3 plan text format.
func Parse(text string) (*Plan, error) {
	lines := strings.Split(text, "\n")
	plan := &Plan{Tasks: map[int]*Task{}}

	phase := "header"
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case line == "==>":
			phase = "primitives"
			continue
		case line == "<==":
			phase = "done"
			continue
		case strings.HasPrefix(line, "root"):
			roots, err := parseRootLine(line)
			if err != nil {
				return nil, err
			}
			plan.Roots = roots
			phase = "methods"
			continue
		}

		switch phase {
		case "primitives":
			t, err := parsePrimitiveLine(line)
			if err != nil {
				return nil, err
			}
			plan.Tasks[t.ID] = t
			plan.PrimitiveOrder = append(plan.PrimitiveOrder, t.ID)
		case "methods":
			t, err := parseMethodLine(line)
			if err != nil {
				return nil, err
			}
			plan.Tasks[t.ID] = t
		default:
			return nil, perr.InputErr("decompress", "Parse", fmt.Errorf("unexpected line before plan header: %q", line))
		}
	}

	seedNextID(plan)
	return plan, nil
}

func parseRootLine(line string) ([]int, error) {
	fields := strings.Fields(line)
	var roots []int
	for _, f := range fields[1:] {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, perr.InputErr("decompress", "parseRootLine", fmt.Errorf("bad root id %q: %w", f, err))
		}
		roots = append(roots, id)
	}
	return roots, nil
}

func parsePrimitiveLine(line string) (*Task, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, perr.InputErr("decompress", "parsePrimitiveLine", fmt.Errorf("malformed primitive step line %q", line))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, perr.InputErr("decompress", "parsePrimitiveLine", fmt.Errorf("bad task id %q: %w", fields[0], err))
	}
	name, args, _ := parseNameAndArgs(fields[1:])
	return &Task{ID: id, Name: name, Args: args}, nil
}

func parseMethodLine(line string) (*Task, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, perr.InputErr("decompress", "parseMethodLine", fmt.Errorf("malformed method-application line %q", line))
	}
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, perr.InputErr("decompress", "parseMethodLine", fmt.Errorf("bad task id %q: %w", fields[0], err))
	}
	name, args, consumed := parseNameAndArgs(fields[1:])
	rest := fields[1+consumed:]
	if len(rest) == 0 || rest[0] != "->" {
		return nil, perr.InputErr("decompress", "parseMethodLine", fmt.Errorf("expected '->' in method-application line %q", line))
	}
	rest = rest[1:]
	if len(rest) == 0 {
		return nil, perr.InputErr("decompress", "parseMethodLine", fmt.Errorf("missing method name in line %q", line))
	}
	method := rest[0]
	var subtasks []int
	for _, f := range rest[1:] {
		sid, err := strconv.Atoi(f)
		if err != nil {
			return nil, perr.InputErr("decompress", "parseMethodLine", fmt.Errorf("bad subtask id %q: %w", f, err))
		}
		subtasks = append(subtasks, sid)
	}
	return &Task{ID: id, Name: name, Args: args, Method: method, Subtasks: subtasks}, nil
}

// parseNameAndArgs reads a step name and its arguments from fields, either
// in the compact "name(a,b,c)" form (a single field) or the bare
// "name a b c" form (consuming fields up to the next "->" marker or end of
// slice). It returns the number of input fields consumed.
func parseNameAndArgs(fields []string) (name string, args []string, consumed int) {
	first := fields[0]
	if idx := strings.Index(first, "("); idx >= 0 && strings.HasSuffix(first, ")") {
		name = first[:idx]
		inner := first[idx+1 : len(first)-1]
		if inner != "" {
			args = strings.Split(inner, ",")
		}
		return name, args, 1
	}
	name = first
	i := 1
	for i < len(fields) && fields[i] != "->" {
		args = append(args, fields[i])
		i++
	}
	return name, args, i
}

// String renders plan in the canonical §6.3 text format (args always in
// the compact paren form).
func (p *Plan) String() string {
	var b strings.Builder
	b.WriteString("==>\n")
	for _, id := range p.PrimitiveOrder {
		t := p.Tasks[id]
		fmt.Fprintf(&b, "%d %s\n", id, formatStep(t))
	}
	b.WriteString("root")
	for _, r := range p.Roots {
		fmt.Fprintf(&b, " %d", r)
	}
	b.WriteString("\n")
	for _, id := range sortedNonPrimitiveIDs(p) {
		t := p.Tasks[id]
		fmt.Fprintf(&b, "%d %s -> %s", id, formatStep(t), t.Method)
		for _, st := range t.Subtasks {
			fmt.Fprintf(&b, " %d", st)
		}
		b.WriteString("\n")
	}
	b.WriteString("<==\n")
	return b.String()
}

func formatStep(t *Task) string {
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(t.Args, ","))
}

func sortedNonPrimitiveIDs(p *Plan) []int {
	var ids []int
	for id, t := range p.Tasks {
		if !t.IsPrimitive() {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
