package decompress

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/htnplan/htnplan/internal/perr"
)

// Run executes the fixed-point decompression algorithm of spec §4.7 over
// plan, mutating it in place, and returns it once no compiler-introduced
// marker remains. The step order (urgent-method removal, macro expansion,
// compressed-method expansion, plain-method compression, plain-task
// compression, pipe-suffix strip) is normative: deviating from it can
// expose a "_"-prefixed method's own children before its macros collapse.
func Run(plan *Plan) (*Plan, error) {
	for {
		// contained is rebuilt before each individual structural edit
		// below (not just once per iteration): a batch can contain a
		// marked task nested inside another marked task, and removing
		// the outer one changes the inner one's parent before its own
		// turn comes up.
		if urgent := tasksWithMethodPrefix(plan, "_!"); len(urgent) > 0 {
			for _, id := range urgent {
				compressRemoveTask(plan, rebuildContainedIn(plan), id)
			}
			continue
		}

		macros := tasksWithNamePrefix(plan, "%")
		stillUrgent := append(tasksWithNamePrefix(plan, "_!"), tasksWithMethodPrefix(plan, "_!")...)
		if len(macros) > 0 || len(stillUrgent) > 0 {
			for _, id := range macros {
				if _, ok := plan.Tasks[id]; !ok {
					continue
				}
				if err := expandMacro(plan, rebuildContainedIn(plan), id); err != nil {
					return nil, err
				}
			}
			for _, id := range stillUrgent {
				if _, ok := plan.Tasks[id]; ok {
					compressRemoveTask(plan, rebuildContainedIn(plan), id)
				}
			}
			continue
		}

		if compressed := tasksWithMethodPrefix(plan, "<"); len(compressed) > 0 {
			for _, id := range compressed {
				if err := expandCompressedMethod(plan, id); err != nil {
					return nil, err
				}
			}
			continue
		}

		if methods := tasksWithMethodPrefix(plan, "_"); len(methods) > 0 {
			for _, id := range methods {
				if _, ok := plan.Tasks[id]; ok {
					compressRemoveTask(plan, rebuildContainedIn(plan), id)
				}
			}
			continue
		}

		if names := tasksWithNamePrefix(plan, "_"); len(names) > 0 {
			for _, id := range names {
				if _, ok := plan.Tasks[id]; ok {
					compressRemoveTask(plan, rebuildContainedIn(plan), id)
				}
			}
			continue
		}

		break
	}

	for _, t := range plan.Tasks {
		if i := strings.IndexByte(t.Name, '|'); i >= 0 {
			t.Name = t.Name[:i]
		}
	}
	return plan, nil
}

// rebuildContainedIn maps every subtask id to the id of the task/root slot
// that currently lists it as a subtask; a task present as a root has no
// entry. Run rebuilds it before each individual structural edit, not just
// once per fixed-point iteration.
func rebuildContainedIn(plan *Plan) map[int]int {
	contained := make(map[int]int, len(plan.Tasks))
	for id, t := range plan.Tasks {
		for _, st := range t.Subtasks {
			contained[st] = id
		}
	}
	return contained
}

func tasksWithNamePrefix(plan *Plan, prefix string) []int {
	var ids []int
	for id, t := range plan.Tasks {
		if strings.HasPrefix(t.Name, prefix) {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

func tasksWithMethodPrefix(plan *Plan, prefix string) []int {
	var ids []int
	for id, t := range plan.Tasks {
		if !t.IsPrimitive() && strings.HasPrefix(t.Method, prefix) {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []int) { sort.Ints(ids) }

// spliceSeq replaces every occurrence of old within s with news
// (possibly empty), preserving every other element's order.
func spliceSeq(s []int, old int, news []int) []int {
	out := make([]int, 0, len(s)+len(news))
	for _, v := range s {
		if v == old {
			out = append(out, news...)
		} else {
			out = append(out, v)
		}
	}
	return out
}

func spliceIntoParent(plan *Plan, contained map[int]int, id int, news []int) {
	if parent, ok := contained[id]; ok {
		pt := plan.Tasks[parent]
		pt.Subtasks = spliceSeq(pt.Subtasks, id, news)
		return
	}
	plan.Roots = spliceSeq(plan.Roots, id, news)
}

// compressRemoveTask implements "compress-remove" (spec §4.7 step 2/5/6): a
// primitive task is spliced out of the primitive plan with no replacement;
// a non-primitive task's subtasks are spliced into its parent in its place.
func compressRemoveTask(plan *Plan, contained map[int]int, id int) {
	t, ok := plan.Tasks[id]
	if !ok {
		return
	}
	var replacement []int
	if t.IsPrimitive() {
		plan.PrimitiveOrder = spliceSeq(plan.PrimitiveOrder, id, nil)
	} else {
		replacement = t.Subtasks
	}
	spliceIntoParent(plan, contained, id, replacement)
	delete(plan.Tasks, id)
}

// expandMacro inverts a compressed macro-action name "%b1#n1#b2#n2#...%":
// each bk becomes a fresh primitive step consuming the next nk arguments
// from the macro's own argument list, spliced in at the macro's position
// in both its parent's subtask list and the primitive execution order.
func expandMacro(plan *Plan, contained map[int]int, id int) error {
	t := plan.Tasks[id]
	inner := strings.TrimSuffix(strings.TrimPrefix(t.Name, "%"), "%")
	parts := strings.Split(inner, "#")
	if len(parts)%2 != 0 {
		return perr.InputErr("decompress", "expandMacro", fmt.Errorf("malformed macro name %q", t.Name))
	}

	var newIDs []int
	cursor := 0
	for i := 0; i+1 < len(parts); i += 2 {
		name := parts[i]
		n, err := strconv.Atoi(parts[i+1])
		if err != nil {
			return perr.InputErr("decompress", "expandMacro", fmt.Errorf("bad arg count in macro %q: %w", t.Name, err))
		}
		if cursor+n > len(t.Args) {
			return perr.InputErr("decompress", "expandMacro", fmt.Errorf("macro %q consumes more arguments than it carries", t.Name))
		}
		args := append([]string(nil), t.Args[cursor:cursor+n]...)
		cursor += n

		nid := plan.newID()
		plan.Tasks[nid] = &Task{ID: nid, Name: name, Args: args}
		newIDs = append(newIDs, nid)
	}

	spliceIntoParent(plan, contained, id, newIDs)
	plan.PrimitiveOrder = spliceSeq(plan.PrimitiveOrder, id, newIDs)
	delete(plan.Tasks, id)
	return nil
}

// expandCompressedMethod inverts a compressed method name
// "<main;inner_task[args];inner_method;inner_id;translation>": subtasks
// whose translation entry is >=0 stay directly under the outer task (at
// that position); the rest move into a freshly created inner task (at
// -translation-1) which is installed at position inner_id among the
// outer task's surviving direct subtasks.
func expandCompressedMethod(plan *Plan, id int) error {
	t := plan.Tasks[id]
	main, innerName, innerArgs, innerMethod, innerID, translation, err := parseCompressedMethod(t.Method)
	if err != nil {
		return err
	}
	if len(translation) != len(t.Subtasks) {
		return perr.InputErr("decompress", "expandCompressedMethod",
			fmt.Errorf("compressed method %q: translation length %d does not match %d subtasks", t.Method, len(translation), len(t.Subtasks)))
	}

	mainCount, innerCount := 0, 0
	for _, v := range translation {
		if v >= 0 {
			mainCount++
		} else {
			innerCount++
		}
	}
	mainSubtasks := make([]int, mainCount)
	innerSubtasks := make([]int, innerCount)
	for i, v := range translation {
		if v >= 0 {
			mainSubtasks[v] = t.Subtasks[i]
		} else {
			innerSubtasks[-v-1] = t.Subtasks[i]
		}
	}

	newID := plan.newID()
	plan.Tasks[newID] = &Task{ID: newID, Name: innerName, Args: innerArgs, Method: innerMethod, Subtasks: innerSubtasks}

	final := make([]int, 0, len(mainSubtasks)+1)
	final = append(final, mainSubtasks[:innerID]...)
	final = append(final, newID)
	final = append(final, mainSubtasks[innerID:]...)

	t.Method = main
	t.Subtasks = final
	return nil
}

// parseCompressedMethod parses "<main;task[args];inner_method;inner_id;i1,i2,...>".
func parseCompressedMethod(s string) (main, innerName string, innerArgs []string, innerMethod string, innerID int, translation []int, err error) {
	body := strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
	fields := strings.Split(body, ";")
	if len(fields) != 5 {
		return "", "", nil, "", 0, nil, perr.InputErr("decompress", "parseCompressedMethod", fmt.Errorf("malformed compressed method %q", s))
	}
	main = fields[0]
	innerName, innerArgs, err = parseStepSpec(fields[1])
	if err != nil {
		return "", "", nil, "", 0, nil, err
	}
	innerMethod = fields[2]
	innerID, err = strconv.Atoi(fields[3])
	if err != nil {
		return "", "", nil, "", 0, nil, perr.InputErr("decompress", "parseCompressedMethod", fmt.Errorf("bad inner_id in %q: %w", s, err))
	}
	for _, tok := range strings.Split(fields[4], ",") {
		v, terr := strconv.Atoi(tok)
		if terr != nil {
			return "", "", nil, "", 0, nil, perr.InputErr("decompress", "parseCompressedMethod", fmt.Errorf("bad translation entry %q in %q: %w", tok, s, terr))
		}
		translation = append(translation, v)
	}
	return main, innerName, innerArgs, innerMethod, innerID, translation, nil
}

// parseStepSpec parses "name[a,b]" into its name and comma-separated args.
func parseStepSpec(s string) (string, []string, error) {
	open := strings.IndexByte(s, '[')
	if open < 0 || !strings.HasSuffix(s, "]") {
		return "", nil, perr.InputErr("decompress", "parseStepSpec", fmt.Errorf("malformed step spec %q", s))
	}
	name := s[:open]
	inner := s[open+1 : len(s)-1]
	if inner == "" {
		return name, nil, nil
	}
	return name, strings.Split(inner, ","), nil
}
