package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AssigneeTasks is one assignee's share of a task list.
type AssigneeTasks struct {
	Assignee string
	Tasks    []Task
}

// Required returns the required-action tasks in their original order.
func (g AssigneeTasks) Required() []Task {
	return g.byKind(KindRequiredAction)
}

// Next returns the next-action tasks in their original order.
func (g AssigneeTasks) Next() []Task {
	return g.byKind(KindNextAction)
}

func (g AssigneeTasks) byKind(k Kind) []Task {
	var out []Task
	for _, t := range g.Tasks {
		if t.Kind == k {
			out = append(out, t)
		}
	}
	return out
}

// GroupByAssignee buckets tasks by assignee.
// The operator's group comes first; the rest follow Japanese collation order.
// Tasks keep their relative order inside a group.
func GroupByAssignee(tasks []Task, operator string) []AssigneeTasks {
	index := make(map[string]int)
	var groups []AssigneeTasks
	for _, t := range tasks {
		i, ok := index[t.Assignee]
		if !ok {
			i = len(groups)
			index[t.Assignee] = i
			groups = append(groups, AssigneeTasks{Assignee: t.Assignee})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}

	col := collate.New(language.Japanese)
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Assignee, groups[j].Assignee
		if a == operator {
			return b != operator
		}
		if b == operator {
			return false
		}
		return col.CompareString(a, b) < 0
	})
	return groups
}
