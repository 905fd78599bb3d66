package extract

import "github.com/kijins-dev/chatwork-task-generator/internal/domain"

// Deduplicate removes tasks whose key was already seen, keeping the first.
// It returns the surviving tasks in encounter order and the number removed.
func Deduplicate(tasks []domain.Task) ([]domain.Task, int) {
	seen := make(map[domain.TaskKey]struct{}, len(tasks))
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		k := t.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, t)
	}
	return out, len(tasks) - len(out)
}
