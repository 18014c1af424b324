package models

// CountCompleted returns how many checklist items are marked completed.
func CountCompleted(items []ChecklistItem) int {
	count := 0
	for _, item := range items {
		if item.Completed {
			count++
		}
	}
	return count
}

// ComputeProgress derives the completion percentage of a checklist, rounded
// half-up, and the status that percentage implies. An empty checklist is 0%
// and Pending. A checklist with an unchecked item never reaches 100.
func ComputeProgress(items []ChecklistItem) (int, TaskStatus) {
	total := len(items)
	if total == 0 {
		return 0, StatusPending
	}

	completed := CountCompleted(items)
	progress := (completed*200 + total) / (2 * total)
	if progress == 100 && completed < total {
		progress = 99
	}

	switch {
	case progress == 100:
		return progress, StatusCompleted
	case progress > 0:
		return progress, StatusInProgress
	default:
		return progress, StatusPending
	}
}

// ApplyStatus sets the status directly. The status is authoritative: when it
// is Completed every checklist item is checked and progress is pinned to 100.
func (t *Task) ApplyStatus(status TaskStatus) {
	t.Status = status
	if status != StatusCompleted {
		return
	}
	for i := range t.TodoChecklist {
		t.TodoChecklist[i].Completed = true
	}
	t.Progress = 100
}

// ApplyChecklist replaces the checklist wholesale. The checklist is
// authoritative: progress and status are re-derived from it.
func (t *Task) ApplyChecklist(items []ChecklistItem) {
	if items == nil {
		items = []ChecklistItem{}
	}
	t.TodoChecklist = items
	t.Progress, t.Status = ComputeProgress(items)
}
