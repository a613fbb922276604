package database

import "time"

// Action действие, отправленное извне (например, "stop")
type Action struct {
	ID        int
	Action    string
	CreatedAt time.Time
}

// ActionStop останавливает текущий прогон перед следующим шагом
const ActionStop = "stop"

// RunSummary запись из macro_runs
type RunSummary struct {
	ID         int64
	TotalSteps int
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}
