package model

// HabitStatus is the resolved completion state of a habit for one day.
type HabitStatus string

const (
	HabitDone    HabitStatus = "done"
	HabitNotDone HabitStatus = "not_done"
)

// Habit is one journal entry reduced to its completion state.
type Habit struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Status HabitStatus `json:"status"`
}

// HabitReport lists the habits of a single target date.
type HabitReport struct {
	Date   NullString `json:"date"`
	Habits []Habit    `json:"habits"`
}
