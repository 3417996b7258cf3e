package entity

// AggregateGrid is the read model computed fresh from the current participant
// set on every read; it is never persisted. Both grids are indexed
// [row][day].
type AggregateGrid struct {
	SlotsPerDay int          `json:"slots_per_day"`
	Days        int          `json:"days"`
	Counts      [][]int      `json:"aggregate"`
	Names       [][][]string `json:"who"`
	MaxCount    int          `json:"max_count"`
}

// RankedSlot is one entry of the best-times list.
type RankedSlot struct {
	DayIndex int      `json:"day_index"`
	RowIndex int      `json:"row_index"`
	Count    int      `json:"count"`
	Names    []string `json:"names"`
}
