package service

import (
	"sort"

	"slotpoll/core/constants"
	"slotpoll/modules/poll/entity"
)

// BuildAggregate turns the participant set into the count and attendee-name
// grids. Participants must arrive in ascending normalized-key order (the
// repository contract) so the who-grid name order is reproducible.
func BuildAggregate(e *entity.Event, participants []entity.Participant) *entity.AggregateGrid {
	rows := SlotsPerDay(e)
	days := e.Days()

	grid := &entity.AggregateGrid{
		SlotsPerDay: rows,
		Days:        days,
		Counts:      make([][]int, rows),
		Names:       make([][][]string, rows),
	}
	for r := 0; r < rows; r++ {
		grid.Counts[r] = make([]int, days)
		grid.Names[r] = make([][]string, days)
	}

	for _, p := range participants {
		for _, idx := range p.Slots {
			day, row, ok := Decode(idx, rows, days)
			if !ok {
				// Stored sets are filtered against current geometry at the
				// save boundary; an invalid index here is an upstream defect.
				continue
			}
			grid.Counts[row][day]++
			grid.Names[row][day] = append(grid.Names[row][day], p.Name)
			if grid.Counts[row][day] > grid.MaxCount {
				grid.MaxCount = grid.Counts[row][day]
			}
		}
	}

	return grid
}

// RankBestSlots returns up to limit cells with count > 0, best first. The
// sort is stable on count descending only: the day-major, row-ascending scan
// order below is the de-facto tie-break.
func RankBestSlots(grid *entity.AggregateGrid, limit int) []entity.RankedSlot {
	var ranked []entity.RankedSlot

	for day := 0; day < grid.Days; day++ {
		for row := 0; row < grid.SlotsPerDay; row++ {
			count := grid.Counts[row][day]
			if count == 0 {
				continue
			}
			ranked = append(ranked, entity.RankedSlot{
				DayIndex: day,
				RowIndex: row,
				Count:    count,
				Names:    grid.Names[row][day],
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// HeatLevel buckets a cell count into intensity levels 0..4 relative to the
// grid maximum. Rounding up means any count > 0 registers at level >= 1.
func HeatLevel(count, maxCount int) int {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	return (count*constants.HeatLevels + maxCount - 1) / maxCount
}

// HeatLevels computes the level for every cell of the grid.
func HeatLevels(grid *entity.AggregateGrid) [][]int {
	levels := make([][]int, grid.SlotsPerDay)
	for r := 0; r < grid.SlotsPerDay; r++ {
		levels[r] = make([]int, grid.Days)
		for d := 0; d < grid.Days; d++ {
			levels[r][d] = HeatLevel(grid.Counts[r][d], grid.MaxCount)
		}
	}
	return levels
}
