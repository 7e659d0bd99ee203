package models

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// DaySet is the set of written day numbers of one year.
type DaySet struct {
	days *roaring.Bitmap
}

func NewDaySet[T any](records map[int]T) *DaySet {
	ds := &DaySet{days: roaring.New()}
	for day := range records {
		ds.Add(day)
	}
	return ds
}

func (ds *DaySet) Add(day int) {
	if day < 1 {
		return
	}
	ds.days.Add(uint32(day))
}

func (ds *DaySet) Contains(day int) bool {
	return day >= 1 && ds.days.Contains(uint32(day))
}

func (ds *DaySet) Count() int {
	return int(ds.days.GetCardinality())
}

// Days returns the members in ascending order.
func (ds *DaySet) Days() []int {
	out := make([]int, 0, ds.Count())
	it := ds.days.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Nth returns the n-th smallest member, counting from zero.
func (ds *DaySet) Nth(n int) (int, bool) {
	if n < 0 || n >= ds.Count() {
		return 0, false
	}
	day, err := ds.days.Select(uint32(n))
	if err != nil {
		return 0, false
	}
	return int(day), true
}

// StreakEndingAt counts consecutive members walking back from day.
func (ds *DaySet) StreakEndingAt(day int) int {
	streak := 0
	for d := day; d > 0 && ds.Contains(d); d-- {
		streak++
	}
	return streak
}
