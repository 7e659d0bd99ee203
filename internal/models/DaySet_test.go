package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDaySet(t *testing.T) {
	ds := NewDaySet(map[int]bool{102: true, 100: true, 101: true, 7: true})

	assert.Equal(t, 4, ds.Count())
	assert.Equal(t, []int{7, 100, 101, 102}, ds.Days())
	assert.True(t, ds.Contains(101))
	assert.False(t, ds.Contains(103))
	assert.False(t, ds.Contains(0))
	assert.False(t, ds.Contains(-1))

	ds.Add(0)
	ds.Add(-5)
	assert.Equal(t, 4, ds.Count())
}

func TestDaySet_StreakEndingAt(t *testing.T) {
	ds := NewDaySet(map[int]*DayRecord{100: nil, 101: nil, 102: nil, 98: nil})

	assert.Equal(t, 3, ds.StreakEndingAt(102))
	assert.Equal(t, 2, ds.StreakEndingAt(101))
	assert.Equal(t, 0, ds.StreakEndingAt(103))
	assert.Equal(t, 1, ds.StreakEndingAt(98))
	assert.Equal(t, 0, ds.StreakEndingAt(0))
}

func TestDaySet_Nth(t *testing.T) {
	ds := NewDaySet(map[int]bool{40: true, 3: true, 200: true})

	day, ok := ds.Nth(0)
	assert.True(t, ok)
	assert.Equal(t, 3, day)

	day, ok = ds.Nth(2)
	assert.True(t, ok)
	assert.Equal(t, 200, day)

	_, ok = ds.Nth(3)
	assert.False(t, ok)
	_, ok = ds.Nth(-1)
	assert.False(t, ok)
}
