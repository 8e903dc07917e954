package timeperiod

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

// at создает момент времени на тестовой дате
func at(hour, minute int) time.Time {
	return time.Date(2025, 11, 3, hour, minute, 0, 0, time.UTC)
}

// period создает период на тестовой дате
func period(t *testing.T, startHour, startMin, endHour, endMin int) TimePeriod {
	t.Helper()
	p, err := New(at(startHour, startMin), at(endHour, endMin))
	require.NoError(t, err)
	return p
}

func TestNew_StartAfterEnd(t *testing.T) {
	_, err := New(at(12, 0), at(9, 0))
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestParse(t *testing.T) {
	p, err := Parse("09:30-17:00", testDate)
	require.NoError(t, err)
	assert.Equal(t, at(9, 30), p.Start)
	assert.Equal(t, at(17, 0), p.End)
	assert.Equal(t, "09:30-17:00", p.String())

	_, err = Parse("9am-5pm", testDate)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Parse("09:00", testDate)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestOverlaps_StrictBoundaries(t *testing.T) {
	tests := []struct {
		name string
		a, b TimePeriod
		want bool
	}{
		{"real overlap", period(t, 9, 0, 11, 0), period(t, 10, 0, 12, 0), true},
		{"contained", period(t, 9, 0, 12, 0), period(t, 10, 0, 11, 0), true},
		{"touching end-to-start", period(t, 9, 0, 10, 0), period(t, 10, 0, 11, 0), false},
		{"touching start-to-end", period(t, 10, 0, 11, 0), period(t, 9, 0, 10, 0), false},
		{"disjoint", period(t, 9, 0, 10, 0), period(t, 11, 0, 12, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestContains(t *testing.T) {
	p := period(t, 9, 0, 12, 0)

	assert.True(t, p.Contains(at(9, 0)), "start is included")
	assert.True(t, p.Contains(at(10, 30)))
	assert.False(t, p.Contains(at(12, 0)), "end is excluded")
	assert.False(t, p.Contains(at(8, 59)))
}

func TestIntersect(t *testing.T) {
	a := period(t, 9, 0, 12, 0)
	b := period(t, 11, 0, 14, 0)

	got := a.Intersect(b)
	assert.Equal(t, at(11, 0), got.Start)
	assert.Equal(t, at(12, 0), got.End)

	c := period(t, 13, 0, 14, 0)
	assert.True(t, a.Intersect(c).IsEmpty())
}

func TestAnchorTo(t *testing.T) {
	p := period(t, 9, 0, 12, 0)
	other := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	anchored := p.AnchorTo(other)
	assert.Equal(t, time.Date(2025, 12, 25, 9, 0, 0, 0, time.UTC), anchored.Start)
	assert.Equal(t, time.Date(2025, 12, 25, 12, 0, 0, 0, time.UTC), anchored.End)
}

// assertInvariant проверяет, что коллекция отсортирована и не содержит
// пересекающихся или граничащих периодов
func assertInvariant(t *testing.T, ps TimePeriods) {
	t.Helper()
	for i := 1; i < len(ps); i++ {
		assert.True(t, ps[i-1].Start.Before(ps[i].Start), "periods must be sorted by start")
		assert.True(t, ps[i-1].End.Before(ps[i].Start),
			"periods %s and %s must not overlap or touch", ps[i-1], ps[i])
	}
}

func TestMerge_Coalescing(t *testing.T) {
	tests := []struct {
		name   string
		start  TimePeriods
		insert TimePeriod
		want   string
	}{
		{
			name:   "into empty",
			start:  nil,
			insert: period(t, 9, 0, 10, 0),
			want:   "09:00-10:00",
		},
		{
			name:   "disjoint keeps both sorted",
			start:  TimePeriods{period(t, 12, 0, 13, 0)},
			insert: period(t, 9, 0, 10, 0),
			want:   "09:00-10:00, 12:00-13:00",
		},
		{
			name:   "overlapping merges",
			start:  TimePeriods{period(t, 9, 0, 11, 0)},
			insert: period(t, 10, 0, 12, 0),
			want:   "09:00-12:00",
		},
		{
			name:   "adjacent merges",
			start:  TimePeriods{period(t, 9, 0, 10, 0)},
			insert: period(t, 10, 0, 11, 0),
			want:   "09:00-11:00",
		},
		{
			name:   "bridges two periods",
			start:  TimePeriods{period(t, 9, 0, 10, 0), period(t, 11, 0, 12, 0)},
			insert: period(t, 9, 30, 11, 30),
			want:   "09:00-12:00",
		},
		{
			name:   "contained is absorbed",
			start:  TimePeriods{period(t, 9, 0, 12, 0)},
			insert: period(t, 10, 0, 11, 0),
			want:   "09:00-12:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Merge(tt.insert)
			assert.Equal(t, tt.want, got.String())
			assertInvariant(t, got)
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	ps := TimePeriods{}.Merge(period(t, 9, 0, 12, 0)).Merge(period(t, 13, 0, 17, 0))
	p := period(t, 10, 0, 14, 0)

	once := ps.Merge(p)
	twice := once.Merge(p)

	assert.Equal(t, once.String(), twice.String())
	assertInvariant(t, twice)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		start    TimePeriods
		subtract TimePeriod
		want     string
	}{
		{
			name:     "interior split yields two",
			start:    TimePeriods{period(t, 9, 0, 12, 0)},
			subtract: period(t, 10, 0, 11, 0),
			want:     "09:00-10:00, 11:00-12:00",
		},
		{
			name:     "left shrink",
			start:    TimePeriods{period(t, 9, 0, 12, 0)},
			subtract: period(t, 8, 0, 10, 0),
			want:     "10:00-12:00",
		},
		{
			name:     "right shrink",
			start:    TimePeriods{period(t, 9, 0, 12, 0)},
			subtract: period(t, 11, 0, 13, 0),
			want:     "09:00-11:00",
		},
		{
			name:     "fully consumed",
			start:    TimePeriods{period(t, 9, 0, 12, 0)},
			subtract: period(t, 9, 0, 12, 0),
			want:     "",
		},
		{
			name:     "exact cover leaves empty not error",
			start:    TimePeriods{period(t, 9, 0, 12, 0)},
			subtract: period(t, 8, 0, 13, 0),
			want:     "",
		},
		{
			name:     "touching period untouched",
			start:    TimePeriods{period(t, 9, 0, 12, 0)},
			subtract: period(t, 12, 0, 13, 0),
			want:     "09:00-12:00",
		},
		{
			name:     "spans multiple periods",
			start:    TimePeriods{period(t, 9, 0, 10, 0), period(t, 11, 0, 12, 0), period(t, 13, 0, 14, 0)},
			subtract: period(t, 9, 30, 13, 30),
			want:     "09:00-09:30, 13:30-14:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.start.Diff(tt.subtract)
			assert.Equal(t, tt.want, got.String())
			assertInvariant(t, got)
		})
	}
}

// TestDiff_Reconstruction проверяет, что A.Diff(B) + A.Intersect(B) == A
func TestDiff_Reconstruction(t *testing.T) {
	a := TimePeriods{period(t, 9, 0, 12, 0), period(t, 13, 0, 17, 0)}
	b := period(t, 11, 0, 14, 0)

	remainder := a.Diff(b)
	reconstructed := remainder
	for _, p := range a {
		if cut := p.Intersect(b); !cut.IsEmpty() {
			reconstructed = reconstructed.Merge(cut)
		}
	}

	assert.Equal(t, a.String(), reconstructed.String())
	assertInvariant(t, reconstructed)
}

func TestContainsPeriod(t *testing.T) {
	ps := TimePeriods{period(t, 9, 0, 12, 0), period(t, 13, 0, 17, 0)}

	assert.True(t, ps.ContainsPeriod(period(t, 9, 0, 12, 0)))
	assert.True(t, ps.ContainsPeriod(period(t, 10, 0, 11, 0)))
	assert.True(t, ps.ContainsPeriod(period(t, 13, 0, 13, 30)))
	assert.False(t, ps.ContainsPeriod(period(t, 11, 0, 14, 0)), "spans the gap")
	assert.False(t, ps.ContainsPeriod(period(t, 8, 0, 9, 30)))
}

func TestDiff_RandomSequenceKeepsInvariant(t *testing.T) {
	ps := TimePeriods{}
	ops := []struct {
		merge bool
		p     TimePeriod
	}{
		{true, period(t, 9, 0, 12, 0)},
		{true, period(t, 14, 0, 18, 0)},
		{false, period(t, 10, 0, 10, 30)},
		{true, period(t, 12, 0, 14, 0)},
		{false, period(t, 11, 30, 15, 0)},
		{true, period(t, 8, 0, 9, 0)},
		{false, period(t, 8, 30, 8, 45)},
	}

	for _, op := range ops {
		if op.merge {
			ps = ps.Merge(op.p)
		} else {
			ps = ps.Diff(op.p)
		}
		assertInvariant(t, ps)
	}

	assert.Equal(t, "08:00-08:30, 08:45-10:00, 10:30-11:30, 15:00-18:00", ps.String())
}
