package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ummabot/pkg/logx"
)

func TestParseDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "0 9 * * *"},
		{in: "18:30", want: "30 18 * * *"},
		{in: "00:00", want: "0 0 * * *"},
		{in: "23:59", want: "59 23 * * *"},
		{in: " 12:05 ", want: "5 12 * * *"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "12", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseDailySpec(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestAddDailyRejectsDuplicates(t *testing.T) {
	s := New(Config{}, logx.Nop())
	job := func(context.Context) error { return nil }

	require.NoError(t, s.AddDaily("daily:ayah", "ayah", "09:00", 0, job))
	assert.Error(t, s.AddDaily("daily:ayah", "ayah", "10:00", 0, job))
	assert.Error(t, s.AddDaily("daily:bad", "bad", "9am", 0, job))
}

func TestPastEndDate(t *testing.T) {
	s := New(Config{}, logx.Nop())
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.False(t, s.pastEndDate(time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC), end))
	// the end date itself still mails
	assert.False(t, s.pastEndDate(time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC), end))
	assert.True(t, s.pastEndDate(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), end))
	// zero end date means no cutoff
	assert.False(t, s.pastEndDate(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}))
}

func TestExecSkipsAfterEndDate(t *testing.T) {
	s := New(Config{EndDate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}, logx.Nop())
	ran := false
	s.execOne(context.Background(), task{id: "t", name: "t", run: func(context.Context) error {
		ran = true
		return nil
	}})
	assert.False(t, ran)
	assert.Empty(t, s.History())
}

func TestExecOverlapSkip(t *testing.T) {
	s := New(Config{}, logx.Nop())
	state := &runState{running: true}
	ran := false
	s.execOne(context.Background(), task{id: "t", name: "t", state: state, run: func(context.Context) error {
		ran = true
		return nil
	}})
	assert.False(t, ran)
}

func TestExecRecordsHistory(t *testing.T) {
	s := New(Config{HistorySize: 2}, logx.Nop())
	s.execOne(context.Background(), task{id: "a", name: "a", run: func(context.Context) error { return nil }})
	s.execOne(context.Background(), task{id: "b", name: "b", run: func(context.Context) error { return assert.AnError }})
	s.execOne(context.Background(), task{id: "c", name: "c", run: func(context.Context) error { return nil }})

	h := s.History()
	require.Len(t, h, 2)
	assert.Equal(t, "c", h[0].ID)
	assert.Equal(t, "b", h[1].ID)
	assert.NotEmpty(t, h[1].Error)
}
