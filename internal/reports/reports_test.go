package reports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// Thursday.
var testNow = time.Date(2024, time.March, 14, 18, 30, 0, 0, time.Local)

func sampleLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l := ledger.New(testNow)
	l.Merge(map[ledger.Day]int{
		ledger.Date(2024, time.March, 4):  90, // previous week
		ledger.Date(2024, time.March, 11): 60,
		ledger.Date(2024, time.March, 12): 0,
		ledger.Date(2024, time.March, 13): 30,
	})
	require.NoError(t, l.AddCount(36))
	return l
}

func TestBuildCurrentWeek(t *testing.T) {
	r := Build(sampleLedger(t), ledger.PeriodWeek, 0, testNow)

	assert.Equal(t, "week", r.Period)
	assert.Equal(t, "Current week", r.Label)
	require.NotNil(t, r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, ledger.Date(2024, time.March, 11), *r.Start)
	assert.Equal(t, ledger.Date(2024, time.March, 17), *r.End)

	assert.Equal(t, 126, r.Stats.Total)
	assert.Equal(t, 60, r.Stats.Max)
	assert.Len(t, r.Days, 7)
	assert.Equal(t, 36, r.Today.Arrows)
	assert.Nil(t, r.Objective)
}

func TestBuildPreviousWeek(t *testing.T) {
	r := Build(sampleLedger(t), ledger.PeriodWeek, -1, testNow)
	assert.Equal(t, "Previous week", r.Label)
	assert.Equal(t, 90, r.Stats.Total)
}

func TestBuildClampsOffset(t *testing.T) {
	r := Build(sampleLedger(t), ledger.PeriodWeek, 3, testNow)
	assert.Equal(t, 0, r.Offset)
	assert.Equal(t, "Current week", r.Label)
}

func TestBuildAllTime(t *testing.T) {
	r := Build(sampleLedger(t), ledger.PeriodAll, -2, testNow)
	assert.Equal(t, 0, r.Offset)
	assert.Nil(t, r.Start)
	assert.Equal(t, "All time", r.Label)
	assert.Equal(t, 216, r.Stats.Total)
}

func TestBuildObjective(t *testing.T) {
	l := sampleLedger(t)
	o, err := ledger.NewObjective(ledger.PeriodWeek, 200, testNow)
	require.NoError(t, err)
	l.SetObjective(o)

	r := Build(l, ledger.PeriodWeek, 0, testNow)
	require.NotNil(t, r.Objective)
	assert.Equal(t, 200, r.Objective.Target)
	assert.Equal(t, 126, r.Objective.Progress)
	assert.NotEmpty(t, r.Objective.Message)
}

func TestGeneratePeriod(t *testing.T) {
	store, err := storage.New(t.TempDir(), storage.WithNow(func() time.Time { return testNow }))
	require.NoError(t, err)
	_, err = store.AddCount(24)
	require.NoError(t, err)

	r, err := NewGenerator(store).GeneratePeriod(ledger.PeriodMonth, 0)
	require.NoError(t, err)
	assert.Equal(t, "March 2024", r.Label)
	assert.Equal(t, 24, r.Stats.Total)
}

func TestFormatJSON(t *testing.T) {
	data, err := FormatJSON(Build(sampleLedger(t), ledger.PeriodWeek, 0, testNow))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "week", decoded["period"])
	assert.Equal(t, "2024-03-11", decoded["start"])
	_, hasObjective := decoded["objective"]
	assert.False(t, hasObjective)
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(Build(sampleLedger(t), ledger.PeriodWeek, 0, testNow))

	assert.Contains(t, out, "# Current week")
	assert.Contains(t, out, "- Total: 126 arrows")
	assert.Contains(t, out, "11/03/2024    60 "+strings.Repeat("█", barWidth))
	assert.Contains(t, out, "14/03/2024    36 ")
	assert.NotContains(t, out, "## Objective")
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 10, 10))
	assert.Equal(t, "", bar(5, 0, 10))
	assert.Equal(t, "█", bar(1, 100, 10))
	assert.Equal(t, strings.Repeat("█", 5), bar(5, 10, 10))
}
