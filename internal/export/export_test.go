package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"interview-engine/internal/store"
)

var apps = []store.Application{
	{Company: "Acme, Inc", LastStage: "Phone Screen", SignalsCount: 2, InterviewsScheduled: 1, CreatedAt: "2025-02-01 10:00:00", UpdatedAt: "2025-02-03 10:00:00"},
	{Company: "Initech", LastStage: "Assessment", SignalsCount: 1},
}

var signals = []store.Signal{
	{MessageID: "m1", Company: "Acme, Inc", Stage: "Phone Screen", StartTime: "2025-02-10T15:00:00", Confidence: 8, Subject: "Phone screen"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, apps))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, applicationHeader, rows[0])
	assert.Equal(t, []string{"Acme, Inc", "Phone Screen", "2", "1", "2025-02-01 10:00:00", "2025-02-03 10:00:00"}, rows[1])
	assert.Equal(t, "Initech", rows[2][0])
}

func TestWriteSignalsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSignalsCSV(&buf, signals))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-02-10T15:00:00", rows[1][3])
	assert.Equal(t, "m1", rows[1][10])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, apps, signals))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{applicationsSheet, signalsSheet}, f.GetSheetList())

	rows, err := f.GetRows(applicationsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Company", rows[0][0])
	assert.Equal(t, "Acme, Inc", rows[1][0])

	rows, err = f.GetRows(signalsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Phone Screen", rows[1][2])
}
