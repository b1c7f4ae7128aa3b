// Package export writes the application tracker as CSV or a workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"interview-engine/internal/store"
)

var (
	applicationHeader = []string{"Company", "Last Stage", "Signals", "Interviews Scheduled", "First Seen", "Updated"}
	signalHeader      = []string{"Detected", "Company", "Stage", "Start", "Meeting Link", "Due", "Confidence", "Subject", "Sender", "Event Link", "Message ID"}
)

func applicationRow(a store.Application) []string {
	return []string{
		a.Company, a.LastStage,
		strconv.Itoa(a.SignalsCount), strconv.Itoa(a.InterviewsScheduled),
		a.CreatedAt, a.UpdatedAt,
	}
}

func signalRow(s store.Signal) []string {
	return []string{
		s.DetectedAt, s.Company, s.Stage, s.StartTime, s.MeetingLink, s.DueHint,
		strconv.Itoa(s.Confidence), s.Subject, s.Sender, s.EventLink, s.MessageID,
	}
}

// WriteCSV writes one flat row per application.
func WriteCSV(w io.Writer, apps []store.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(applicationHeader); err != nil {
		return err
	}
	for _, a := range apps {
		if err := cw.Write(applicationRow(a)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteSignalsCSV(w io.Writer, signals []store.Signal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(signalHeader); err != nil {
		return err
	}
	for _, s := range signals {
		if err := cw.Write(signalRow(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

const (
	applicationsSheet = "Applications"
	signalsSheet      = "Signals"
)

// WriteXLSX writes an Applications sheet and a Signals sheet.
func WriteXLSX(w io.Writer, apps []store.Application, signals []store.Signal) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", applicationsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(signalsSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	appRows := make([][]string, 0, len(apps))
	for _, a := range apps {
		appRows = append(appRows, applicationRow(a))
	}
	if err := writeSheet(f, applicationsSheet, applicationHeader, appRows, headerStyle); err != nil {
		return err
	}

	sigRows := make([][]string, 0, len(signals))
	for _, s := range signals {
		sigRows = append(sigRows, signalRow(s))
	}
	if err := writeSheet(f, signalsSheet, signalHeader, sigRows, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string, style int) error {
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, sheet, i+2, r); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, vals []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return f.SetSheetRow(sheet, cell, &out)
}
