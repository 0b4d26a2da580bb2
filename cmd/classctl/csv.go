package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yungbote/classbridge-backend/internal/services"
)

const defaultLessonTime = "10:00"

var requiredColumns = []string{"chapter", "title", "date", "teacheremail"}

// readScheduleCSV turns a spreadsheet export into import rows. Columns are matched by header,
// ignoring case, spaces and underscores. Date is a calendar day in loc; Time (HH:MM) is
// optional and falls back to defaultTime.
func readScheduleCSV(r io.Reader, loc *time.Location, defaultTime string) ([]services.ImportRow, error) {
	if loc == nil {
		loc = time.UTC
	}
	if strings.TrimSpace(defaultTime) == "" {
		defaultTime = defaultLessonTime
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[headerKey(h)] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var rows []services.ImportRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if blank(rec) {
			continue
		}
		clock := field("time")
		if clock == "" {
			clock = defaultTime
		}
		date, err := combineDateTime(field("date"), clock, loc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, services.ImportRow{
			Chapter:      field("chapter"),
			Title:        field("title"),
			Date:         date,
			TeacherEmail: field("teacheremail"),
		})
	}
	return rows, nil
}

func combineDateTime(day, clock string, loc *time.Location) (string, error) {
	d, err := time.ParseInLocation(time.DateOnly, day, loc)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", day)
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return "", fmt.Errorf("invalid time %q", clock)
	}
	at := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	return at.UTC().Format(time.RFC3339), nil
}

func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
