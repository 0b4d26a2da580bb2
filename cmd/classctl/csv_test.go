package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadScheduleCSV(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	in := "Chapter,Title,Date,Time,Teacher Email\n" +
		"Kinematics,Lecture 01: Introduction,2025-11-25,10:00,t1@example.com\n" +
		",,,,\n" +
		"Kinematics,Lecture 02: Vectors,2025-11-26,,t1@example.com\n"

	rows, err := readScheduleCSV(strings.NewReader(in), loc, "09:30")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, "Kinematics", rows[0].Chapter)
	require.Equal(t, "Lecture 01: Introduction", rows[0].Title)
	require.Equal(t, "2025-11-25T04:30:00Z", rows[0].Date)
	require.Equal(t, "t1@example.com", rows[0].TeacherEmail)

	require.Equal(t, "2025-11-26T04:00:00Z", rows[1].Date)
}

func TestReadScheduleCSVHeaderVariants(t *testing.T) {
	in := "\ufeffchapter,TITLE,date,teacher_email\nA,B,2025-01-02,x@y.z\n"
	rows, err := readScheduleCSV(strings.NewReader(in), time.UTC, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "2025-01-02T10:00:00Z", rows[0].Date)
}

func TestReadScheduleCSVErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "empty file"},
		{"missing column", "Chapter,Title,Date\nA,B,2025-01-02\n", `missing column "teacheremail"`},
		{"bad date", "Chapter,Title,Date,Teacher Email\nA,B,25/11/2025,x@y.z\n", `line 2: invalid date "25/11/2025"`},
		{"bad time", "Chapter,Title,Date,Time,Teacher Email\nA,B,2025-11-25,10am,x@y.z\n", `line 2: invalid time "10am"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readScheduleCSV(strings.NewReader(tc.in), time.UTC, "")
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}
