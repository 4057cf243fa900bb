package parser

import (
	"testing"
	"time"
)

func TestParseDate_Formats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in    string
		y     int
		m     time.Month
		d     int
		valid bool
	}{
		{"05/01/2024", 2024, time.January, 5, true},
		{"5/1/2024", 2024, time.January, 5, true},
		{"2024-01-05", 2024, time.January, 5, true},
		{"05/01/2024 10:30:00", 2024, time.January, 5, true},
		{"31/02/2024", 0, 0, 0, false},
		{"-", 0, 0, 0, false},
		{"", 0, 0, 0, false},
		{"amanhã", 0, 0, 0, false},
		{"2024/01/05", 0, 0, 0, false},
	}

	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if ok != tc.valid {
			t.Fatalf("ParseDate(%q) valid want=%v got=%v", tc.in, tc.valid, ok)
		}
		if !ok {
			continue
		}
		if got.Year() != tc.y || got.Month() != tc.m || got.Day() != tc.d {
			t.Fatalf("ParseDate(%q) got=%v", tc.in, got)
		}
		if got.Hour() != 0 || got.Minute() != 0 {
			t.Fatalf("ParseDate(%q) should be midnight, got=%v", tc.in, got)
		}
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"5/1/2024":   "05/01/2024",
		"2024-03-09": "09/03/2024",
		"":           "-",
		"-":          "-",
		"sem data":   "sem data",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Fatalf("FormatDate(%q) want=%q got=%q", in, want, got)
		}
	}
}

func TestMonthBucketAndLabel(t *testing.T) {
	t.Parallel()

	d, _ := ParseDate("05/03/2024")
	if got := MonthBucket(d); got != "2024-03" {
		t.Fatalf("bucket want=2024-03 got=%s", got)
	}
	if got := MonthLabel("2024-03"); got != "Março de 2024" {
		t.Fatalf("label want=Março de 2024 got=%s", got)
	}
	if got := MonthLabel("2023-12"); got != "Dezembro de 2023" {
		t.Fatalf("label want=Dezembro de 2023 got=%s", got)
	}
}
