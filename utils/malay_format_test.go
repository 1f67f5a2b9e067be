package utils

import (
	"testing"
	"time"
)

func TestFormatMalayDate(t *testing.T) {
	d := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.Local)
	if got := FormatMalayDate(d); got != "15 Januari 2026" {
		t.Errorf("got %q", got)
	}

	if got := FormatMalayDate(time.Time{}); got != "" {
		t.Errorf("zero time should be empty, got %q", got)
	}

	if got := FormatMalayDatePtr(nil); got != "" {
		t.Errorf("nil pointer should be empty, got %q", got)
	}
}

func TestFormatMalayDateRange(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2027, time.February, 28, 0, 0, 0, 0, time.Local)

	want := "1 Mac 2026 hingga 28 Februari 2027"
	if got := FormatMalayDateRange(start, end); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if got := FormatMalayDateRange(time.Time{}, end); got != "" {
		t.Errorf("zero start should be empty, got %q", got)
	}
}

func TestMalayNumber(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "kosong"},
		{1, "satu"},
		{10, "sepuluh"},
		{11, "sebelas"},
		{15, "lima belas"},
		{30, "tiga puluh"},
		{42, "empat puluh dua"},
		{100, "seratus"},
		{215, "dua ratus lima belas"},
		{1000, "seribu"},
		{2500, "dua ribu lima ratus"},
		{-5, "-5"},
		{1000000, "1000000"},
	}
	for _, c := range cases {
		if got := MalayNumber(c.n); got != c.want {
			t.Errorf("MalayNumber(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatTempohHari(t *testing.T) {
	if got := FormatTempohHari(30); got != "tiga puluh (30) hari" {
		t.Errorf("got %q", got)
	}
	if got := FormatTempohHari(14); got != "empat belas (14) hari" {
		t.Errorf("got %q", got)
	}
}
