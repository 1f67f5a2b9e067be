package utils

import (
	"strconv"
	"strings"
	"time"
)

var malayMonths = []string{
	"Januari",
	"Februari",
	"Mac",
	"April",
	"Mei",
	"Jun",
	"Julai",
	"Ogos",
	"September",
	"Oktober",
	"November",
	"Disember",
}

// FormatMalayDate returns the date spelled out with Malay month names,
// e.g. "15 Januari 2026".
func FormatMalayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	localTime := t.In(time.Local)
	monthIndex := int(localTime.Month()) - 1
	if monthIndex < 0 || monthIndex >= len(malayMonths) {
		return localTime.Format("02/01/2006")
	}

	day := localTime.Day()
	monthName := malayMonths[monthIndex]
	year := localTime.Year()

	return strconv.Itoa(day) + " " + monthName + " " + strconv.Itoa(year)
}

// FormatMalayDatePtr returns the Malay formatted date for pointer values.
func FormatMalayDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatMalayDate(*t)
}

// FormatMalayDateRange renders "DD Month YYYY hingga DD Month YYYY", the form
// used for approval periods.
func FormatMalayDateRange(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return ""
	}
	return FormatMalayDate(start) + " hingga " + FormatMalayDate(end)
}

var malayDigits = []string{"kosong", "satu", "dua", "tiga", "empat", "lima", "enam", "tujuh", "lapan", "sembilan"}

// MalayNumber spells out a number in Malay, e.g. 30 -> "tiga puluh". Supports
// the ranges the letters actually use (0 to 999999).
func MalayNumber(n int) string {
	if n < 0 || n > 999999 {
		return strconv.Itoa(n)
	}
	if n == 0 {
		return malayDigits[0]
	}

	if n >= 1000 {
		thousands := n / 1000
		remainder := n % 1000
		var prefix string
		if thousands == 1 {
			prefix = "seribu"
		} else {
			prefix = malayNumberBelowThousand(thousands) + " ribu"
		}
		if remainder == 0 {
			return prefix
		}
		return prefix + " " + malayNumberBelowThousand(remainder)
	}

	return malayNumberBelowThousand(n)
}

func malayNumberBelowThousand(n int) string {
	var parts []string

	if n >= 100 {
		hundreds := n / 100
		if hundreds == 1 {
			parts = append(parts, "seratus")
		} else {
			parts = append(parts, malayDigits[hundreds]+" ratus")
		}
		n %= 100
	}

	switch {
	case n == 0:
	case n < 10:
		parts = append(parts, malayDigits[n])
	case n == 10:
		parts = append(parts, "sepuluh")
	case n == 11:
		parts = append(parts, "sebelas")
	case n < 20:
		parts = append(parts, malayDigits[n-10]+" belas")
	default:
		tens := malayDigits[n/10] + " puluh"
		if n%10 != 0 {
			tens += " " + malayDigits[n%10]
		}
		parts = append(parts, tens)
	}

	return strings.Join(parts, " ")
}

// FormatTempohHari renders a duration in days the way the letters phrase it,
// e.g. "tiga puluh (30) hari".
func FormatTempohHari(days int) string {
	return MalayNumber(days) + " (" + strconv.Itoa(days) + ") hari"
}
