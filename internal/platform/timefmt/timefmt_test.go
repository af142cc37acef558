package timefmt

import (
	"testing"
	"time"
)

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"9am", "09:00"},
		{"9:30 PM", "21:30"},
		{"12am", "00:00"},
		{"12pm", "12:00"},
		{"12:45 AM", "00:45"},
		{"21:05", "21:05"},
		{"9", "09:00"},
		{"9:5", "09:05"},
		{"  7:15 am ", "07:15"},
		{"tomar a las 8pm", "20:00"},
		{"", "00:00"},
		{"sin hora", "00:00"},
	}

	for _, c := range cases {
		if got := NormalizeTime(c.raw); got != c.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeTime_AmPmWinsOverBare(t *testing.T) {
	// Texto ambiguo con hora suelta y sufijo am/pm: gana la rama am/pm.
	if got := NormalizeTime("9:30 pm (despues de 2 comidas)"); got != "21:30" {
		t.Fatalf("expected 21:30, got %q", got)
	}
}

func TestCombineDateTime(t *testing.T) {
	got, ok := CombineDateTime("2024-01-01", "09:00")
	if !ok {
		t.Fatal("expected valid instant")
	}
	want := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if _, ok := CombineDateTime("", "09:00"); ok {
		t.Fatal("empty date should not parse")
	}
	if _, ok := CombineDateTime("2024-13-40", "09:00"); ok {
		t.Fatal("invalid date should not parse")
	}
}

func TestFormatters(t *testing.T) {
	at := time.Date(2024, 3, 7, 8, 5, 42, 0, time.Local)
	if got := FormatDate(at); got != "2024-03-07" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatClock(at); got != "08:05" {
		t.Fatalf("FormatClock = %q", got)
	}
	if got := FormatSeconds(185); got != "03:05" {
		t.Fatalf("FormatSeconds(185) = %q", got)
	}
	if got := FormatSeconds(-3); got != "00:00" {
		t.Fatalf("FormatSeconds(-3) = %q", got)
	}
}
