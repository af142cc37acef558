package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Los datos de la hoja traen horas en cualquier formato ("9am", "9:30 PM",
// "21:05"). Primero se intenta 12h con sufijo am/pm; si no, H[:MM] suelto.
// El orden importa: un texto con ambas cosas resuelve por la rama am/pm.
var (
	ampmRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
	bareRe = regexp.MustCompile(`(\d{1,2})(?::(\d{1,2}))?`)
)

// NormalizeTime convierte texto de hora arbitrario a "HH:MM" (24h).
// Entrada irreconocible => "00:00". Se aplica una sola vez, al ingerir.
func NormalizeTime(raw string) string {
	if m := ampmRe.FindStringSubmatch(raw); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		switch {
		case strings.EqualFold(m[3], "pm") && hh != 12:
			hh += 12
		case strings.EqualFold(m[3], "am") && hh == 12:
			hh = 0
		}
		return fmt.Sprintf("%02d:%02d", hh, mm)
	}

	if m := bareRe.FindStringSubmatch(raw); m != nil {
		hh, _ := strconv.Atoi(m[1])
		mm := 0
		if m[2] != "" {
			mm, _ = strconv.Atoi(m[2])
		}
		return fmt.Sprintf("%02d:%02d", hh, mm)
	}

	return "00:00"
}

// CombineDateTime compone fecha ("2006-01-02") + hora canónica ("15:04")
// en un instante local. ok=false si alguna parte no parsea; el caller
// filtra, nunca compara contra un instante inválido.
func CombineDateTime(date, clock string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate devuelve la fecha calendario "2006-01-02".
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// FormatClock devuelve la hora del día "15:04".
func FormatClock(t time.Time) string { return t.Format(ClockLayout) }

// FormatSeconds renderiza segundos restantes como "MM:SS" (countdown).
func FormatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
