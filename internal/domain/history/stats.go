package history

import "math"

// Stats son los agregados de adherencia sobre el ledger mergeado.
type Stats struct {
	Taken   int
	Missed  int
	Unknown int

	TakenPct  int
	MissedPct int

	// Critical cuando el porcentaje de tomas perdidas llega al 50%.
	Critical bool
}

// Compute cuenta por status (todo lo que no es TAKEN/MISSED va a
// Unknown) y deriva porcentajes sobre taken+missed. Ambos porcentajes
// son 0 cuando no hay registros conocidos.
func Compute(entries []Entry) Stats {
	var st Stats
	for _, e := range entries {
		switch e.Status {
		case StatusTaken:
			st.Taken++
		case StatusMissed:
			st.Missed++
		default:
			st.Unknown++
		}
	}

	known := st.Taken + st.Missed
	if known > 0 {
		st.TakenPct = int(math.Round(float64(st.Taken) / float64(known) * 100))
		// El lado missed se deriva: redondear ambos por separado puede
		// sumar 101 en splits exactos de .5 (3/5 => 38+63).
		st.MissedPct = 100 - st.TakenPct
	}
	st.Critical = st.MissedPct >= 50

	return st
}
