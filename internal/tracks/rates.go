package tracks

// FillDerivedRates fills missing rate-of-turn values from successive course
// differences and derives dROT by forward differences over ROT. It runs
// after corrections and before spline interpolation, which needs every
// channel populated.
//
// A missing ROT at index i is inferred as the course change from the
// previous report per minute of elapsed time. The first report inherits
// the first resolved value; dROT at the last report repeats its neighbor.
func FillDerivedRates(seg *Segment) {
	msgs := seg.Messages
	if len(msgs) < 2 {
		return
	}

	for i := 1; i < len(msgs); i++ {
		if msgs[i].ROT != nil {
			continue
		}
		minutes := float64(msgs[i].Timestamp-msgs[i-1].Timestamp) / 60
		rot := 0.0
		if minutes > 0 {
			rot = (msgs[i].COG - msgs[i-1].COG) / minutes
		}
		msgs[i].ROT = &rot
	}
	if msgs[0].ROT == nil {
		rot := *msgs[1].ROT
		msgs[0].ROT = &rot
	}

	for i := 0; i < len(msgs)-1; i++ {
		minutes := float64(msgs[i+1].Timestamp-msgs[i].Timestamp) / 60
		drot := 0.0
		if minutes > 0 {
			drot = (*msgs[i+1].ROT - *msgs[i].ROT) / minutes
		}
		msgs[i].DROT = &drot
	}
	last := *msgs[len(msgs)-2].DROT
	msgs[len(msgs)-1].DROT = &last
}
