package pitch

// Peak represents a peak in the frequency spectrum
type Peak struct {
	Bin       int
	Magnitude float64
	Frequency float64
}

// PickBassPeak returns the strongest bin whose frequency does not exceed
// cutoff. binWidth is the spacing of bins in Hz. The scan stops at the first
// bin above cutoff, which relies on bins being in ascending frequency order.
// Among equal magnitudes the lowest bin wins. ok is false when no bin had a
// positive magnitude or the strongest bin is DC.
func PickBassPeak(magnitudes []float64, binWidth, cutoff float64) (peak Peak, ok bool) {
	for bin, magnitude := range magnitudes {
		freq := float64(bin) * binWidth
		if freq > cutoff {
			break
		}
		if magnitude > peak.Magnitude {
			peak = Peak{Bin: bin, Magnitude: magnitude, Frequency: freq}
		}
	}

	if peak.Frequency > 0 {
		return peak, true
	}
	return Peak{}, false
}
