package summary

import "fmt"

const (
	adviceHot         = "Det blir varmt! Klä dig i shorts och t-shirt."
	adviceHotButCool  = "Det blir varmt och svalt. Klä dig i shorts och t-shirt och ta med en tunn jacka."
	adviceThinJacket  = "Ta med en tunn jacka, det blir svalt i skuggan."
	adviceCool        = "Det blir svalt. Ta med dunjacka och mössa."
	adviceCold        = "Det blir kallt. Ta varm jacka och överdragsbyxor."
	adviceChilly      = "Det kan bli kyligt. Ta med dunjacka, tunna vantar och mössa."
	adviceColdMorning = "Det kan bli kallt. Ta med varm jacka, överdragsbyxor,varma vantar och mössa."
	adviceFreezing    = "Det blir kallt. Ta overall, mössa och dubbla vantar."
	adviceDampGrass   = "Det blir blött i gräset på morgonen. Ta med stövlar och vattentäta byxor."
	adviceSunFormat   = "UV-indexet blir högt (%s), smörj in dig med solkräm."
	adviceRain        = "Det kan regna under dagen. Ta med regnkläder och stövlar."
)

// uvThreshold is the max UV index above which sun protection is advised.
const uvThreshold = 3

// Advise returns the advisory lines for agg in their fixed order. The
// max-temperature and min-temperature chains are evaluated separately, so
// overlapping bands can produce two temperature lines.
func Advise(agg Aggregate) []string {
	var lines []string

	if agg.MaxTemp != nil {
		maxT := *agg.MaxTemp
		// MinTemp is always set when MaxTemp is.
		minT := *agg.MinTemp
		switch {
		case maxT >= 20 && minT >= 15:
			lines = append(lines, adviceHot)
		case maxT >= 20 && minT < 15:
			lines = append(lines, adviceHotButCool)
		case maxT >= 15 && maxT < 20:
			lines = append(lines, adviceThinJacket)
		case maxT >= 5 && maxT < 15:
			lines = append(lines, adviceCool)
		case maxT < 5:
			lines = append(lines, adviceCold)
		}
	}

	if agg.MinTemp != nil {
		minT := *agg.MinTemp
		if minT > 7 && minT <= 15 {
			lines = append(lines, adviceCool)
		}
		switch {
		case minT > 3 && minT <= 7:
			lines = append(lines, adviceChilly)
		case minT > 0 && minT <= 3:
			lines = append(lines, adviceColdMorning)
		case minT <= 0:
			lines = append(lines, adviceFreezing)
		}
	}

	if agg.DewPointWarning {
		lines = append(lines, adviceDampGrass)
	}
	if agg.MaxUVIndex > uvThreshold {
		lines = append(lines, fmt.Sprintf(adviceSunFormat, formatReading(agg.MaxUVIndex)))
	}
	if agg.WillRain {
		lines = append(lines, adviceRain)
	}
	return lines
}
