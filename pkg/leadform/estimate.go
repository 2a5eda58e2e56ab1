package leadform

const (
	propertyValuePerSquareMeter = 1000
	lowPropertyRate             = 0.0004
	highPropertyRate            = 0.001
	solarRate                   = 0.0015
	monthsPerYear               = 12
)

// Estimate is a yearly premium range in the solar value's currency.
type Estimate struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Calculate derives the yearly premium range from a validated floor area (m²)
// and solar installation value. Results are not rounded.
func Calculate(area, solarValue float64) Estimate {
	propertyValue := area * propertyValuePerSquareMeter
	solar := solarValue * solarRate
	return Estimate{
		Low:  propertyValue*lowPropertyRate + solar,
		High: propertyValue*highPropertyRate + solar,
	}
}

// Monthly returns the range divided over twelve months.
func (e Estimate) Monthly() Estimate {
	return Estimate{
		Low:  e.Low / monthsPerYear,
		High: e.High / monthsPerYear,
	}
}
