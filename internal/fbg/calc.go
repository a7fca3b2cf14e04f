package fbg

import "fmt"

// CalcFunc converts one sensor's raw reading in a row to a physical value.
// The full row and metadata index are passed so a calculation can consult
// other sensors in the same row, e.g. for thermal compensation. A false
// second return means the input needed for this sensor is absent from the
// row; the assembler omits the output field rather than synthesizing a value.
type CalcFunc func(uid string, row Row, meta MetadataIndex) (float64, bool)

// CalcRegistry is the zone x quantity-type dispatch table. It is built once
// at startup from a calibration table and never mutated afterwards, so
// concurrent request-time reads need no locking.
type CalcRegistry struct {
	funcs map[Zone]map[QuantityType]CalcFunc
}

// NewCalcRegistry builds the dispatch table from a calibration. Every non-raw
// quantity type a zone's metadata can declare gets exactly one entry.
func NewCalcRegistry(cal Calibration) *CalcRegistry {
	funcs := make(map[Zone]map[QuantityType]CalcFunc, len(cal))
	for zone, zc := range cal {
		funcs[zone] = map[QuantityType]CalcFunc{
			QuantityStrain:      strainCalc(zc),
			QuantityTemperature: temperatureCalc(zc),
		}
	}
	return &CalcRegistry{funcs: funcs}
}

// Resolve returns the calculation for a zone and quantity type. A missing
// entry is reported as ErrNotConfigured.
func (r *CalcRegistry) Resolve(zone Zone, t QuantityType) (CalcFunc, error) {
	fn, ok := r.funcs[zone][t]
	if !ok {
		return nil, fmt.Errorf("%w for zone %q, data type %q", ErrNotConfigured, zone, t)
	}
	return fn, nil
}

// temperatureCalc converts a raw Bragg wavelength to degrees Celsius using
// the zone's thermal sensitivity. A row without a reading for the sensor
// yields no output field.
func temperatureCalc(c ZoneCalibration) CalcFunc {
	return func(uid string, row Row, _ MetadataIndex) (float64, bool) {
		wl, ok := row.Values[uid]
		if !ok {
			return 0, false
		}
		shift := (wl - c.ReferenceWavelength) / c.ReferenceWavelength
		return c.ReferenceTemp + shift/c.ThermalSensitivity, true
	}
}

// strainCalc converts a raw Bragg wavelength to microstrain, compensating for
// the thermal response of the grating and the expansion of the host structure
// using the zone's temperature sensors in the same row. Rows carrying no
// temperature reading are converted uncompensated. A row without a reading
// for the strain sensor itself yields no output field.
func strainCalc(c ZoneCalibration) CalcFunc {
	return func(uid string, row Row, meta MetadataIndex) (float64, bool) {
		wl, ok := row.Values[uid]
		if !ok {
			return 0, false
		}
		shift := (wl - c.ReferenceWavelength) / c.ReferenceWavelength
		dT := c.deltaTemp(row, meta)
		mechanical := (shift-c.ThermalSensitivity*dT)/c.GaugeFactor - c.ThermalExpansion*dT
		return mechanical * 1e6, true
	}
}

// deltaTemp estimates the row's temperature offset from the calibration
// reference as the mean over the zone's temperature sensors present in the
// row. Zero when the row carries none.
func (c ZoneCalibration) deltaTemp(row Row, meta MetadataIndex) float64 {
	var sum float64
	var n int
	for uid, m := range meta {
		if m.Type != QuantityTemperature {
			continue
		}
		wl, ok := row.Values[uid]
		if !ok {
			continue
		}
		shift := (wl - c.ReferenceWavelength) / c.ReferenceWavelength
		sum += shift / c.ThermalSensitivity
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
