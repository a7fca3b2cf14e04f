package fbg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ZoneCalibration holds the FBG conversion coefficients for one zone. Raw
// readings are Bragg wavelengths in nanometres.
type ZoneCalibration struct {
	// ReferenceWavelength is the unstrained Bragg wavelength at the
	// reference temperature, in nm.
	ReferenceWavelength float64 `yaml:"reference_wavelength"`
	// GaugeFactor is the dimensionless strain sensitivity of the grating.
	GaugeFactor float64 `yaml:"gauge_factor"`
	// ThermalSensitivity is the relative wavelength shift per degree C.
	ThermalSensitivity float64 `yaml:"thermal_sensitivity"`
	// ReferenceTemp is the temperature at calibration, in degrees C.
	ReferenceTemp float64 `yaml:"reference_temp"`
	// ThermalExpansion is the host structure's expansion coefficient per
	// degree C, subtracted to isolate mechanical strain.
	ThermalExpansion float64 `yaml:"thermal_expansion"`
}

// Calibration is the per-zone coefficient table feeding the calculation
// registry at startup.
type Calibration map[Zone]ZoneCalibration

// DefaultCalibration returns the coefficients from the instrumentation
// commissioning survey of the test building.
func DefaultCalibration() Calibration {
	return Calibration{
		ZoneBasement: {
			ReferenceWavelength: 1550.0,
			GaugeFactor:         0.78,
			ThermalSensitivity:  6.5e-6,
			ReferenceTemp:       12.0,
			ThermalExpansion:    1.0e-5, // concrete raft
		},
		ZoneStrongFloor: {
			ReferenceWavelength: 1550.0,
			GaugeFactor:         0.79,
			ThermalSensitivity:  6.7e-6,
			ReferenceTemp:       18.0,
			ThermalExpansion:    1.0e-5, // reinforced concrete
		},
		ZoneSteelFrame: {
			ReferenceWavelength: 1545.0,
			GaugeFactor:         0.78,
			ThermalSensitivity:  7.0e-6,
			ReferenceTemp:       18.0,
			ThermalExpansion:    1.2e-5, // structural steel
		},
	}
}

// LoadCalibration reads a YAML calibration file and overlays it on the
// defaults. Zones absent from the file keep their default coefficients;
// zones present replace theirs wholesale. An unknown zone key is rejected so
// a typo cannot silently leave a zone on defaults.
func LoadCalibration(path string) (Calibration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calibration file: %w", err)
	}

	var overlay map[string]ZoneCalibration
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse calibration file: %w", err)
	}

	cal := DefaultCalibration()
	for key, zc := range overlay {
		zone, err := ParseZone(key)
		if err != nil {
			return nil, fmt.Errorf("calibration file: %w", err)
		}
		cal[zone] = zc
	}
	return cal, nil
}
