package fbg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testCal = ZoneCalibration{
	ReferenceWavelength: 1550.0,
	GaugeFactor:         0.78,
	ThermalSensitivity:  6.5e-6,
	ReferenceTemp:       12.0,
	ThermalExpansion:    1.0e-5,
}

func rowAt(values map[string]float64) Row {
	return Row{Timestamp: time.Date(2020, 2, 1, 12, 0, 0, 0, time.UTC), Values: values}
}

func TestTemperatureCalc(t *testing.T) {
	calc := temperatureCalc(testCal)

	t.Run("reference wavelength gives reference temperature", func(t *testing.T) {
		got, ok := calc("t1", rowAt(map[string]float64{"t1": testCal.ReferenceWavelength}), nil)
		require.True(t, ok)
		require.InDelta(t, testCal.ReferenceTemp, got, 1e-9)
	})

	t.Run("known shift gives known offset", func(t *testing.T) {
		// 10 degC above reference
		wl := testCal.ReferenceWavelength * (1 + 10*testCal.ThermalSensitivity)
		got, ok := calc("t1", rowAt(map[string]float64{"t1": wl}), nil)
		require.True(t, ok)
		require.InDelta(t, testCal.ReferenceTemp+10, got, 1e-6)
	})

	t.Run("missing reading omits field", func(t *testing.T) {
		_, ok := calc("t1", rowAt(map[string]float64{"other": 1550.0}), nil)
		require.False(t, ok)
	})
}

func TestStrainCalc(t *testing.T) {
	calc := strainCalc(testCal)

	t.Run("uncompensated conversion", func(t *testing.T) {
		// 250 microstrain with no temperature sensors in the row
		wl := testCal.ReferenceWavelength * (1 + testCal.GaugeFactor*250e-6)
		got, ok := calc("s1", rowAt(map[string]float64{"s1": wl}), MetadataIndex{
			"s1": {UID: "s1", Type: QuantityStrain},
		})
		require.True(t, ok)
		require.InDelta(t, 250.0, got, 1e-6)
	})

	t.Run("thermal compensation from same-row temperature sensors", func(t *testing.T) {
		const (
			mech = 100.0 // microstrain
			dT   = 5.0   // degC above reference
		)
		meta := MetadataIndex{
			"s1": {UID: "s1", Type: QuantityStrain},
			"t1": {UID: "t1", Type: QuantityTemperature},
		}
		tempWL := testCal.ReferenceWavelength * (1 + dT*testCal.ThermalSensitivity)
		// The grating sees the mechanical strain, the thermal shift, and the
		// host expansion.
		totalShift := testCal.GaugeFactor*(mech*1e-6+testCal.ThermalExpansion*dT) + testCal.ThermalSensitivity*dT
		strainWL := testCal.ReferenceWavelength * (1 + totalShift)

		got, ok := calc("s1", rowAt(map[string]float64{"s1": strainWL, "t1": tempWL}), meta)
		require.True(t, ok)
		require.InDelta(t, mech, got, 1e-3)
	})

	t.Run("missing reading omits field", func(t *testing.T) {
		_, ok := calc("s1", rowAt(map[string]float64{}), MetadataIndex{})
		require.False(t, ok)
	})
}

func TestCalcRegistry_Resolve(t *testing.T) {
	reg := NewCalcRegistry(DefaultCalibration())

	for _, zone := range Zones() {
		for _, dt := range []QuantityType{QuantityStrain, QuantityTemperature} {
			fn, err := reg.Resolve(zone, dt)
			require.NoError(t, err, "zone %s type %s", zone, dt)
			require.NotNil(t, fn)
		}
	}

	_, err := reg.Resolve(ZoneSteelFrame, QuantityType("vibration"))
	require.ErrorIs(t, err, ErrNotConfigured)

	_, err = reg.Resolve(Zone("roof"), QuantityStrain)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadCalibration(t *testing.T) {
	t.Run("overlays defaults per zone", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calibration.yaml")
		content := `
basement:
  reference_wavelength: 1548.5
  gauge_factor: 0.80
  thermal_sensitivity: 6.0e-6
  reference_temp: 10.0
  thermal_expansion: 9.0e-6
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cal, err := LoadCalibration(path)
		require.NoError(t, err)
		require.InDelta(t, 1548.5, cal[ZoneBasement].ReferenceWavelength, 1e-9)
		require.InDelta(t, 0.80, cal[ZoneBasement].GaugeFactor, 1e-9)
		require.Equal(t, DefaultCalibration()[ZoneSteelFrame], cal[ZoneSteelFrame])
	})

	t.Run("rejects unknown zone keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calibration.yaml")
		require.NoError(t, os.WriteFile(path, []byte("roof:\n  gauge_factor: 0.8\n"), 0o644))

		_, err := LoadCalibration(path)
		require.Error(t, err)
		require.Contains(t, err.Error(), "roof")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCalibration(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
