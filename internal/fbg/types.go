package fbg

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuantityType is the physical measurement category a sensor's raw value is
// converted to, or QuantityRaw for the uncalibrated instrument reading.
type QuantityType string

const (
	QuantityRaw         QuantityType = "raw"
	QuantityStrain      QuantityType = "strain"
	QuantityTemperature QuantityType = "temperature"
)

// ParseQuantityType validates a data-type parameter from the boundary layer.
func ParseQuantityType(s string) (QuantityType, error) {
	switch t := QuantityType(s); t {
	case QuantityRaw, QuantityStrain, QuantityTemperature:
		return t, nil
	default:
		return "", fmt.Errorf("unknown data type %q", s)
	}
}

// Row is one wide reading: a timestamp paired with the simultaneous values of
// one or more sensors. For raw rows the values are keyed by sensor uid; for
// computed records they are keyed by sensor display name. Sensors without a
// reading at this instant are simply absent from Values.
type Row struct {
	Timestamp time.Time
	Values    map[string]float64
}

// MarshalJSON flattens the row into a single object,
// {"timestamp": "...", "<key>": <value>, ...}, matching the wire shape the
// boundary layer serves.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Values)+1)
	for k, v := range r.Values {
		out[k] = v
	}
	out["timestamp"] = r.Timestamp.Format(time.RFC3339Nano)
	return json.Marshal(out)
}

// SensorMeta describes one FBG sensor from a zone's metadata table.
type SensorMeta struct {
	UID  string
	Name string // optional human-readable label; empty when unset
	Type QuantityType
}

// DisplayKey returns the key a sensor's computed value appears under in
// output records: the declared name when set, the uid otherwise.
func (m SensorMeta) DisplayKey() string {
	if m.Name != "" {
		return m.Name
	}
	return m.UID
}
