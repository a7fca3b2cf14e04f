package fbg

import "fmt"

// Zone identifies one of the monitored structural regions of the test
// building. Each zone has its own instrumented structure: the basement raft
// and perimeter walls, the strong floor, and the steel frame.
type Zone string

const (
	ZoneBasement    Zone = "basement"
	ZoneStrongFloor Zone = "strong-floor"
	ZoneSteelFrame  Zone = "steel-frame"
)

// zoneSource names the database tables backing a zone: one wide table of raw
// readings and one table of sensor metadata.
type zoneSource struct {
	ValuesTable   string
	MetadataTable string
}

// zoneRegistry is the static zone table. Populated here once and never
// mutated, so unsynchronized concurrent reads are safe.
var zoneRegistry = map[Zone]zoneSource{
	ZoneBasement:    {ValuesTable: "basement_fbg", MetadataTable: "basement_fbg_metadata"},
	ZoneStrongFloor: {ValuesTable: "strong_floor_fbg", MetadataTable: "strong_floor_fbg_metadata"},
	ZoneSteelFrame:  {ValuesTable: "steel_frame_fbg", MetadataTable: "steel_frame_fbg_metadata"},
}

// Zones returns the monitored zones in a fixed order.
func Zones() []Zone {
	return []Zone{ZoneBasement, ZoneStrongFloor, ZoneSteelFrame}
}

// ParseZone validates a zone identifier from the boundary layer.
func ParseZone(s string) (Zone, error) {
	z := Zone(s)
	if _, ok := zoneRegistry[z]; !ok {
		return "", fmt.Errorf("unknown zone %q", s)
	}
	return z, nil
}

func (z Zone) source() (zoneSource, error) {
	src, ok := zoneRegistry[z]
	if !ok {
		return zoneSource{}, fmt.Errorf("unknown zone %q", z)
	}
	return src, nil
}
