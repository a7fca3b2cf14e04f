package fbg

// MetadataIndex maps sensor uid to metadata for O(1) lookup during
// calculation. It is rebuilt on every request: metadata may change between
// requests and staleness is not tolerated, so nothing here is cached.
type MetadataIndex map[string]SensorMeta

// NewMetadataIndex builds an index from metadata rows. Duplicate uids keep
// the last row seen, matching the store's fetch order.
func NewMetadataIndex(rows []SensorMeta) MetadataIndex {
	index := make(MetadataIndex, len(rows))
	for _, m := range rows {
		index[m.UID] = m
	}
	return index
}

// selectUIDs returns the uids whose indexed type equals t, in metadata fetch
// order with duplicates removed. Preserving fetch order keeps display-key
// collisions deterministic: when two selected sensors share a name, the one
// fetched later overwrites the earlier one's output field.
func selectUIDs(rows []SensorMeta, index MetadataIndex, t QuantityType) []string {
	uids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, m := range rows {
		if seen[m.UID] {
			continue
		}
		seen[m.UID] = true
		if index[m.UID].Type == t {
			uids = append(uids, m.UID)
		}
	}
	return uids
}
