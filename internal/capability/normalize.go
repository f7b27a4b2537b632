package capability

// Normalize maps raw feature attributes through a field translation table
// into the capability's stable output keys. Fields missing from attrs map to
// nil; raw fields absent from the table are dropped, so the output key set
// depends only on the table. A nil attrs means no feature matched and
// returns nil so the caller can substitute capability defaults.
func Normalize(attrs map[string]any, fieldMap map[string]string) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(fieldMap))
	for field, key := range fieldMap {
		if v, ok := attrs[field]; ok {
			out[key] = v
		} else {
			out[key] = nil
		}
	}
	return out
}
