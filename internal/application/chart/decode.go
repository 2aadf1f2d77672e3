package chart

// decodeLongitude extracts an ecliptic longitude from a raw oracle result.
// Backends disagree on shape: some return a bare number, some a position
// vector whose first element is the longitude, some a vector-plus-flags pair
// whose first element is itself the vector. The first numeric found by that
// descent wins; anything else is undecodable and the body stays unresolved.
func decodeLongitude(res any) (float64, bool) {
	return decodeAt(res, 0)
}

func decodeAt(res any, depth int) (float64, bool) {
	if depth > 2 {
		return 0, false
	}
	switch v := res.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case []float64:
		if len(v) > 0 {
			return v[0], true
		}
	case [3]float64:
		return v[0], true
	case [][]float64:
		if len(v) > 0 && len(v[0]) > 0 {
			return v[0][0], true
		}
	case []any:
		if len(v) > 0 {
			return decodeAt(v[0], depth+1)
		}
	}
	return 0, false
}
