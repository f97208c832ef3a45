package model

// Preferences are the routing knobs a caller may set; only the fields that
// affect routing participate in the cache-key fingerprint (spec §4.8 step 2).
type Preferences struct {
	AvoidWalking         bool
	PreferDirect         bool
	AvoidLondon          bool
	MaxWalkingDistanceKM float64
}

// DefaultMaxWalkingDistanceKM is used whenever Preferences.MaxWalkingDistanceKM
// is left at its zero value.
const DefaultMaxWalkingDistanceKM = 1.0

// WalkingLimitKM returns MaxWalkingDistanceKM, or the default if unset.
func (p Preferences) WalkingLimitKM() float64 {
	if p.MaxWalkingDistanceKM <= 0 {
		return DefaultMaxWalkingDistanceKM
	}
	return p.MaxWalkingDistanceKM
}

// Fingerprint is a deterministic string encoding only the routing-relevant
// preference fields, used as part of the route cache key (spec §4.8).
func (p Preferences) Fingerprint() string {
	b := make([]byte, 0, 32)
	if p.AvoidWalking {
		b = append(b, 'W')
	}
	if p.PreferDirect {
		b = append(b, 'D')
	}
	if p.AvoidLondon {
		b = append(b, 'L')
	}
	b = append(b, '|')
	b = appendFloat(b, p.WalkingLimitKM())
	return string(b)
}

// appendFloat renders f with three decimal digits without pulling in
// strconv's general formatting (the fingerprint only needs stability, not
// a particular representation).
func appendFloat(b []byte, f float64) []byte {
	neg := f < 0
	if neg {
		f = -f
		b = append(b, '-')
	}
	whole := int64(f)
	frac := int64((f - float64(whole)) * 1000)
	b = appendInt(b, whole)
	b = append(b, '.')
	for _, scale := range []int64{100, 10, 1} {
		b = append(b, byte('0'+(frac/scale)%10))
	}
	return b
}

func appendInt(b []byte, v int64) []byte {
	if v == 0 {
		return append(b, '0')
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
