package spatial

// base32 alphabet used by geohash
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// WaypointGeohashPrecision gives cells of roughly 5 m x 5 m
const WaypointGeohashPrecision = 9

// EncodeGeohash encodes latitude and longitude into a geohash string.
// precision is clamped to 1..12 characters.
func EncodeGeohash(lat, lon float64, precision int) string {
	if precision < 1 {
		precision = 1
	}
	if precision > 12 {
		precision = 12
	}

	latLo, latHi := -90.0, 90.0
	lonLo, lonHi := -180.0, 180.0

	hash := make([]byte, 0, precision)
	evenBit := true
	ch := 0
	bits := 0

	for len(hash) < precision {
		if evenBit {
			mid := (lonLo + lonHi) / 2
			ch <<= 1
			if lon > mid {
				ch |= 1
				lonLo = mid
			} else {
				lonHi = mid
			}
		} else {
			mid := (latLo + latHi) / 2
			ch <<= 1
			if lat > mid {
				ch |= 1
				latLo = mid
			} else {
				latHi = mid
			}
		}
		evenBit = !evenBit

		bits++
		if bits == 5 {
			hash = append(hash, base32[ch])
			bits = 0
			ch = 0
		}
	}

	return string(hash)
}
