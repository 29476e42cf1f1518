package tdms

import "time"

// tdmsEpoch is 1904-01-01T00:00:00 UTC expressed as a Unix timestamp.
const tdmsEpoch int64 = -2_082_844_800

// fractionsPerNanosecond is 2^64 / 10^9, truncated, the number of
// second_fractions units in one nanosecond.
const fractionsPerNanosecond uint64 = 18_446_744_073

// Timestamp is a TDMS timestamp: whole seconds since the TDMS epoch plus a
// sub-second fraction expressed in units of 2^-64 seconds. Converting to
// time.Time truncates the sub-nanosecond digits of the fraction.
type Timestamp struct {
	Seconds        int64
	SecondFractions uint64
}

// AsTime converts the timestamp to a time.Time in UTC. The conversion is
// lossy below one nanosecond and can only fail to round-trip if Seconds
// overflows what time.Time can represent, which this implementation does not
// guard against: the int64 seconds arithmetic wraps silently instead of
// reporting an error.
func (t Timestamp) AsTime() time.Time {
	nanos := int64(t.SecondFractions / fractionsPerNanosecond)
	return time.Unix(tdmsEpoch+t.Seconds, nanos).UTC()
}

// TimestampFromTime converts a time.Time to a Timestamp. This is provided for
// symmetry with AsTime and for use in tests; the reader itself never
// constructs a Timestamp this way.
func TimestampFromTime(t time.Time) Timestamp {
	utc := t.UTC()
	seconds := utc.Unix() - tdmsEpoch
	fractions := uint64(utc.Nanosecond()) * fractionsPerNanosecond
	return Timestamp{Seconds: seconds, SecondFractions: fractions}
}
