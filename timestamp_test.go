package tdms

import (
	"testing"
	"time"
)

func TestTimestampAsTime(t *testing.T) {
	cases := []struct {
		name string
		ts   Timestamp
		want time.Time
	}{
		{
			name: "tdms epoch itself",
			ts:   Timestamp{Seconds: 0, SecondFractions: 0},
			want: time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "unix epoch",
			ts:   Timestamp{Seconds: 2082844800, SecondFractions: 0},
			want: time.Unix(0, 0).UTC(),
		},
		{
			name: "one second after tdms epoch",
			ts:   Timestamp{Seconds: 1, SecondFractions: 0},
			want: time.Date(1904, 1, 1, 0, 0, 1, 0, time.UTC),
		},
		{
			name: "half a second fraction",
			ts:   Timestamp{Seconds: 0, SecondFractions: fractionsPerNanosecond * 500_000_000},
			want: time.Date(1904, 1, 1, 0, 0, 0, 500_000_000, time.UTC),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.ts.AsTime()
			if !got.Equal(c.want) {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestTimestampFromTimeRoundTrips(t *testing.T) {
	want := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	ts := TimestampFromTime(want)
	got := ts.AsTime()
	if !got.Equal(want) {
		t.Fatalf("expected round trip to %s, got %s", want, got)
	}
}
