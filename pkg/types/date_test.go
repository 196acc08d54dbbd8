package types

import (
	"testing"
	"time"
)

func TestDateScanNormalizesDriverValues(t *testing.T) {
	t.Parallel()

	// Postgres DATE columns arrive as midnight time.Time values.
	asTime := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		value any
		want  Date
	}{
		{"time.Time", asTime, "2026-09-01"},
		{"rfc3339 string", "2026-09-01T00:00:00Z", "2026-09-01"},
		{"plain date string", "2026-09-01", "2026-09-01"},
		{"sqlite datetime string", "2026-09-01 00:00:00+00:00", "2026-09-01"},
		{"bytes", []byte("2026-09-01"), "2026-09-01"},
		{"nil", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d Date
			if err := d.Scan(tc.value); err != nil {
				t.Fatalf("scan: %v", err)
			}
			if d != tc.want {
				t.Fatalf("scanned %q, want %q", d, tc.want)
			}
		})
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Fatal("expected error scanning an int")
	}
}

func TestDateRoundTripsThroughValue(t *testing.T) {
	t.Parallel()

	d := DateOf(time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC))
	v, err := d.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	var back Date
	if err := back.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if back != d {
		t.Fatalf("round trip changed %q to %q", d, back)
	}

	var zero Date
	v, err = zero.Value()
	if err != nil || v != nil {
		t.Fatalf("zero date should value to nil, got %v, %v", v, err)
	}
}
