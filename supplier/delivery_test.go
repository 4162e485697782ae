package supplier

import (
	"testing"
	"time"
)

func TestDeliveryDateTierBoundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		quantity int64
		want     string
	}{
		{10, "2025-04-01"},
		{11, "2025-04-02"},
		{100, "2025-04-02"},
		{101, "2025-04-05"},
		{1000, "2025-04-05"},
		{1001, "2025-04-08"},
	}
	for _, tc := range cases {
		est := DeliveryDate("2025-04-01", tc.quantity)
		if est.Date != tc.want {
			t.Fatalf("quantity %d: got %s, want %s", tc.quantity, est.Date, tc.want)
		}
		if est.UsedFallback {
			t.Fatalf("quantity %d: unexpected fallback", tc.quantity)
		}
	}
}

func TestDeliveryDateAcceptsTimestampInput(t *testing.T) {
	t.Parallel()

	est := DeliveryDate("2025-04-01T09:30:00", 5)
	if est.Date != "2025-04-01" || est.UsedFallback {
		t.Fatalf("unexpected estimate: %+v", est)
	}
}

func TestDeliveryDateFallbackIsFlagged(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	defer func() { now = orig }()

	est := DeliveryDate("next Tuesday", 50)
	if !est.UsedFallback {
		t.Fatal("expected fallback flag")
	}
	if est.Date != "2025-06-16" {
		t.Fatalf("unexpected fallback date: %s", est.Date)
	}
}
