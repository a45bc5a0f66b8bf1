package domain

import "testing"

func TestTimeToSlot_BusinessWindows(t *testing.T) {
	cases := []struct {
		time string
		slot Slot
	}{
		{"08:00", 8},
		{"08:59", 8},
		{"09:30", 9},
		{"10:00", 10},
		{"11:59", 11},
		{"13:00", 13},
		{"14:00", 14},
		{"14:59", 14},
		{"16:00", 16},
		{"16:59", 16},
	}
	for _, tc := range cases {
		slot, ok := TimeToSlot(tc.time)
		if !ok {
			t.Fatalf("TimeToSlot(%q) returned no slot", tc.time)
		}
		if slot != tc.slot {
			t.Fatalf("TimeToSlot(%q) = %d, want %d", tc.time, slot, tc.slot)
		}
	}
}

func TestTimeToSlot_OutsideWindows(t *testing.T) {
	for _, in := range []string{"12:30", "12:00", "07:59", "17:00", "00:00", "23:59"} {
		if slot, ok := TimeToSlot(in); ok {
			t.Fatalf("TimeToSlot(%q) = %d, want no slot", in, slot)
		}
	}
}

func TestTimeToSlot_Malformed(t *testing.T) {
	for _, in := range []string{"", "9:00", "09:0", "0900", "09-00", "ab:cd", "24:00", "09:60", "09:00:00"} {
		if slot, ok := TimeToSlot(in); ok {
			t.Fatalf("TimeToSlot(%q) = %d, want no slot", in, slot)
		}
	}
}

// The published schedule lists 15:00–16:00 under both slot 14 and slot 15.
// First match wins, so 15:xx times resolve to slot 14. This test pins that
// resolution; a change here is a behavioural change for booked appointments.
func TestTimeToSlot_DuplicateWindowResolution(t *testing.T) {
	for _, in := range []string{"15:00", "15:30", "15:59"} {
		slot, ok := TimeToSlot(in)
		if !ok {
			t.Fatalf("TimeToSlot(%q) returned no slot", in)
		}
		if slot != 14 {
			t.Fatalf("TimeToSlot(%q) = %d, want 14 (first published window wins)", in, slot)
		}
	}

	// Slot 15 stays addressable directly even though no time maps to it.
	window, ok := SlotToTime(15)
	if !ok || window != "15:00 - 16:00" {
		t.Fatalf("SlotToTime(15) = %q, %v, want \"15:00 - 16:00\", true", window, ok)
	}
}

func TestSlotToTime_RoundTrip(t *testing.T) {
	// Every non-ambiguous window round-trips to its display range.
	cases := []struct {
		time   string
		window string
	}{
		{"08:15", "08:00 - 09:00"},
		{"09:15", "09:00 - 10:00"},
		{"10:15", "10:00 - 11:00"},
		{"11:15", "11:00 - 12:00"},
		{"13:15", "13:00 - 14:00"},
		{"14:15", "14:00 - 15:00"},
		{"16:15", "16:00 - 17:00"},
	}
	for _, tc := range cases {
		slot, ok := TimeToSlot(tc.time)
		if !ok {
			t.Fatalf("TimeToSlot(%q) returned no slot", tc.time)
		}
		window, ok := SlotToTime(slot)
		if !ok {
			t.Fatalf("SlotToTime(%d) returned no window", slot)
		}
		if window != tc.window {
			t.Fatalf("SlotToTime(TimeToSlot(%q)) = %q, want %q", tc.time, window, tc.window)
		}
	}
}

func TestSlotToTime_UnknownSlot(t *testing.T) {
	for _, s := range []Slot{0, 7, 12, 17, -1} {
		if window, ok := SlotToTime(s); ok {
			t.Fatalf("SlotToTime(%d) = %q, want no window", s, window)
		}
	}
}

func TestSlots_DistinctAndOrdered(t *testing.T) {
	want := []Slot{8, 9, 10, 11, 13, 14, 15, 16}
	got := Slots()
	if len(got) != len(want) {
		t.Fatalf("Slots() returned %d slots, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Slots()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
