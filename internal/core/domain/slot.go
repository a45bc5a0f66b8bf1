package domain

import "fmt"

// Slot identifies a one-hour appointment window. The id is the hour the
// window was originally published under (08:00–17:00, closed 12:00–13:00).
type Slot int

type slotWindow struct {
	slot  Slot
	start int // minutes since midnight, inclusive
	end   int // minutes since midnight, exclusive
}

// slotWindows is the published clinic schedule, in display order. The
// upstream schedule lists 15:00–16:00 twice, under slot 14 and slot 15;
// lookup is first match wins, so 15:xx times resolve to slot 14 until the
// schedule is corrected. Do not reorder the entries.
var slotWindows = []slotWindow{
	{8, 8 * 60, 9 * 60},
	{9, 9 * 60, 10 * 60},
	{10, 10 * 60, 11 * 60},
	{11, 11 * 60, 12 * 60},
	{13, 13 * 60, 14 * 60},
	{14, 14 * 60, 15 * 60},
	{14, 15 * 60, 16 * 60},
	{15, 15 * 60, 16 * 60},
	{16, 16 * 60, 17 * 60},
}

// Slots returns the distinct bookable slot ids in schedule order.
func Slots() []Slot {
	seen := make(map[Slot]struct{}, len(slotWindows))
	out := make([]Slot, 0, len(slotWindows))
	for _, w := range slotWindows {
		if _, dup := seen[w.slot]; dup {
			continue
		}
		seen[w.slot] = struct{}{}
		out = append(out, w.slot)
	}
	return out
}

// Valid reports whether s is a defined slot id.
func (s Slot) Valid() bool {
	for _, w := range slotWindows {
		if w.slot == s {
			return true
		}
	}
	return false
}

// TimeToSlot maps a wall-clock "HH:MM" string to its slot. Windows are
// half-open [start, end); times outside business hours, inside the midday
// break, or malformed return ok=false.
func TimeToSlot(t string) (Slot, bool) {
	mins, ok := parseClock(t)
	if !ok {
		return 0, false
	}
	for _, w := range slotWindows {
		if mins >= w.start && mins < w.end {
			return w.slot, true
		}
	}
	return 0, false
}

// SlotToTime returns the display range for a slot id, e.g. "09:00 - 10:00".
// First matching window wins, mirroring TimeToSlot.
func SlotToTime(s Slot) (string, bool) {
	for _, w := range slotWindows {
		if w.slot == s {
			return fmt.Sprintf("%s - %s", formatClock(w.start), formatClock(w.end)), true
		}
	}
	return "", false
}

// parseClock parses a strict "HH:MM" string into minutes since midnight.
func parseClock(t string) (int, bool) {
	if len(t) != 5 || t[2] != ':' {
		return 0, false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if t[i] < '0' || t[i] > '9' {
			return 0, false
		}
	}
	h := int(t[0]-'0')*10 + int(t[1]-'0')
	m := int(t[3]-'0')*10 + int(t[4]-'0')
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func formatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
