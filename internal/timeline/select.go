package timeline

// Selection holds the milestone the user explicitly picked. The zero value has
// no pick. Once set, the pick stays until it is replaced or cleared; nothing
// clears it automatically.
//
// A Selection has exactly one writer (the user-selection action) and is read
// on every evaluation. It is not safe for concurrent writes.
type Selection struct {
	id string
}

// Set pins the milestone with the given id. Use Timeline.Select to validate
// the id against a timeline first.
func (s *Selection) Set(id string) {
	s.id = id
}

// Clear removes the pin so the active milestone is derived again.
func (s *Selection) Clear() {
	s.id = ""
}

// ID returns the pinned milestone id, if any. A nil Selection has no pin.
func (s *Selection) ID() (string, bool) {
	if s == nil || s.id == "" {
		return "", false
	}
	return s.id, true
}

// SelectActive picks the single milestone to highlight.
//
// The first match wins:
//  1. override, when non-empty, whatever that milestone's status;
//  2. the first active milestone in order;
//  3. the first upcoming milestone in order;
//  4. the last milestone in order.
//
// ok is false only when there is no override and order is empty.
func SelectActive(states map[string]State, override string, order []string) (id string, ok bool) {
	if override != "" {
		return override, true
	}
	if len(order) == 0 {
		return "", false
	}

	firstUpcoming := ""
	for _, mid := range order {
		switch states[mid].Status {
		case StatusActive:
			return mid, true
		case StatusUpcoming:
			if firstUpcoming == "" {
				firstUpcoming = mid
			}
		}
	}
	if firstUpcoming != "" {
		return firstUpcoming, true
	}
	return order[len(order)-1], true
}
