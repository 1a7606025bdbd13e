package container

import "sort"

// SlotRegistry maps slot names to target selectors and tracks which
// viewlet currently occupies each slot.
type SlotRegistry struct {
	targets   map[string]string
	occupants map[string]string
}

// NewSlotRegistry creates a registry for the given slot map. The map is
// copied.
func NewSlotRegistry(targets map[string]string) *SlotRegistry {
	r := &SlotRegistry{
		targets:   make(map[string]string, len(targets)),
		occupants: make(map[string]string),
	}
	for slot, sel := range targets {
		r.targets[slot] = sel
	}
	return r
}

// Target returns the selector registered for slot.
func (r *SlotRegistry) Target(slot string) (string, bool) {
	sel, ok := r.targets[slot]
	return sel, ok
}

// Occupant returns the name of the viewlet in slot, or "".
func (r *SlotRegistry) Occupant(slot string) string {
	return r.occupants[slot]
}

// Fill records name as the occupant of slot.
func (r *SlotRegistry) Fill(slot, name string) {
	r.occupants[slot] = name
}

// Vacate clears the occupant of slot.
func (r *SlotRegistry) Vacate(slot string) {
	delete(r.occupants, slot)
}

// Occupants returns a copy of the slot to occupant map.
func (r *SlotRegistry) Occupants() map[string]string {
	out := make(map[string]string, len(r.occupants))
	for slot, name := range r.occupants {
		out[slot] = name
	}
	return out
}

// Names returns the registered slot names, sorted.
func (r *SlotRegistry) Names() []string {
	names := make([]string, 0, len(r.targets))
	for slot := range r.targets {
		names = append(names, slot)
	}
	sort.Strings(names)
	return names
}

// Reset vacates every slot.
func (r *SlotRegistry) Reset() {
	r.occupants = make(map[string]string)
}
