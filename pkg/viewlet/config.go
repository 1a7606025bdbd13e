package viewlet

import "sort"

// Descriptor is an override in its expanded form.
// A non-writable descriptor pins the field: the viewlet never replaces it
// (for example with a compiled template).
type Descriptor struct {
	Value    any
	Writable bool
}

// Overrides holds one viewlet's configuration. Each value is either a bare
// override or a Descriptor.
type Overrides map[string]any

// Config maps viewlet names to their overrides.
type Config map[string]Overrides

// Expand wraps every bare override in a writable Descriptor. Entries that
// are already descriptors are left untouched, so Expand is idempotent.
// It mutates c in place and returns it.
func (c Config) Expand() Config {
	for _, o := range c {
		o.Expand()
	}
	return c
}

// Names returns the configured viewlet names in sorted order.
func (c Config) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Expand wraps every bare override in a writable Descriptor.
func (o Overrides) Expand() Overrides {
	for key, val := range o {
		if isDescriptor(val) {
			continue
		}
		o[key] = Descriptor{Value: val, Writable: true}
	}
	return o
}

// isDescriptor reports whether v is already in descriptor form. Maps with
// a "value" key, as decoded from layout files, count as descriptors.
func isDescriptor(v any) bool {
	switch d := v.(type) {
	case Descriptor, *Descriptor:
		return true
	case map[string]any:
		_, ok := d["value"]
		return ok
	}
	return false
}

// DescriptorOf returns v in descriptor form without modifying it.
// Decoded maps without a "writable" key are read-only.
func DescriptorOf(v any) Descriptor {
	switch d := v.(type) {
	case Descriptor:
		return d
	case *Descriptor:
		if d == nil {
			return Descriptor{Writable: true}
		}
		return *d
	case map[string]any:
		if val, ok := d["value"]; ok {
			writable, _ := d["writable"].(bool)
			return Descriptor{Value: val, Writable: writable}
		}
	}
	return Descriptor{Value: v, Writable: true}
}
