package viewlet

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpandWrapsPlainValues(t *testing.T) {
	cfg := Config{
		"settings": {"slot": "x"},
	}
	cfg.Expand()

	want := Descriptor{Value: "x", Writable: true}
	if diff := cmp.Diff(want, cfg["settings"]["slot"]); diff != "" {
		t.Errorf("expanded slot mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandIsIdempotent(t *testing.T) {
	raw := func() Config {
		return Config{
			"details":  {"template": "<p>{{.name}}</p>", "tab": 1},
			"settings": {"slot": "overview"},
			"pinned":   {"template": Descriptor{Value: "<p></p>", Writable: false}},
			"decoded":  {"slot": map[string]any{"value": "side", "writable": true}},
		}
	}

	once := raw().Expand()
	twice := raw().Expand().Expand()

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("Expand twice differs from once (-once +twice):\n%s", diff)
	}
}

func TestExpandLeavesDescriptorsUntouched(t *testing.T) {
	pinned := Descriptor{Value: "<p></p>", Writable: false}
	ptr := &Descriptor{Value: "a", Writable: true}
	decoded := map[string]any{"value": "side"}

	cfg := Config{"v": {"template": pinned, "name": ptr, "slot": decoded}}
	cfg.Expand()

	if got := cfg["v"]["template"]; got != pinned {
		t.Errorf("descriptor rewritten: %#v", got)
	}
	if got := cfg["v"]["name"]; got != ptr {
		t.Errorf("descriptor pointer rewritten: %#v", got)
	}
	if diff := cmp.Diff(decoded, cfg["v"]["slot"]); diff != "" {
		t.Errorf("decoded descriptor rewritten (-want +got):\n%s", diff)
	}
}

func TestExpandOnlyMutatesGivenConfig(t *testing.T) {
	a := Config{"v": {"slot": "x"}}
	b := Config{"v": {"slot": "x"}}
	a.Expand()

	if _, ok := b["v"]["slot"].(string); !ok {
		t.Error("expanding one config should not affect another")
	}
}

func TestDescriptorOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Descriptor
	}{
		{"plain", "x", Descriptor{Value: "x", Writable: true}},
		{"descriptor", Descriptor{Value: 1}, Descriptor{Value: 1}},
		{"pointer", &Descriptor{Value: 2, Writable: true}, Descriptor{Value: 2, Writable: true}},
		{"nil pointer", (*Descriptor)(nil), Descriptor{Writable: true}},
		{"decoded without writable", map[string]any{"value": "s"}, Descriptor{Value: "s"}},
		{"map without value", map[string]any{"a": 1}, Descriptor{Value: map[string]any{"a": 1}, Writable: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DescriptorOf(tt.in)); diff != "" {
				t.Errorf("DescriptorOf mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigNames(t *testing.T) {
	cfg := Config{"b": nil, "a": nil, "c": nil}
	if diff := cmp.Diff([]string{"a", "b", "c"}, cfg.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}
