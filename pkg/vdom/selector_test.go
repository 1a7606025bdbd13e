package vdom

import "testing"

func selectorFixture() *VNode {
	return Div(Class("view-container-wrapper"),
		Nav(Class("tabs"),
			A(Class("tab"), Data("viewlet", "details"), "Details"),
			A(Class("tab", "active"), Data("viewlet", "settings"), "Settings"),
		),
		Div(Class("viewlet-container")),
		Section(ID("overview"), Class("overview-slot")),
	)
}

func TestQuery(t *testing.T) {
	root := selectorFixture()

	tests := []struct {
		sel      string
		wantTag  string
		wantNone bool
	}{
		{sel: ".viewlet-container", wantTag: "div"},
		{sel: "#overview", wantTag: "section"},
		{sel: "section.overview-slot", wantTag: "section"},
		{sel: "nav a.active", wantTag: "a"},
		{sel: "[data-viewlet=settings]", wantTag: "a"},
		{sel: "[data-viewlet]", wantTag: "a"},
		{sel: ".missing, #overview", wantTag: "section"},
		{sel: ".missing", wantNone: true},
		{sel: "section a", wantNone: true},
		{sel: ".view-container-wrapper", wantNone: true},
		{sel: "[", wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			got := root.Query(tt.sel)
			if tt.wantNone {
				if got != nil {
					t.Errorf("Query(%q) = %s, want nil", tt.sel, got.Tag)
				}
				return
			}
			if got == nil || got.Tag != tt.wantTag {
				t.Errorf("Query(%q) = %v, want <%s>", tt.sel, got, tt.wantTag)
			}
		})
	}
}

func TestQueryAll(t *testing.T) {
	root := selectorFixture()

	tabs := root.QueryAll(".tab")
	if len(tabs) != 2 {
		t.Fatalf("len(QueryAll(.tab)) = %d, want 2", len(tabs))
	}
	if tabs[0].Data("viewlet") != "details" {
		t.Error("QueryAll should return nodes in document order")
	}
}

func TestSelectorScopeAncestor(t *testing.T) {
	root := selectorFixture()
	nav := root.Query("nav")

	// The scope node itself satisfies the leading compound.
	if got := nav.Query(".tabs a"); got == nil {
		t.Error("scope should satisfy the leading compound")
	}
	// Ancestors above the scope do not.
	if got := nav.Query(".view-container-wrapper a"); got != nil {
		t.Error("ancestors above scope should not match")
	}
}

func TestCompileSelectorErrors(t *testing.T) {
	for _, sel := range []string{"", " , ", ".", "#", "[]", "a[b"} {
		if _, err := CompileSelector(sel); err == nil {
			t.Errorf("CompileSelector(%q) should fail", sel)
		}
	}
}
