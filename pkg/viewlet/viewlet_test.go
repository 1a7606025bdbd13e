package viewlet

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/render"
	"github.com/vango-dev/viewlets/pkg/template"
	"github.com/vango-dev/viewlets/pkg/vdom"
)

func newRecord() *model.Record {
	return model.NewRecord("cs:precise/wordpress-15", map[string]any{
		"name":     "wordpress",
		"viewlet":  "default body",
		"revision": 15,
	})
}

func TestDefaultRender(t *testing.T) {
	v := New("details")
	v.Template = template.Text(`<span data-bind="name">{{.name}}</span>`)

	res, err := v.Render(newRecord(), Attrs{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res != nil {
		t.Errorf("default Render should return nil, got %v", res)
	}
	if v.Container == nil || !v.Container.HasClass(WrapperClass) {
		t.Fatalf("container should be the wrapper, got %v", v.Container)
	}
	if v.Container.Visible() {
		t.Error("wrapper should start hidden")
	}
	want := `<div class="viewlet-wrapper" style="display:none"><span data-bind="name">wordpress</span></div>`
	if got := render.HTML(v.Container); got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
}

func TestDefaultTemplateRendersViewletAttr(t *testing.T) {
	v := New("x")
	if _, err := v.Render(newRecord(), Attrs{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := v.Container.TextContent(); got != "default body" {
		t.Errorf("TextContent() = %q, want %q", got, "default body")
	}
}

func TestTemplateCompiledOnce(t *testing.T) {
	engine := template.NewHTMLEngine()
	v, err := Build("details", Overrides{"template": "<p>{{.name}}</p>"}, engine)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := v.Render(newRecord(), Attrs{}); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	// wrapper + template, each once
	if got := engine.Compiled(); got != 2 {
		t.Errorf("Compiled() = %d, want 2", got)
	}
	if !v.Template.IsCompiled() {
		t.Error("template should be cached in compiled form")
	}
}

func TestPinnedTemplateRecompiles(t *testing.T) {
	engine := template.NewHTMLEngine()
	v, err := Build("details", Overrides{
		"template": Descriptor{Value: "<p>{{.name}}</p>", Writable: false},
	}, engine)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !v.Pinned("template") {
		t.Fatal("template should be pinned")
	}

	for i := 0; i < 2; i++ {
		if _, err := v.Render(newRecord(), Attrs{}); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	if v.Template.IsCompiled() {
		t.Error("pinned template should keep its source form")
	}
	// template twice, wrapper once
	if got := engine.Compiled(); got != 3 {
		t.Errorf("Compiled() = %d, want 3", got)
	}
}

func TestRerenderReplacesContainer(t *testing.T) {
	v := New("details")
	parent := vdom.Div()

	if _, err := v.Render(newRecord(), Attrs{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	parent.AppendChild(v.Container)
	first := v.Container

	if _, err := v.Render(newRecord(), Attrs{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(parent.Children) != 1 {
		t.Fatalf("parent has %d children, want 1", len(parent.Children))
	}
	if parent.Children[0] != v.Container || first.Attached() {
		t.Error("re-render should replace the previous container in place")
	}
}

func TestRenderOverride(t *testing.T) {
	var gotAttrs Attrs
	root := vdom.Div()
	v, err := Build("settings", Overrides{
		"render": func(v *Viewlet, m model.Model, attrs Attrs) (any, error) {
			gotAttrs = attrs
			return "<section>" + m.Get("name").(string) + "</section>", nil
		},
	}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	res, err := v.Render(newRecord(), Attrs{Root: root})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res != "<section>wordpress</section>" {
		t.Errorf("res = %v", res)
	}
	if gotAttrs.Root != root {
		t.Error("attrs should be passed through")
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		wrapper  string
		wantCode string
	}{
		{"bad template", "{{.a", "", "V030"},
		{"bad wrapper", "", "<p></p><p></p>", "V031"},
		{"bad wrapper source", "", "{{", "V030"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Overrides{}
			if tt.tmpl != "" {
				o["template"] = tt.tmpl
			}
			if tt.wrapper != "" {
				o["templateWrapper"] = tt.wrapper
			}
			v, err := Build("broken", o, nil)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			_, err = v.Render(newRecord(), Attrs{})
			if !stderrors.Is(err, errors.New(tt.wantCode)) {
				t.Errorf("err = %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestBuildAppliesOverrides(t *testing.T) {
	updated := 0
	rebound := model.NewRecord("nested", nil)
	o := Overrides{
		"slot":     "overview",
		"name":     "renamed",
		"update":   func(*Viewlet, model.Model) { updated++ },
		"conflict": ConflictFunc(func(*Viewlet, *vdom.VNode) {}),
		"rebind":   func(model.Model) model.Model { return rebound },
		"tab":      "Settings",
	}
	o.Expand()

	v, err := Build("settings", o, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if v.Slot != "overview" || v.Name != "renamed" {
		t.Errorf("slot/name = %q/%q", v.Slot, v.Name)
	}
	v.Update(nil)
	if updated != 1 {
		t.Error("update override not applied")
	}
	if !v.HasRebind() || v.Rebind(newRecord()) != model.Model(rebound) {
		t.Error("rebind override not applied")
	}
	if tab, ok := v.Prop("tab"); !ok || tab != "Settings" {
		t.Errorf("Prop(tab) = %v, %v", tab, ok)
	}
}

func TestBuildTypeErrors(t *testing.T) {
	tests := []Overrides{
		{"slot": 3},
		{"name": true},
		{"template": 1.5},
		{"render": "not a func"},
		{"update": func() {}},
		{"conflict": 1},
		{"rebind": "x"},
		{"container": 7},
	}
	for _, o := range tests {
		_, err := Build("bad", o, nil)
		if !stderrors.Is(err, errors.New("V003")) {
			t.Errorf("Build(%v) err = %v, want V003", o, err)
		}
	}
}

func TestBuildDoesNotShareState(t *testing.T) {
	a, _ := Build("a", Overrides{"slot": "x"}, nil)
	b, _ := Build("b", nil, nil)

	a.MarkChanged("name")
	a.Props["k"] = 1

	if b.Slot != "" || b.Changed("name") || len(b.Props) != 0 {
		t.Error("viewlets built from the same defaults must not share state")
	}
	if New("c").Template.String() != DefaultTemplate {
		t.Error("defaults should be intact")
	}
}

func TestChangedKeys(t *testing.T) {
	v := New("x")
	v.MarkChanged("b")
	v.MarkChanged("a")
	v.MarkChanged("c")

	if diff := cmp.Diff([]string{"a", "b", "c"}, v.ChangedKeys()); diff != "" {
		t.Errorf("ChangedKeys mismatch (-want +got):\n%s", diff)
	}
	v.ClearChanged("b")
	if v.Changed("b") || !v.Changed("a") {
		t.Error("ClearChanged(b) should only clear b")
	}
	v.ClearChanged()
	if len(v.ChangedKeys()) != 0 {
		t.Error("ClearChanged() should clear everything")
	}
}

func TestContainerFromMarkup(t *testing.T) {
	v, err := Build("x", Overrides{"container": `<div class="pre"></div>`}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !v.Container.HasClass("pre") {
		t.Errorf("container = %s", render.HTML(v.Container))
	}
	if !strings.Contains(render.HTML(v.Container), "pre") {
		t.Error("unexpected container markup")
	}
}

func TestRemoveAndVisible(t *testing.T) {
	v := New("x")
	if _, err := v.Render(newRecord(), Attrs{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	parent := vdom.Div(v.Container)
	if v.Visible() {
		t.Error("hidden wrapper should not be visible")
	}
	v.Container.Show()
	if !v.Visible() {
		t.Error("shown, attached wrapper should be visible")
	}
	v.Remove()
	if v.Visible() || len(parent.Children) != 0 {
		t.Error("removed viewlet should be detached")
	}
}
