package viewlet

import (
	"sort"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/template"
	"github.com/vango-dev/viewlets/pkg/vdom"
)

const (
	// DefaultWrapper is the markup every default-rendered viewlet is
	// wrapped in. Wrappers start hidden.
	DefaultWrapper = `<div class="viewlet-wrapper" style="display:none"></div>`

	// WrapperClass is the class a container hides when switching viewlets.
	WrapperClass = "viewlet-wrapper"

	// DefaultTemplate renders the record's "viewlet" attribute.
	DefaultTemplate = `{{.viewlet}}`
)

// Attrs is what a view container passes to Render.
type Attrs struct {
	// Root is the view container's root node.
	Root *vdom.VNode

	// Model is the view container's primary model.
	Model model.Model

	// Target is the slot target node for slotted viewlets, nil otherwise.
	Target *vdom.VNode

	// Options are the container's template-render options.
	Options map[string]any
}

// RenderFunc produces a viewlet's content: a *vdom.VNode, a markup string,
// or nil after assigning v.Container directly.
type RenderFunc func(v *Viewlet, m model.Model, attrs Attrs) (any, error)

// UpdateFunc is called by the binding engine when bound data changes.
type UpdateFunc func(v *Viewlet, m model.Model)

// ConflictFunc is called when a locally edited value also changed remotely.
type ConflictFunc func(v *Viewlet, node *vdom.VNode)

// RebindFunc derives the model a viewlet binds to from the container model.
type RebindFunc func(m model.Model) model.Model

// Viewlet is one independently renderable sub-view of a record.
type Viewlet struct {
	// Name identifies the viewlet within its container.
	Name string

	// Template renders the wrapper content in the default Render.
	Template template.Source

	// Wrapper is the markup of the node Template is rendered into.
	Wrapper template.Source

	// Container is the node currently holding the rendered output.
	Container *vdom.VNode

	// Slot is the logical slot the viewlet occupies. Empty means the
	// viewlet is always rendered into the container's insertion point.
	Slot string

	// Model is the model most recently assigned by ShowViewlet.
	Model model.Model

	// Props holds configuration keys without a dedicated field.
	Props map[string]any

	RenderFunc   RenderFunc
	UpdateFunc   UpdateFunc
	ConflictFunc ConflictFunc
	RebindFunc   RebindFunc

	engine  template.Engine
	pinned  map[string]bool
	changed map[string]struct{}
}

// New returns a viewlet with the default behavior.
func New(name string) *Viewlet {
	return &Viewlet{
		Name:     name,
		Template: template.Text(DefaultTemplate),
		Wrapper:  template.Text(DefaultWrapper),
		Props:    make(map[string]any),
		pinned:   make(map[string]bool),
		changed:  make(map[string]struct{}),
	}
}

// Render produces the viewlet's content for m.
func (v *Viewlet) Render(m model.Model, attrs Attrs) (any, error) {
	if v.RenderFunc != nil {
		return v.RenderFunc(v, m, attrs)
	}
	return nil, v.DefaultRender(m)
}

// DefaultRender creates a hidden wrapper node, compiles the template if it
// is still source text, and fills the wrapper with the template rendered
// over m's attributes. The wrapper replaces any previous Container.
func (v *Viewlet) DefaultRender(m model.Model) error {
	wrapper, err := v.renderWrapper()
	if err != nil {
		return err
	}

	tmpl, err := v.compiled("template", &v.Template)
	if err != nil {
		return errors.FromError(err, "V030").WithSubject(v.Name)
	}

	var data map[string]any
	if m != nil {
		data = m.Attrs()
	}
	markup, err := tmpl.Execute(data)
	if err != nil {
		return errors.New("V031").WithSubject(v.Name).Wrap(err)
	}
	if err := wrapper.SetHTML(markup); err != nil {
		return errors.New("V031").WithSubject(v.Name).Wrap(err)
	}

	v.replaceContainer(wrapper)
	return nil
}

// renderWrapper builds a fresh wrapper node.
func (v *Viewlet) renderWrapper() (*vdom.VNode, error) {
	tmpl, err := v.compiled("templateWrapper", &v.Wrapper)
	if err != nil {
		return nil, errors.FromError(err, "V030").WithSubject(v.Name)
	}
	markup, err := tmpl.Execute(nil)
	if err != nil {
		return nil, errors.New("V031").WithSubject(v.Name).Wrap(err)
	}
	node, err := vdom.Parse(markup)
	if err != nil {
		return nil, errors.New("V031").WithSubject(v.Name).Wrap(err)
	}
	return node, nil
}

// compiled compiles src, caching the result in place unless key is pinned.
func (v *Viewlet) compiled(key string, src *template.Source) (template.Template, error) {
	tmpl, err := src.Compile(v.engine)
	if err != nil {
		return nil, err
	}
	if !src.IsCompiled() && !v.pinned[key] {
		*src = template.Compiled(tmpl)
	}
	return tmpl, nil
}

// SetContainer makes node the viewlet's container. A previous container
// that is attached somewhere is replaced in place so re-rendering never
// leaves two live nodes behind.
func (v *Viewlet) SetContainer(node *vdom.VNode) {
	v.replaceContainer(node)
}

func (v *Viewlet) replaceContainer(node *vdom.VNode) {
	old := v.Container
	v.Container = node
	if old == nil || old == node || node == nil {
		return
	}
	parent := old.Parent()
	if parent == nil {
		return
	}
	children := make([]*vdom.VNode, 0, len(parent.Children))
	for _, c := range parent.Children {
		if c == old {
			children = append(children, node)
			continue
		}
		children = append(children, c)
	}
	parent.SetChildren(children...)
}

// Update notifies the viewlet that bound data changed.
func (v *Viewlet) Update(m model.Model) {
	if v.UpdateFunc != nil {
		v.UpdateFunc(v, m)
	}
}

// Conflict notifies the viewlet that node was edited locally while its
// value also changed remotely.
func (v *Viewlet) Conflict(node *vdom.VNode) {
	if v.ConflictFunc != nil {
		v.ConflictFunc(v, node)
	}
}

// HasRebind reports whether the viewlet binds to a derived model.
func (v *Viewlet) HasRebind() bool {
	return v.RebindFunc != nil
}

// Rebind returns the model the viewlet should bind to for m.
func (v *Viewlet) Rebind(m model.Model) model.Model {
	if v.RebindFunc == nil {
		return m
	}
	return v.RebindFunc(m)
}

// Remove detaches the viewlet's container from wherever it is mounted.
func (v *Viewlet) Remove() {
	v.Container.Remove()
}

// Visible reports whether the viewlet's container is mounted and shown.
func (v *Viewlet) Visible() bool {
	return v.Container.Attached() && v.Container.Visible()
}

// Prop returns a configuration value without a dedicated field.
func (v *Viewlet) Prop(key string) (any, bool) {
	val, ok := v.Props[key]
	return val, ok
}

// Pinned reports whether key was configured as non-writable.
func (v *Viewlet) Pinned(key string) bool {
	return v.pinned[key]
}

// MarkChanged records that the node bound to key was edited locally.
func (v *Viewlet) MarkChanged(key string) {
	if v.changed == nil {
		v.changed = make(map[string]struct{})
	}
	v.changed[key] = struct{}{}
}

// ClearChanged forgets local edits for keys, or for every key if none are
// given.
func (v *Viewlet) ClearChanged(keys ...string) {
	if len(keys) == 0 {
		v.changed = make(map[string]struct{})
		return
	}
	for _, k := range keys {
		delete(v.changed, k)
	}
}

// Changed reports whether key has an unreconciled local edit.
func (v *Viewlet) Changed(key string) bool {
	_, ok := v.changed[key]
	return ok
}

// ChangedKeys returns the keys with unreconciled local edits, sorted.
func (v *Viewlet) ChangedKeys() []string {
	keys := make([]string, 0, len(v.changed))
	for k := range v.changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
