package binding

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vango-dev/viewlets/pkg/metrics"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/vdom"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

// BindAttr is the attribute that ties a node to a model key.
const BindAttr = "data-bind"

// Dispatcher runs a change delivery.
type Dispatcher func(fn func())

// Inline runs fn immediately.
func Inline(fn func()) { fn() }

// Option configures an Engine.
type Option func(*Engine)

// WithDispatcher routes change deliveries through d.
func WithDispatcher(d Dispatcher) Option {
	return func(e *Engine) {
		if d != nil {
			e.dispatch = d
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics records bindings, updates and conflicts in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// OnChange registers fn to run after a binding has processed a change.
func OnChange(fn func(b *Binding, c model.Change)) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// Engine tracks the live binding of each viewlet.
// It is not safe for concurrent use.
type Engine struct {
	bindings map[string]*Binding
	dispatch Dispatcher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	onChange func(*Binding, model.Change)
}

// NewEngine creates an engine with no bindings.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		bindings: make(map[string]*Binding),
		dispatch: Inline,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bind starts syncing v with m, or with v.Rebind(m) when the viewlet
// derives its own model. An existing binding for the same viewlet name is
// released first. A nil model yields a binding that never fires.
func (e *Engine) Bind(m model.Model, v *viewlet.Viewlet) *Binding {
	if old, ok := e.bindings[v.Name]; ok {
		old.Unbind()
	}

	target := v.Rebind(m)
	b := &Binding{engine: e, viewlet: v, model: target}
	if target != nil {
		b.cancel = target.Subscribe(func(c model.Change) {
			e.dispatch(func() { b.apply(c) })
		})
	}
	e.bindings[v.Name] = b
	e.metrics.RecordBind()
	e.logger.Debug("viewlet bound", "viewlet", v.Name, "rebound", v.HasRebind())
	return b
}

// Viewlet returns the live binding for the named viewlet, or nil.
func (e *Engine) Viewlet(name string) *Binding {
	return e.bindings[name]
}

// Bindings returns every live binding ordered by viewlet name.
func (e *Engine) Bindings() []*Binding {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*Binding, 0, len(names))
	for _, name := range names {
		out = append(out, e.bindings[name])
	}
	return out
}

// Len returns the number of live bindings.
func (e *Engine) Len() int {
	return len(e.bindings)
}

// Unbind releases every binding. Containers stay where they are.
func (e *Engine) Unbind() {
	for _, b := range e.Bindings() {
		b.Unbind()
	}
}

// Binding is the live link between one viewlet and its model.
type Binding struct {
	engine  *Engine
	viewlet *viewlet.Viewlet
	model   model.Model
	cancel  func()
	done    bool
}

// Viewlet returns the bound viewlet.
func (b *Binding) Viewlet() *viewlet.Viewlet { return b.viewlet }

// Model returns the model the binding listens to.
func (b *Binding) Model() model.Model { return b.model }

// Active reports whether the binding still delivers changes.
func (b *Binding) Active() bool { return !b.done }

// Unbind stops change delivery and forgets the binding.
func (b *Binding) Unbind() {
	if b.done {
		return
	}
	b.done = true
	if b.cancel != nil {
		b.cancel()
	}
	if b.engine.bindings[b.viewlet.Name] == b {
		delete(b.engine.bindings, b.viewlet.Name)
	}
	b.engine.metrics.RecordUnbind()
	b.engine.logger.Debug("viewlet unbound", "viewlet", b.viewlet.Name)
}

// Remove unbinds and detaches the viewlet's container from the tree.
func (b *Binding) Remove() {
	b.Unbind()
	b.viewlet.Remove()
}

// apply reconciles one change with the viewlet's nodes.
func (b *Binding) apply(c model.Change) {
	if b.done {
		return
	}
	v := b.viewlet
	e := b.engine

	for _, key := range c.Keys() {
		nodes := BoundNodes(v.Container, key)
		if v.Changed(key) {
			e.logger.Debug("bound value conflict", "viewlet", v.Name, "key", key)
			e.metrics.RecordConflict(v.Name)
			if len(nodes) == 0 {
				v.Conflict(nil)
			}
			for _, n := range nodes {
				v.Conflict(n)
			}
			continue
		}
		for _, n := range nodes {
			SetBoundValue(n, c.Changed[key].Next)
		}
	}

	v.Update(b.model)
	e.metrics.RecordUpdate(v.Name)

	if e.onChange != nil {
		e.onChange(b, c)
	}
}

// BoundNodes returns root and its descendants bound to key.
func BoundNodes(root *vdom.VNode, key string) []*vdom.VNode {
	var out []*vdom.VNode
	root.Walk(func(n *vdom.VNode) bool {
		if n.Kind == vdom.KindElement && n.Attr(BindAttr) == key {
			out = append(out, n)
		}
		return true
	})
	return out
}

// SetBoundValue writes val into n: the value attribute for form fields,
// the text content otherwise.
func SetBoundValue(n *vdom.VNode, val any) {
	s := ""
	if val != nil {
		s = fmt.Sprint(val)
	}
	switch n.Tag {
	case "input", "textarea", "select":
		n.SetAttr("value", s)
	default:
		n.SetChildren(vdom.Text(s))
	}
}
