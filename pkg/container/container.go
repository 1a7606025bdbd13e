package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/binding"
	"github.com/vango-dev/viewlets/pkg/metrics"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/template"
	"github.com/vango-dev/viewlets/pkg/vdom"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

const (
	// DefaultTemplate is the main template used when Config.Template is unset.
	DefaultTemplate = `<div class="view-container-wrapper"><div class="viewlet-container"></div></div>`

	// DefaultViewletContainer is where non-slotted viewlets are appended.
	DefaultViewletContainer = ".viewlet-container"
)

// Sentinel errors, matched with errors.Is by code.
var (
	ErrNoViewlets      = errors.New("V001")
	ErrNoModel         = errors.New("V002")
	ErrViewletNotFound = errors.New("V020")
	ErrNotRendered     = errors.New("V040")
	ErrDestroyed       = errors.New("V041")
)

// Config describes a view container.
type Config struct {
	// Viewlets maps viewlet names to their overrides. The map is expanded
	// in place.
	Viewlets viewlet.Config

	// Template is the main template: markup text, a template.Source, or a
	// compiled template.Template. Defaults to DefaultTemplate.
	Template any

	// TemplateData is passed to the main template and to every viewlet
	// render as Attrs.Options.
	TemplateData map[string]any

	// ViewletContainer selects the node non-slotted viewlets are appended
	// to. Defaults to DefaultViewletContainer.
	ViewletContainer string

	// Events maps a selector to event handlers by event type.
	Events map[string]map[string]EventHandler

	// Slots maps slot names to target selectors under the root.
	Slots map[string]string

	// Model is the record the container renders. Required.
	Model model.Model

	// Root is the node the container renders into. A fresh div is used
	// when nil.
	Root *vdom.VNode

	// Order is the order non-slotted viewlets are rendered in. Viewlets
	// not listed follow in name order.
	Order []string

	// Engine compiles templates. Defaults to template.Default.
	Engine template.Engine

	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Tracer  trace.Tracer

	// Dispatch routes model change deliveries; see binding.Dispatcher.
	Dispatch binding.Dispatcher

	// OnChange runs after a bound viewlet has processed a change.
	OnChange func(b *binding.Binding, c model.Change)
}

// Container renders a record as a set of viewlets.
type Container struct {
	id        string
	model     model.Model
	root      *vdom.VNode
	template  template.Source
	data      map[string]any
	insertSel string
	engine    template.Engine
	viewlets  map[string]*viewlet.Viewlet
	order     []string
	slots     *SlotRegistry
	bindings  *binding.Engine
	events    map[string]delegate
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer

	rendered  bool
	destroyed bool
}

// New builds a container and its viewlets. Nothing is rendered yet.
func New(cfg Config) (*Container, error) {
	if len(cfg.Viewlets) == 0 {
		return nil, ErrNoViewlets
	}
	if cfg.Model == nil {
		return nil, ErrNoModel
	}

	c := &Container{
		id:        uuid.NewString(),
		model:     cfg.Model,
		root:      cfg.Root,
		data:      cfg.TemplateData,
		insertSel: cfg.ViewletContainer,
		engine:    cfg.Engine,
		viewlets:  make(map[string]*viewlet.Viewlet, len(cfg.Viewlets)),
		slots:     NewSlotRegistry(cfg.Slots),
		events:    make(map[string]delegate, len(cfg.Events)),
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		tracer:    cfg.Tracer,
	}
	if c.root == nil {
		c.root = vdom.Div()
	}
	if c.insertSel == "" {
		c.insertSel = DefaultViewletContainer
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("container", c.id)
	if c.tracer == nil {
		c.tracer = defaultTracer()
	}

	if cfg.Template == nil {
		c.template = template.Text(DefaultTemplate)
	} else {
		src, ok := template.From(cfg.Template)
		if !ok {
			return nil, errors.New("V006").WithDetail(fmt.Sprintf("got %T", cfg.Template))
		}
		c.template = src
	}

	cfg.Viewlets.Expand()
	owners := make(map[string]string, len(cfg.Viewlets))
	for _, name := range cfg.Viewlets.Names() {
		v, err := viewlet.Build(name, cfg.Viewlets[name], cfg.Engine)
		if err != nil {
			return nil, err
		}
		if v.Name == "" {
			v.Name = name
		}
		if other, dup := owners[v.Name]; dup {
			return nil, errors.New("V008").
				WithSubject(v.Name).
				WithDetail(fmt.Sprintf("viewlets %q and %q share the name %q", other, name, v.Name))
		}
		owners[v.Name] = name
		c.viewlets[name] = v
	}

	order, err := renderOrder(cfg.Order, cfg.Viewlets.Names(), c.viewlets)
	if err != nil {
		return nil, err
	}
	c.order = order

	for sel, handlers := range cfg.Events {
		s, err := vdom.CompileSelector(sel)
		if err != nil {
			return nil, err
		}
		c.events[sel] = delegate{selector: s, handlers: handlers}
	}

	c.bindings = binding.NewEngine(
		binding.WithDispatcher(cfg.Dispatch),
		binding.WithLogger(c.logger),
		binding.WithMetrics(cfg.Metrics),
		binding.OnChange(cfg.OnChange),
	)

	c.logger.Debug("view container built", "viewlets", len(c.viewlets), "slots", len(cfg.Slots))
	return c, nil
}

// renderOrder lists every viewlet once: the explicit order first, then
// the remaining names sorted.
func renderOrder(explicit, names []string, viewlets map[string]*viewlet.Viewlet) ([]string, error) {
	seen := make(map[string]bool, len(names))
	order := make([]string, 0, len(names))
	for _, name := range explicit {
		if _, ok := viewlets[name]; !ok {
			return nil, errors.New("V007").WithSubject(name).WithSuggestion(suggest(name, names))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	for _, name := range names {
		if !seen[name] {
			order = append(order, name)
		}
	}
	return order, nil
}

// ID returns the container's unique id.
func (c *Container) ID() string { return c.id }

// Root returns the node the container renders into.
func (c *Container) Root() *vdom.VNode { return c.root }

// Model returns the primary model.
func (c *Container) Model() model.Model { return c.model }

// Slots returns the slot registry.
func (c *Container) Slots() *SlotRegistry { return c.slots }

// Bindings returns the container's binding engine.
func (c *Container) Bindings() *binding.Engine { return c.bindings }

// Rendered reports whether Render has completed.
func (c *Container) Rendered() bool { return c.rendered }

// Destroyed reports whether Destroy has run.
func (c *Container) Destroyed() bool { return c.destroyed }

// Name returns the primary model's id attribute, or "" if it has none.
func (c *Container) Name() string {
	id := c.model.Get(model.IDAttr)
	if id == nil {
		return ""
	}
	return fmt.Sprint(id)
}

// Viewlet returns the viewlet configured under name, or nil.
func (c *Container) Viewlet(name string) *viewlet.Viewlet {
	return c.viewlets[name]
}

// named returns the viewlet whose effective name is name, or nil.
func (c *Container) named(name string) *viewlet.Viewlet {
	for _, v := range c.viewlets {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Viewlets returns every viewlet in render order.
func (c *Container) Viewlets() []*viewlet.Viewlet {
	out := make([]*viewlet.Viewlet, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.viewlets[name])
	}
	return out
}

// Names returns the viewlet names in render order.
func (c *Container) Names() []string {
	return append([]string(nil), c.order...)
}

// Destroy unbinds every viewlet and removes and tears down the root
// subtree. The container is inert afterwards.
func (c *Container) Destroy(ctx context.Context) error {
	if c.destroyed {
		return ErrDestroyed
	}
	_, span := c.startSpan(ctx, "Destroy")
	defer span.End()

	c.bindings.Unbind()
	c.root.Destroy()
	c.slots.Reset()
	c.destroyed = true
	if c.rendered {
		c.metrics.RecordContainerDestroy()
	}
	c.logger.Debug("view container destroyed")
	return nil
}

// live returns an error unless the container can still be used.
func (c *Container) live() error {
	if c.destroyed {
		return ErrDestroyed
	}
	return nil
}

// ready returns an error unless the container has been rendered and not
// destroyed.
func (c *Container) ready() error {
	if err := c.live(); err != nil {
		return err
	}
	if !c.rendered {
		return ErrNotRendered
	}
	return nil
}

// suggest returns a "did you mean" hint for the closest known name.
func suggest(name string, known []string) string {
	best, bestDist := "", -1
	for _, k := range known {
		d := levenshtein.ComputeDistance(name, k)
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	if best == "" || bestDist > limit {
		return ""
	}
	return fmt.Sprintf("Did you mean %q?", best)
}
