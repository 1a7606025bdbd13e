package container

import (
	"context"
	"sort"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/vdom"
)

// ViewletTarget identifies the viewlet ShowViewlet should display.
type ViewletTarget interface {
	ResolveViewlet() (string, error)
}

// ViewletName names a viewlet directly.
type ViewletName string

// ResolveViewlet returns the name itself.
func (n ViewletName) ResolveViewlet() (string, error) {
	return string(n), nil
}

// ViewletAttr is the data attribute tab handles carry to name the viewlet
// they switch to.
const ViewletAttr = "viewlet"

// Event is a UI event delegated to the container.
type Event struct {
	// Type is the event type, such as "click".
	Type string

	// Target is the node the event originated from.
	Target *vdom.VNode

	// CurrentTarget is the node whose selector matched during delegation.
	CurrentTarget *vdom.VNode

	// Value carries input values for change events.
	Value string
}

// ResolveViewlet returns the data-viewlet attribute of the event's current
// target, falling back to the original target.
func (e *Event) ResolveViewlet() (string, error) {
	node := e.CurrentTarget
	if node == nil {
		node = e.Target
	}
	name := node.Data(ViewletAttr)
	if name == "" {
		return "", errors.New("V023")
	}
	return name, nil
}

// EventHandler handles a delegated event.
type EventHandler func(ctx context.Context, c *Container, ev *Event) error

// ShowViewletHandler switches to the viewlet named by the event's
// data-viewlet attribute, using the container's primary model.
func ShowViewletHandler(ctx context.Context, c *Container, ev *Event) error {
	return c.ShowViewlet(ctx, ev, nil)
}

// Dispatch delivers ev to the handlers registered in Config.Events. The
// event bubbles from its target to the root; at each node, handlers whose
// selector matches the node run in selector order with CurrentTarget set
// to that node. The first handler error stops delivery.
func (c *Container) Dispatch(ctx context.Context, ev *Event) error {
	if err := c.live(); err != nil {
		return err
	}
	if ev == nil || ev.Target == nil || !c.root.Contains(ev.Target) {
		return nil
	}

	selectors := make([]string, 0, len(c.events))
	for sel := range c.events {
		selectors = append(selectors, sel)
	}
	sort.Strings(selectors)

	for n := ev.Target; n != nil && n != c.root; n = n.Parent() {
		for _, sel := range selectors {
			h, ok := c.events[sel].handlers[ev.Type]
			if !ok || !c.events[sel].selector.Matches(n, c.root) {
				continue
			}
			ev.CurrentTarget = n
			if err := h(ctx, c, ev); err != nil {
				return err
			}
			if c.destroyed {
				return nil
			}
		}
	}
	return nil
}

// delegate is one compiled entry of Config.Events.
type delegate struct {
	selector *vdom.Selector
	handlers map[string]EventHandler
}
