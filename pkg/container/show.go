package container

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

// ShowViewlet hides every viewlet wrapper under the root and shows the
// viewlet named by target. A slotted viewlet is first rendered into its
// slot. A nil m means the primary model. An unknown name returns
// ErrViewletNotFound and changes nothing.
func (c *Container) ShowViewlet(ctx context.Context, target ViewletTarget, m model.Model) error {
	if err := c.ready(); err != nil {
		return err
	}
	if target == nil {
		return errors.New("V020")
	}
	name, err := target.ResolveViewlet()
	if err != nil {
		return err
	}
	ctx, span := c.startSpan(ctx, "ShowViewlet", attribute.String("viewlet", name))
	defer span.End()

	v, ok := c.viewlets[name]
	if !ok {
		err := errors.New("V020").WithSubject(name).WithSuggestion(suggest(name, c.order))
		return endSpan(span, err)
	}

	for _, w := range c.root.QueryAll("." + viewlet.WrapperClass) {
		w.Hide()
	}

	v.Model = m
	if v.Slot != "" {
		if err := c.FillSlot(ctx, v, m); err != nil {
			return endSpan(span, err)
		}
	}
	v.Container.Show()
	c.logger.Debug("viewlet shown", "viewlet", name, "slot", v.Slot)
	return nil
}

// FillSlot makes v the occupant of its slot. The current occupant is
// unbound and detached first. v is rendered for m, or for the primary
// model when m is nil, into the slot target and bound. A slot missing
// from the slot map is logged and left empty.
func (c *Container) FillSlot(ctx context.Context, v *viewlet.Viewlet, m model.Model) error {
	if err := c.ready(); err != nil {
		return err
	}
	if v == nil || v.Slot == "" {
		return nil
	}
	slot := v.Slot
	_, span := c.startSpan(ctx, "FillSlot",
		attribute.String("viewlet", v.Name),
		attribute.String("slot", slot),
	)
	defer span.End()

	if prev := c.slots.Occupant(slot); prev != "" {
		c.evict(slot, prev)
	}

	if m == nil {
		m = c.model
	}

	sel, ok := c.slots.Target(slot)
	if !ok {
		c.logger.Error("slot not registered", "slot", slot, "viewlet", v.Name)
		c.metrics.RecordMissingSlot(slot)
		span.SetAttributes(attribute.Bool("slot.missing", true))
		return nil
	}
	target := c.root.Query(sel)
	if target == nil {
		return endSpan(span, errors.New("V022").WithSubject(slot).WithDetail("selector "+sel))
	}

	node, err := c.renderViewlet(v, m, target)
	if err != nil {
		return endSpan(span, err)
	}
	target.SetChildren(node)
	c.slots.Fill(slot, v.Name)
	c.bindings.Bind(m, v)
	c.metrics.RecordSlotFill(slot)
	c.logger.Debug("slot filled", "slot", slot, "viewlet", v.Name)
	return nil
}

// evict unbinds and detaches the viewlet occupying slot.
func (c *Container) evict(slot, name string) {
	if b := c.bindings.Viewlet(name); b != nil {
		b.Remove()
	} else if v := c.named(name); v != nil {
		v.Remove()
	}
	c.slots.Vacate(slot)
	c.metrics.RecordEviction(slot)
	c.logger.Debug("slot occupant evicted", "slot", slot, "viewlet", name)
}
