// Package container renders one record as a set of named viewlets.
//
// A Container is built from a viewlet configuration, renders a main
// template into its root node, mounts every viewlet that does not declare
// a slot, and binds each mounted viewlet to the record so later changes
// flow into the viewlet's Update. Slotted viewlets are only rendered when
// shown: ShowViewlet (or FillSlot) evicts the slot's current occupant,
// unbinding it and detaching its node, before the incoming viewlet is
// rendered into the slot target and bound.
//
//	c, err := container.New(container.Config{
//	    Viewlets: viewlet.Config{
//	        "overview": {"template": overviewTmpl},
//	        "settings": {"template": settingsTmpl, "slot": "main"},
//	        "config":   {"template": configTmpl, "slot": "main"},
//	    },
//	    Slots: map[string]string{"main": ".main-slot"},
//	    Model: record,
//	})
//	if _, err := c.Render(ctx); err != nil { ... }
//	c.ShowViewlet(ctx, container.ViewletName("settings"), nil)
//
// A Container is not safe for concurrent use. Every call, and every change
// delivery from the binding engine, must happen on one goroutine; hosts
// with their own event loop pass a Dispatch that queues deliveries there.
package container
