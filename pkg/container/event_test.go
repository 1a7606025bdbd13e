package container

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/vdom"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

func newTabbedContainer(t *testing.T, handler EventHandler) *Container {
	t.Helper()
	c, err := New(Config{
		Viewlets: viewlet.Config{
			"details":  {"render": markupRender("details"), "slot": "overview"},
			"settings": {"render": markupRender("settings"), "slot": "overview"},
		},
		Template: slottedTemplate,
		Slots:    map[string]string{"overview": ".overview-slot"},
		Events: map[string]map[string]EventHandler{
			".tabs a": {"click": handler},
		},
		Model: newRecord(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	mustRender(t, c)
	return c
}

func TestDispatchShowsViewletFromTab(t *testing.T) {
	c := newTabbedContainer(t, ShowViewletHandler)
	tab := c.Root().Query(`a[data-viewlet="settings"]`)
	if tab == nil {
		t.Fatal("tab not found")
	}

	ev := &Event{Type: "click", Target: tab}
	if err := c.Dispatch(context.Background(), ev); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := c.Slots().Occupant("overview"); got != "settings" {
		t.Errorf("occupant = %q, want settings", got)
	}
	if ev.CurrentTarget != tab {
		t.Error("CurrentTarget should be the matched tab")
	}
}

func TestDispatchBubblesFromChild(t *testing.T) {
	c := newTabbedContainer(t, ShowViewletHandler)
	tab := c.Root().Query(`a[data-viewlet="details"]`)
	icon := vdom.Span(vdom.Class("icon"))
	tab.AppendChild(icon)

	if err := c.Dispatch(context.Background(), &Event{Type: "click", Target: icon}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := c.Slots().Occupant("overview"); got != "details" {
		t.Errorf("occupant = %q, want details", got)
	}
}

func TestDispatchIgnoresOtherTypesAndNodes(t *testing.T) {
	calls := 0
	c := newTabbedContainer(t, func(context.Context, *Container, *Event) error {
		calls++
		return nil
	})
	ctx := context.Background()
	tab := c.Root().Query(".tabs a")

	_ = c.Dispatch(ctx, &Event{Type: "mouseover", Target: tab})
	_ = c.Dispatch(ctx, &Event{Type: "click", Target: c.Root().Query(".overview-slot")})
	_ = c.Dispatch(ctx, &Event{Type: "click", Target: vdom.Div()})
	_ = c.Dispatch(ctx, nil)

	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestDispatchHandlerError(t *testing.T) {
	boom := stderrors.New("boom")
	c := newTabbedContainer(t, func(context.Context, *Container, *Event) error { return boom })

	err := c.Dispatch(context.Background(), &Event{Type: "click", Target: c.Root().Query(".tabs a")})
	if !stderrors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestEventWithoutViewletName(t *testing.T) {
	c := newTabbedContainer(t, ShowViewletHandler)
	ev := &Event{Type: "click", Target: c.Root().Query(".overview-slot")}

	err := c.ShowViewlet(context.Background(), ev, nil)
	if !stderrors.Is(err, errors.New("V023")) {
		t.Errorf("err = %v, want V023", err)
	}
}

func TestViewletTargets(t *testing.T) {
	tab := vdom.A(vdom.Data(ViewletAttr, "settings"))
	tests := []struct {
		name   string
		target ViewletTarget
		want   string
	}{
		{"literal", ViewletName("details"), "details"},
		{"current target", &Event{CurrentTarget: tab, Target: vdom.Span()}, "settings"},
		{"target fallback", &Event{Target: tab}, "settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.target.ResolveViewlet()
			if err != nil {
				t.Fatalf("ResolveViewlet: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShowViewletModelFromHandler(t *testing.T) {
	other := model.NewRecord("other", map[string]any{"name": "mysql"})
	c := newTabbedContainer(t, func(ctx context.Context, c *Container, ev *Event) error {
		return c.ShowViewlet(ctx, ev, other)
	})
	tab := c.Root().Query(`a[data-viewlet="settings"]`)
	if err := c.Dispatch(context.Background(), &Event{Type: "click", Target: tab}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got := c.Viewlet("settings").Container.TextContent(); got != "mysql" {
		t.Errorf("text = %q, want mysql", got)
	}
}
