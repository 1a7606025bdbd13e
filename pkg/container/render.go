package container

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/template"
	"github.com/vango-dev/viewlets/pkg/vdom"
	"github.com/vango-dev/viewlets/pkg/viewlet"
)

// Render fills the root with the main template and mounts and binds every
// viewlet without a slot. Rendering again starts over: existing bindings
// are released and slots are vacated.
func (c *Container) Render(ctx context.Context) (*Container, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	_, span := c.startSpan(ctx, "Render")
	defer span.End()
	start := time.Now()

	if c.rendered {
		c.bindings.Unbind()
		c.slots.Reset()
	}

	tmpl, err := c.template.Compile(c.engine)
	if err != nil {
		return nil, endSpan(span, errors.FromError(err, "V030").WithSubject("main template"))
	}
	if !c.template.IsCompiled() {
		c.template = template.Compiled(tmpl)
	}
	markup, err := tmpl.Execute(c.data)
	if err != nil {
		return nil, endSpan(span, errors.FromError(err, "V031").WithSubject("main template"))
	}
	if err := c.root.SetHTML(markup); err != nil {
		return nil, endSpan(span, errors.FromError(err, "V031").WithSubject("main template"))
	}

	insert := c.root.Query(c.insertSel)
	if insert == nil {
		return nil, endSpan(span, errors.New("V005").WithDetail("selector " + c.insertSel))
	}

	mounted := 0
	for _, name := range c.order {
		v := c.viewlets[name]
		if v.Slot != "" {
			continue
		}
		node, err := c.renderViewlet(v, c.model, nil)
		if err != nil {
			return nil, endSpan(span, err)
		}
		insert.AppendChild(node)
		c.bindings.Bind(c.model, v)
		mounted++
	}

	if !c.rendered {
		c.metrics.RecordContainerRender()
	}
	c.rendered = true
	c.metrics.ObserveRender(c.Name(), time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("viewlets.mounted", mounted))
	c.logger.Debug("view container rendered", "mounted", mounted, "name", c.Name())
	return c, nil
}

// renderViewlet renders v for m and returns its container node.
func (c *Container) renderViewlet(v *viewlet.Viewlet, m model.Model, target *vdom.VNode) (*vdom.VNode, error) {
	res, err := v.Render(m, viewlet.Attrs{
		Root:    c.root,
		Model:   c.model,
		Target:  target,
		Options: c.data,
	})
	if err == nil {
		err = normalize(v, res)
	}
	c.metrics.RecordRender(v.Name, err)
	if err != nil {
		return nil, errors.FromError(err, "V031").WithSubject(v.Name)
	}
	return v.Container, nil
}

// normalize turns a render result into v.Container.
func normalize(v *viewlet.Viewlet, res any) error {
	switch r := res.(type) {
	case nil:
		if v.Container == nil {
			return errors.New("V033").WithSubject(v.Name).WithDetail("render returned nil without setting a container")
		}
	case *vdom.VNode:
		if r == nil {
			return errors.New("V033").WithSubject(v.Name)
		}
		v.SetContainer(r)
	case string:
		node, err := vdom.Parse(r)
		if err != nil {
			return err
		}
		v.SetContainer(node)
	default:
		return errors.New("V033").WithSubject(v.Name).WithDetail(fmt.Sprintf("got %T", res))
	}
	return nil
}
