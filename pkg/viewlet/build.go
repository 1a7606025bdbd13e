package viewlet

import (
	"fmt"

	"github.com/vango-dev/viewlets/internal/errors"
	"github.com/vango-dev/viewlets/pkg/model"
	"github.com/vango-dev/viewlets/pkg/template"
	"github.com/vango-dev/viewlets/pkg/vdom"
)

// Configuration keys with a dedicated Viewlet field.
const (
	KeyName            = "name"
	KeyTemplate        = "template"
	KeyTemplateWrapper = "templateWrapper"
	KeySlot            = "slot"
	KeyContainer       = "container"
	KeyRender          = "render"
	KeyUpdate          = "update"
	KeyConflict        = "conflict"
	KeyRebind          = "rebind"
)

// Build creates a viewlet from the defaults overlaid with o. Overrides may
// be expanded or bare. Templates are compiled with engine, or the default
// engine when nil. A value of the wrong type for its key is an error.
func Build(name string, o Overrides, engine template.Engine) (*Viewlet, error) {
	v := New(name)
	v.engine = engine

	for key, raw := range o {
		d := DescriptorOf(raw)
		if err := v.apply(key, d.Value); err != nil {
			return nil, errors.New("V003").
				WithSubject(name + "." + key).
				WithDetail(err.Error())
		}
		if !d.Writable {
			v.pinned[key] = true
		}
	}
	return v, nil
}

// apply sets one configuration value.
func (v *Viewlet) apply(key string, val any) error {
	switch key {
	case KeyName:
		s, ok := val.(string)
		if !ok {
			return typeError(key, "string", val)
		}
		v.Name = s
	case KeySlot:
		s, ok := val.(string)
		if !ok {
			return typeError(key, "string", val)
		}
		v.Slot = s
	case KeyTemplate, KeyTemplateWrapper:
		src, ok := template.From(val)
		if !ok {
			return typeError(key, "string or template", val)
		}
		if key == KeyTemplate {
			v.Template = src
		} else {
			v.Wrapper = src
		}
	case KeyContainer:
		switch n := val.(type) {
		case *vdom.VNode:
			v.Container = n
		case string:
			node, err := vdom.Parse(n)
			if err != nil {
				return err
			}
			v.Container = node
		default:
			return typeError(key, "*vdom.VNode or markup", val)
		}
	case KeyRender:
		switch f := val.(type) {
		case RenderFunc:
			v.RenderFunc = f
		case func(*Viewlet, model.Model, Attrs) (any, error):
			v.RenderFunc = f
		default:
			return typeError(key, "RenderFunc", val)
		}
	case KeyUpdate:
		switch f := val.(type) {
		case UpdateFunc:
			v.UpdateFunc = f
		case func(*Viewlet, model.Model):
			v.UpdateFunc = f
		default:
			return typeError(key, "UpdateFunc", val)
		}
	case KeyConflict:
		switch f := val.(type) {
		case ConflictFunc:
			v.ConflictFunc = f
		case func(*Viewlet, *vdom.VNode):
			v.ConflictFunc = f
		default:
			return typeError(key, "ConflictFunc", val)
		}
	case KeyRebind:
		switch f := val.(type) {
		case RebindFunc:
			v.RebindFunc = f
		case func(model.Model) model.Model:
			v.RebindFunc = f
		case nil:
			v.RebindFunc = nil
		default:
			return typeError(key, "RebindFunc", val)
		}
	default:
		v.Props[key] = val
	}
	return nil
}

func typeError(key, want string, got any) error {
	return fmt.Errorf("%s must be a %s, got %T", key, want, got)
}
