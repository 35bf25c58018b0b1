package track

import (
	"fmt"
	"reflect"

	"deepstate/node"
	"deepstate/options"
)

// collector finds the notifying values reachable from one value without
// passing through another notifying value. Plain structs, collections and
// pointers that do not notify are looked through.
type collector struct {
	s    *options.Settings
	out  map[string]reflect.Value
	seen map[node.Identity]struct{}
}

// collect records v under key when it notifies, otherwise looks into it.
func (c *collector) collect(key string, v reflect.Value, t reflect.Type) {
	if t.Kind() == reflect.Interface {
		if !v.IsValid() || v.IsNil() {
			return
		}

		v = v.Elem()
		t = v.Type()
	}

	if !v.IsValid() || node.TrackLeaf(t, c.s) || c.s.IsIgnoredType(t) {
		return
	}

	if id, ok := node.IdentityOf(v); ok {
		if _, ok := c.seen[id]; ok {
			return
		}

		if notifies(t) {
			c.out[key] = v
			return
		}

		c.seen[id] = struct{}{}
	}

	c.contents(key, v, t)
}

// contents looks into the items, the pointee or the members of v.
func (c *collector) contents(prefix string, v reflect.Value, t reflect.Type) {
	if col, ok := node.Classify(t); ok {
		c.items(prefix, v, col)
		return
	}

	switch t.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			c.collect(prefix, v.Elem(), t.Elem())
		}
	case reflect.Struct:
		owner := node.Addressable(v)
		for _, m := range node.Members(t, c.s) {
			c.collect(join(prefix, m.Name), m.Get(owner), m.Type)
		}
	}
}

func (c *collector) items(prefix string, v reflect.Value, col node.Collection) {
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return
	}

	elem := col.Elem()

	switch x := v.Interface().(type) {
	case node.Set:
		for i, item := range x.Items() {
			c.item(prefix, i, reflect.ValueOf(item), elem)
		}

		return
	case node.List:
		for i := range x.Len() {
			c.item(prefix, i, reflect.ValueOf(x.Index(i)), elem)
		}

		return
	}

	switch col.Kind() {
	case node.KindList, node.KindArray:
		for i := range v.Len() {
			c.collect(fmt.Sprintf("%s[%d]", prefix, i), v.Index(i), elem)
		}
	case node.KindMap:
		iter := v.MapRange()
		for iter.Next() {
			c.collect(fmt.Sprintf("%s[%#v]", prefix, iter.Key().Interface()), iter.Value(), elem)
		}
	}
}

func (c *collector) item(prefix string, i int, v reflect.Value, elem reflect.Type) {
	if !v.IsValid() {
		return
	}

	if elem.Kind() == reflect.Interface {
		elem = v.Type()
	}

	c.collect(fmt.Sprintf("%s[%d]", prefix, i), v, elem)
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return prefix + "." + name
}
