package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// DecodeArguments populates input, a pointer to a struct with `cty` field
// tags, from the manifest argument values. A field tagged `cty:"name"` is
// required; `cty:"name,optional"` keeps its zero value when the argument is
// absent. Arguments that match no tagged field are rejected, keeping the
// manifest and the Go struct in strict parity.
func DecodeArguments(args map[string]cty.Value, input any) error {
	v := reflect.ValueOf(input)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("input must be a pointer to struct, got %T", input)
	}
	v = v.Elem()
	t := v.Type()

	consumed := make(map[string]struct{}, len(args))
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("cty")
		if tag == "" || tag == "-" {
			continue
		}
		parts := strings.Split(tag, ",")
		name := parts[0]
		optional := len(parts) > 1 && parts[1] == "optional"

		val, present := args[name]
		if present {
			consumed[name] = struct{}{}
		}
		if !present || val.IsNull() {
			if optional {
				continue
			}
			return fmt.Errorf("missing required argument %q", name)
		}

		want, err := gocty.ImpliedType(reflect.Zero(field.Type).Interface())
		if err != nil {
			return fmt.Errorf("argument %q: cannot imply cty type for Go field %s: %w", name, field.Name, err)
		}
		converted, err := convert.Convert(val, want)
		if err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
		if err := gocty.FromCtyValue(converted, v.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
	}

	for name := range args {
		if _, ok := consumed[name]; !ok {
			return fmt.Errorf("unsupported argument %q", name)
		}
	}
	return nil
}
