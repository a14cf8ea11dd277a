package loader

import (
	"fmt"
	"os"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"

	"github.com/vk/taskgridgo/internal/model"
)

// yamlTaskFile represents the top-level structure of a YAML grid file.
type yamlTaskFile struct {
	Tasks []yamlTask `yaml:"tasks"`
}

// yamlTask represents one entry of the `tasks` list.
type yamlTask struct {
	Name      string         `yaml:"name"`
	Runner    string         `yaml:"runner"`
	DependsOn []string       `yaml:"depends_on"`
	Arguments map[string]any `yaml:"arguments"`
}

// parseYAMLFile parses one .yaml/.yml grid file into model tasks.
func parseYAMLFile(path string) ([]*model.Task, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}

	var parsed yamlTaskFile
	if err := yaml.Unmarshal(src, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	tasks := make([]*model.Task, 0, len(parsed.Tasks))
	for _, pt := range parsed.Tasks {
		args, err := ctyArguments(pt.Arguments)
		if err != nil {
			return nil, fmt.Errorf("task %q in %s: %w", pt.Name, path, err)
		}
		tasks = append(tasks, &model.Task{
			Name:      pt.Name,
			Runner:    pt.Runner,
			DependsOn: pt.DependsOn,
			Arguments: args,
			Source:    path,
		})
	}
	return tasks, nil
}

func ctyArguments(args map[string]any) (map[string]cty.Value, error) {
	if len(args) == 0 {
		return nil, nil
	}
	out := make(map[string]cty.Value, len(args))
	for name, raw := range args {
		val, err := ctyFromYAML(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		out[name] = val
	}
	return out, nil
}

// ctyFromYAML converts the subset of YAML scalar, sequence, and mapping
// values a grid file may carry into cty values, matching the shapes the HCL
// front end produces.
func ctyFromYAML(raw any) (cty.Value, error) {
	switch v := raw.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case float64:
		return cty.NumberFloatVal(v), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(v))
		for _, e := range v {
			ev, err := ctyFromYAML(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		attrs := make(map[string]cty.Value, len(v))
		for k, e := range v {
			ev, err := ctyFromYAML(e)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported YAML value of type %T", raw)
	}
}
