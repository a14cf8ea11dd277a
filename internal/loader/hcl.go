package loader

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/taskgridgo/internal/model"
)

// hclTaskFile represents the top-level structure of an HCL grid file.
type hclTaskFile struct {
	Tasks []*hclTask `hcl:"task,block"`
}

// hclTask represents a single `task` block.
type hclTask struct {
	Name      string        `hcl:"name,label"`
	Runner    string        `hcl:"runner"`
	DependsOn []string      `hcl:"depends_on,optional"`
	Arguments *hclArguments `hcl:"arguments,block"`
}

// hclArguments defers the argument attributes so arbitrary runner-specific
// keys can be collected without a fixed schema.
type hclArguments struct {
	Body hcl.Body `hcl:",remain"`
}

// parseHCLFile parses one .hcl grid file into model tasks. Argument
// expressions must be constant: the grid model carries values, not
// expressions, so there is nothing for a reference to resolve against.
func parseHCLFile(path string) ([]*model.Task, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var parsed hclTaskFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	tasks := make([]*model.Task, 0, len(parsed.Tasks))
	for _, pt := range parsed.Tasks {
		args, err := evalArguments(pt, path)
		if err != nil {
			return nil, err
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

func evalArguments(pt *hclTask, path string) (map[string]cty.Value, error) {
	if pt.Arguments == nil {
		return nil, nil
	}

	attrs, diags := pt.Arguments.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid arguments block for task %q in %s: %w", pt.Name, path, diags)
	}

	args := make(map[string]cty.Value, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("argument %q of task %q in %s must be a constant value: %w", name, pt.Name, path, diags)
		}
		args[name] = val
	}
	return args, nil
}
