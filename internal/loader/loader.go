// Package loader finds and parses task grid files into the model. Two file
// formats are supported: HCL (.hcl) and YAML (.yaml/.yml); both produce the
// same format-agnostic model.Grid.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/fsutil"
	"github.com/vk/taskgridgo/internal/model"
)

// Load reads the grid at path, which may be a single file or a directory
// searched recursively, and returns the merged model.
func Load(ctx context.Context, path string) (*model.Grid, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading grid.", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid path %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtensions(path, ".hcl", ".yaml", ".yml")
		if err != nil {
			return nil, fmt.Errorf("failed to find grid files in %s: %w", path, err)
		}
	} else {
		files = []string{path}
	}

	grid := model.NewGrid()
	if len(files) == 0 {
		logger.Warn("No grid files found in path, returning empty grid.", "path", path)
		return grid, nil
	}

	for _, file := range files {
		tasks, err := parseFile(file)
		if err != nil {
			return nil, err
		}
		if err := grid.Append(tasks...); err != nil {
			return nil, err
		}
	}

	logger.Debug("Grid loaded.", "files", len(files), "tasks", len(grid.Tasks))
	return grid, nil
}

func parseFile(path string) ([]*model.Task, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		return parseHCLFile(path)
	case ".yaml", ".yml":
		return parseYAMLFile(path)
	default:
		return nil, fmt.Errorf("unsupported grid file extension %q: %s", ext, path)
	}
}
