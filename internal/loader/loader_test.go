package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_SingleHCLFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
task "greet" {
  runner = "print"
  arguments {
    message = "hello"
  }
}

task "deploy" {
  runner     = "exec"
  depends_on = ["greet"]
  arguments {
    command = "true"
    dir     = "/tmp"
  }
}
`
	path := writeFile(t, t.TempDir(), "grid.hcl", src)

	// --- Act ---
	grid, err := Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, grid.Tasks, 2)

	greet := grid.Tasks[0]
	assert.Equal(t, "greet", greet.Name)
	assert.Equal(t, "print", greet.Runner)
	assert.Empty(t, greet.DependsOn)
	assert.Equal(t, cty.StringVal("hello"), greet.Arguments["message"])
	assert.Equal(t, path, greet.Source)

	deploy := grid.Tasks[1]
	assert.Equal(t, "exec", deploy.Runner)
	assert.Equal(t, []string{"greet"}, deploy.DependsOn)
	assert.Equal(t, cty.StringVal("true"), deploy.Arguments["command"])
	assert.Equal(t, cty.StringVal("/tmp"), deploy.Arguments["dir"])
}

func TestLoad_SingleYAMLFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
tasks:
  - name: fetch
    runner: http_request
    arguments:
      url: "http://example.com"
  - name: report
    runner: print
    depends_on: [fetch]
`
	path := writeFile(t, t.TempDir(), "grid.yaml", src)

	// --- Act ---
	grid, err := Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, grid.Tasks, 2)
	assert.Equal(t, "fetch", grid.Tasks[0].Name)
	assert.Equal(t, cty.StringVal("http://example.com"), grid.Tasks[0].Arguments["url"])
	assert.Equal(t, []string{"fetch"}, grid.Tasks[1].DependsOn)
	assert.Nil(t, grid.Tasks[1].Arguments)
}

func TestLoad_DirectoryMergesFormats(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `
task "a" {
  runner = "print"
}
`)
	writeFile(t, dir, "b.yml", `
tasks:
  - name: b
    runner: print
    depends_on: [a]
`)
	// A file the loader must ignore.
	writeFile(t, dir, "notes.txt", "not a grid")

	// --- Act ---
	grid, err := Load(context.Background(), dir)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, grid.Tasks, 2)

	names := []string{grid.Tasks[0].Name, grid.Tasks[1].Name}
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestLoad_DuplicateTaskAcrossFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `
task "dup" {
  runner = "print"
}
`)
	writeFile(t, dir, "b.hcl", `
task "dup" {
  runner = "print"
}
`)

	// --- Act ---
	_, err := Load(context.Background(), dir)

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task "dup" already defined`)
}

func TestLoad_HCLSyntaxError(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "broken.hcl", `task "a" {`)

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestLoad_HCLNonConstantArgument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Argument expressions must be constants; a variable reference has
	// nothing to resolve against.
	path := writeFile(t, t.TempDir(), "ref.hcl", `
task "a" {
  runner = "print"
  arguments {
    message = some.reference
  }
}
`)

	// --- Act ---
	_, err := Load(context.Background(), path)

	// --- Assert ---
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a constant value")
}

func TestLoad_YAMLComplexArguments(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
tasks:
  - name: a
    runner: print
    arguments:
      count: 3
      ratio: 0.5
      enabled: true
      items: [one, two]
`
	path := writeFile(t, t.TempDir(), "grid.yaml", src)

	// --- Act ---
	grid, err := Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, grid.Tasks, 1)
	args := grid.Tasks[0].Arguments
	assert.Equal(t, cty.NumberIntVal(3), args["count"])
	assert.Equal(t, cty.NumberFloatVal(0.5), args["ratio"])
	assert.Equal(t, cty.True, args["enabled"])
	assert.Equal(t, cty.TupleVal([]cty.Value{cty.StringVal("one"), cty.StringVal("two")}), args["items"])
}

func TestLoad_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read grid path")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "grid.toml", `x = 1`)

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported grid file extension")
}

func TestLoad_EmptyDirectory(t *testing.T) {
	t.Parallel()

	grid, err := Load(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, grid.Tasks)
}
