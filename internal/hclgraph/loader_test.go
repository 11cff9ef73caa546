package hclgraph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGrid writes files (relative path -> content) into a temporary
// directory and returns the directory.
func writeGrid(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestLoad_Items(t *testing.T) {
	dir := writeGrid(t, map[string]string{
		"main.hcl": `
item "fetch" {}

item "compile" {
  depends_on = ["fetch"]
}

item "package" {
  depends_on = [item.compile, "fetch"]
}
`,
		"nested/extra.hcl": `
item "publish" {
  depends_on = [item.package]
}

unrelated "block" {
  anything = true
}
`,
		"README.md": "not a grid file",
	})

	items, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	want := []*Item{
		{Name: "fetch"},
		{Name: "compile", DependsOn: []string{"fetch"}},
		{Name: "package", DependsOn: []string{"compile", "fetch"}},
		{Name: "publish", DependsOn: []string{"package"}},
	}
	if diff := cmp.Diff(want, items, cmpopts.IgnoreFields(Item{}, "File"), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("loaded items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, filepath.Join(dir, "main.hcl"), items[0].File)
	assert.Equal(t, filepath.Join(dir, "nested", "extra.hcl"), items[3].File)
}

func TestLoad_SingleFileAndDuplicates(t *testing.T) {
	dir := writeGrid(t, map[string]string{
		"a.hcl": `item "x" { depends_on = ["y"] }`,
		"b.hcl": `item "x" { depends_on = ["z"] }`,
	})

	items, err := NewLoader().Load(context.Background(), filepath.Join(dir, "a.hcl"), dir)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"y"}, items[0].Deps())
	assert.Equal(t, []string{"z"}, items[1].Deps())
	assert.Equal(t, "x", items[1].ID())
}

func TestLoad_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "syntax error",
			content: `item "a" {`,
			wantErr: "failed to parse HCL file",
		},
		{
			name:    "unknown attribute",
			content: `item "a" { needs = ["b"] }`,
			wantErr: "failed to decode HCL file",
		},
		{
			name:    "not a list",
			content: `item "a" { depends_on = "b" }`,
			wantErr: "Invalid depends_on value",
		},
		{
			name:    "bad reference root",
			content: `item "a" { depends_on = [step.b] }`,
			wantErr: "Invalid dependency reference",
		},
		{
			name:    "nested reference",
			content: `item "a" { depends_on = [item.b.c] }`,
			wantErr: "Invalid dependency reference",
		},
		{
			name:    "null element",
			content: `item "a" { depends_on = [null] }`,
			wantErr: "Invalid dependency name",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := writeGrid(t, map[string]string{"grid.hcl": tc.content})
			_, err := NewLoader().Load(context.Background(), dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "error accessing path")
}
