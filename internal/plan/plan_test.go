package plan

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridlevels/deplevel"
	"github.com/vk/gridlevels/internal/hclgraph"
)

func resolvedPlan(t *testing.T) *Plan {
	t.Helper()
	g := deplevel.New[string]()
	deplevel.AddAll(g, []*hclgraph.Item{
		{Name: "lint"},
		{Name: "fetch"},
		{Name: "compile", DependsOn: []string{"fetch"}},
		{Name: "test", DependsOn: []string{"compile", "lint"}},
	})
	levels, err := g.Resolve(context.Background())
	require.NoError(t, err)
	return FromLevels(levels, deplevel.FrontierRule)
}

func TestFromLevels(t *testing.T) {
	p := resolvedPlan(t)
	assert.Equal(t, "frontier", p.Strategy)
	assert.Equal(t, []Level{
		{Level: 0, IDs: []string{"fetch", "lint"}},
		{Level: 1, IDs: []string{"compile", "test"}},
	}, p.Levels)
	assert.Equal(t, 4, p.Count())
}

func TestFromLevels_Deepest(t *testing.T) {
	g := deplevel.New[string](deplevel.WithStrategy(deplevel.DeepestRule))
	deplevel.AddAll(g, []*hclgraph.Item{
		{Name: "lint"},
		{Name: "fetch"},
		{Name: "compile", DependsOn: []string{"fetch"}},
		{Name: "test", DependsOn: []string{"compile", "lint"}},
	})
	levels, err := g.Resolve(context.Background())
	require.NoError(t, err)

	p := FromLevels(levels, deplevel.DeepestRule)
	assert.Equal(t, []Level{
		{Level: 0, IDs: []string{"fetch", "lint"}},
		{Level: 1, IDs: []string{"compile"}},
		{Level: 2, IDs: []string{"test"}},
	}, p.Levels)
}

func TestWrite(t *testing.T) {
	p := resolvedPlan(t)

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, p.Write(&buf, "text"))
		assert.Equal(t, "level 0: fetch, lint\nlevel 1: compile, test\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, p.Write(&buf, "json"))

		var decoded Plan
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, *p, decoded)
		assert.Contains(t, buf.String(), `"strategy": "frontier"`)
	})

	t.Run("unknown", func(t *testing.T) {
		assert.ErrorContains(t, p.Write(&bytes.Buffer{}, "yaml"), "unknown output format")
	})
}

func TestWrite_EmptyPlan(t *testing.T) {
	levels, err := deplevel.New[string]().Resolve(context.Background())
	require.NoError(t, err)
	p := FromLevels(levels, deplevel.DeepestRule)

	var buf bytes.Buffer
	require.NoError(t, p.Write(&buf, "json"))
	assert.JSONEq(t, `{"strategy":"deepest","levels":[]}`, buf.String())
}
