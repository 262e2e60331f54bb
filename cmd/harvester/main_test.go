package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmiFej/WB-OEMC/internal/sources"
)

type stubRunner struct{ name string }

func (r stubRunner) Name() string { return r.name }
func (r stubRunner) Run(context.Context, sources.Deps) (sources.Summary, error) {
	return sources.Summary{Source: r.name}, nil
}

func testRegistry() (map[string]sources.Runner, []string) {
	order := []string{"mepso", "mepso_gen", "ost", "nosbih"}
	registry := map[string]sources.Runner{}
	for _, name := range order {
		registry[name] = stubRunner{name: name}
	}
	return registry, order
}

func TestSelectRunners(t *testing.T) {
	registry, order := testRegistry()

	t.Run("no args selects everything in order", func(t *testing.T) {
		selected, err := selectRunners(registry, order, nil)
		require.NoError(t, err)
		assert.Equal(t, order, names(selected))
	})

	t.Run("all selects everything", func(t *testing.T) {
		selected, err := selectRunners(registry, order, []string{"all"})
		require.NoError(t, err)
		assert.Len(t, selected, 4)
	})

	t.Run("explicit subset keeps argument order", func(t *testing.T) {
		selected, err := selectRunners(registry, order, []string{"ost", "mepso"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ost", "mepso"}, names(selected))
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		selected, err := selectRunners(registry, order, []string{"ost", "ost"})
		require.NoError(t, err)
		assert.Len(t, selected, 1)
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := selectRunners(registry, order, []string{"entso"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown source")
		assert.Contains(t, err.Error(), "mepso", "the error lists the known sources")
	})
}
