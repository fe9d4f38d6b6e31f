package engine

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/springforge/springforge"
	"github.com/springforge/springforge/compiler/gen"
	"github.com/springforge/springforge/pack"
)

const shopPayload = `{
	"classes": [
		{
			"id": "c1", "name": "User", "stereotype": "entity",
			"attributes": [
				{"name": "id", "type": "Long", "is_id": true},
				{"name": "email", "type": "String", "documentation": "required, length: 120"},
				{"name": "username", "type": "String"},
				{"name": "active", "type": "Boolean"}
			]
		},
		{
			"id": "c2", "name": "Order",
			"attributes": [
				{"name": "total", "type": "BigDecimal"},
				{"name": "status", "type": "String"}
			]
		}
	],
	"relationships": [
		{
			"id": "r1", "type": "COMPOSITION", "source": "c1", "target": "c2",
			"source_cardinality": "1", "target_cardinality": "0..*"
		}
	]
}`

func shopProject() springforge.ProjectConfig {
	project := springforge.DefaultProjectConfig()
	project.GroupID = "com.example.shop"
	project.ArtifactID = "shop"
	return project
}

func shopConfig(t *testing.T, opts ...gen.Option) *gen.Config {
	t.Helper()
	cfg, err := gen.NewConfig(shopProject(), opts...)
	require.NoError(t, err)
	return cfg
}

func newOrchestrator(opts ...Option) *Orchestrator {
	packager := pack.NewPackager(afero.NewMemMapFs(), "/out")
	return New(packager, opts...)
}

func TestOrchestratorGenerate(t *testing.T) {
	orch := newOrchestrator()
	var (
		checkpoints []int
		stages      []string
	)
	progress := func(pct int, detail map[string]any) {
		checkpoints = append(checkpoints, pct)
		stage, _ := detail["stage"].(string)
		stages = append(stages, stage)
		assert.NotEmpty(t, detail["message"])
	}

	result, err := orch.Generate(context.Background(), []byte(shopPayload), shopConfig(t), "req-1", progress)
	require.NoError(t, err)

	assert.Equal(t, "/out/req-1", result.OutputPath)
	assert.Equal(t, "/out/req-1.zip", result.ArchivePath)
	assert.False(t, result.CacheHit)
	assert.Equal(t, Simple, result.Complexity.Level)

	// Two entities, full project: 2 of each artifact kind plus the six
	// project files.
	assert.Equal(t, 16, result.Project.FileCount())

	// Checkpoints arrive in pipeline order and never regress.
	require.NotEmpty(t, checkpoints)
	assert.Equal(t, progressParsed, checkpoints[0])
	for i := 1; i < len(checkpoints); i++ {
		assert.GreaterOrEqual(t, checkpoints[i], checkpoints[i-1])
	}
	assert.Equal(t, progressPackaging, checkpoints[len(checkpoints)-1])

	// Each checkpoint fires as its stage begins.
	assert.Equal(t, []string{
		"parse", "structure", "entities", "repositories", "services",
		"services", "controllers", "config", "packaging",
	}, stages)

	// The archive is on disk where the result says it is.
	rc, err := orch.packager.Open(result.ArchivePath)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
}

func TestOrchestratorScope(t *testing.T) {
	orch := newOrchestrator()
	cfg := shopConfig(t, gen.WithScope(springforge.ScopeEntitiesOnly))

	result, err := orch.Generate(context.Background(), []byte(shopPayload), cfg, "req-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Project.FileCount())
	for _, f := range result.Project.Files {
		assert.Equal(t, springforge.ArtifactEntity, f.Kind)
	}
}

func TestOrchestratorCache(t *testing.T) {
	orch := newOrchestrator(WithCache(springforge.NewMemCache()))

	first, err := orch.Generate(context.Background(), []byte(shopPayload), shopConfig(t), "req-1", nil)
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := orch.Generate(context.Background(), []byte(shopPayload), shopConfig(t), "req-2", nil)
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Project.FileCount(), second.Project.FileCount())
	assert.Equal(t, "/out/req-2", second.OutputPath)

	// A different scope is a different fingerprint.
	third, err := orch.Generate(context.Background(), []byte(shopPayload),
		shopConfig(t, gen.WithScope(springforge.ScopeRepositoriesOnly)), "req-3", nil)
	require.NoError(t, err)
	assert.False(t, third.CacheHit)
}

func TestOrchestratorLenientRelationships(t *testing.T) {
	payload := `{
		"classes": [
			{"id": "c1", "name": "User", "attributes": [{"name": "id", "type": "Long", "is_id": true}]}
		],
		"relationships": [
			{"id": "r1", "type": "ASSOCIATION", "source": "c1", "target": "missing"}
		]
	}`
	orch := newOrchestrator()

	_, err := orch.Generate(context.Background(), []byte(payload), shopConfig(t), "req-1", nil)
	require.Error(t, err)
	assert.True(t, springforge.IsRelationshipError(err))

	cfg := shopConfig(t, gen.WithLenientRelationships())
	result, err := orch.Generate(context.Background(), []byte(payload), cfg, "req-2", nil)
	require.NoError(t, err)
	assert.Equal(t, 11, result.Project.FileCount())
}

func TestOrchestratorMalformedDiagram(t *testing.T) {
	orch := newOrchestrator()
	_, err := orch.Generate(context.Background(), []byte(`{"classes": []}`), shopConfig(t), "req-1", nil)
	require.Error(t, err)
	assert.True(t, springforge.IsDiagramError(err))
}

func TestOrchestratorCancelled(t *testing.T) {
	orch := newOrchestrator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := orch.Generate(ctx, []byte(shopPayload), shopConfig(t), "req-1", nil)
	require.ErrorIs(t, err, context.Canceled)
}
