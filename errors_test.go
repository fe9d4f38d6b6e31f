package springforge

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagramError(t *testing.T) {
	cause := errors.New("unexpected token")
	err := NewDiagramError("c1", "User", "attribute list is not an array", cause)
	assert.True(t, IsDiagramError(err))
	assert.True(t, errors.Is(err, ErrMalformedDiagram))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "User")

	wrapped := fmt.Errorf("building model: %w", err)
	assert.True(t, IsDiagramError(wrapped))
	var derr *DiagramError
	require.ErrorAs(t, wrapped, &derr)
	assert.Equal(t, "c1", derr.ClassID)
}

func TestRelationshipError(t *testing.T) {
	err := NewRelationshipError("r1", "c1", "c9", "target class not found")
	assert.True(t, IsRelationshipError(err))
	assert.True(t, errors.Is(err, ErrUnmappableRelationship))
	assert.False(t, IsDiagramError(err))
}

func TestRenderError(t *testing.T) {
	cause := errors.New("template: entity:12: function \"upper\" not defined")
	err := NewRenderError("entity.java.tmpl", "execution failed", cause)
	assert.True(t, IsRenderError(err))
	assert.True(t, errors.Is(err, ErrTemplateRender))
	assert.ErrorIs(t, err, cause)
}

func TestPackagingError(t *testing.T) {
	err := NewPackagingError("/tmp/out", "workspace is not writable", errors.New("permission denied"))
	assert.True(t, IsPackagingError(err))
	assert.True(t, errors.Is(err, ErrPackaging))
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("serverPort", 70000, "port out of range")
	assert.True(t, IsConfigError(err))
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "serverPort")
}
