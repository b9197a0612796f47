package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ctmcsim/internal/collision"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn")
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = New(&buf, "loud")
	assert.Error(t, err)
}

func TestNamedSatisfiesCollisionLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug")
	require.NoError(t, err)

	var log collision.Logger = Named(l, "run")
	log.Infof("round %d", 3)
	assert.Contains(t, buf.String(), "component=run")
	assert.Contains(t, buf.String(), "round 3")
}

func TestDebugAnnotatesCaller(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "error")
	require.NoError(t, err)

	Debug(l)
	l.Debug("trace")
	assert.Contains(t, buf.String(), "log_test.go")
}
