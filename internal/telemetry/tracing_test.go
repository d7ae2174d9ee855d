package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/waterjug"
	"github.com/aretw0/waterjug/internal/telemetry"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Enabled(t *testing.T) {
	var buf bytes.Buffer
	tracer, shutdown, err := telemetry.Setup(&buf, "test", true)
	require.NoError(t, err)

	engine, err := waterjug.New(waterjug.WithTracer(tracer))
	require.NoError(t, err)

	_, err = engine.Solve(context.Background(), domain.Problem{
		Capacities: domain.Capacities{Jug1: 4, Jug2: 3},
		Target:     2,
	})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, `"Name": "waterjug.Solve"`)
	assert.Contains(t, out, "waterjug.found")
}

func TestSetup_Disabled(t *testing.T) {
	var buf bytes.Buffer
	tracer, shutdown, err := telemetry.Setup(&buf, "test", false)
	require.NoError(t, err)
	require.NotNil(t, tracer)
	assert.NoError(t, shutdown(context.Background()))
	assert.Empty(t, buf.String())
}
