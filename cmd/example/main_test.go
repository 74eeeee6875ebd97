package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onlybrain/nn"
)

func TestBuildReferenceOutput(t *testing.T) {
	net, err := buildReference()
	require.NoError(t, err)

	out, err := net.FeedForward([]float64{0.5, 0.2})
	require.NoError(t, err)
	assert.InDelta(t, 0.8369914557347536, out[0], 1e-12)
	assert.InDelta(t, 0.7612802882893874, out[1], 1e-12)
}

func TestDescribe(t *testing.T) {
	net, err := buildReference()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, describe(&buf, net, 1, 0, 1))
	assert.Equal(t, "3\n2\n3\n2\n0.2\n", buf.String())
}

func TestDescribeReportsBadIndex(t *testing.T) {
	net, err := buildReference()
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.ErrorIs(t, describe(&buf, net, 0, 0, 1), nn.ErrLayerIndex)
	assert.ErrorIs(t, describe(&buf, net, 1, 0, 5), nn.ErrIndexOutOfRange)
}
