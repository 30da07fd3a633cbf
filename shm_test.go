package wlrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferSlicesCutsIdenticalRangeFromBothMappings(t *testing.T) {
	mapping := &poolMapping{
		clientMemory: make([]byte, 64),
		hostMemory:   make([]byte, 64),
		size:         64,
	}
	hostSlice, clientSlice, err := bufferSlices(mapping, 8, 4, 8)
	require.NoError(t, err)
	assert.Len(t, hostSlice, 32)
	assert.Len(t, clientSlice, 32)
}

func TestBufferSlicesRejectsRangeExceedingPoolSize(t *testing.T) {
	mapping := &poolMapping{
		clientMemory: make([]byte, 16),
		hostMemory:   make([]byte, 16),
		size:         16,
	}
	_, _, err := bufferSlices(mapping, 8, 4, 8)
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestBufferSlicesRejectsNegativeGeometry(t *testing.T) {
	mapping := &poolMapping{
		clientMemory: make([]byte, 16),
		hostMemory:   make([]byte, 16),
		size:         16,
	}
	_, _, err := bufferSlices(mapping, -1, 4, 8)
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestPoolMappingRefIncrementsCount(t *testing.T) {
	mapping := newPoolMapping(nil, nil, nil, 0)
	mapping.ref()
	assert.Equal(t, 2, mapping.refs)
}
