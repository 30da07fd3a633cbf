package wlrelay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBindAccepts(t *testing.T) {
	entry, err := validateBind(2, "wl_shm", 1)
	require.NoError(t, err)
	assert.Equal(t, "wl_shm", entry.Interface)
}

func TestValidateBindRejectsOutOfRangeName(t *testing.T) {
	_, err := validateBind(uint32(len(catalog)), "wl_compositor", 1)
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestValidateBindRejectsOverVersion(t *testing.T) {
	_, err := validateBind(0, "wl_compositor", 99)
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestValidateBindRejectsInterfaceMismatch(t *testing.T) {
	_, err := validateBind(0, "wl_shm", 1)
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestValidateBindRejectsLargeOutOfRangeName(t *testing.T) {
	// An out-of-range bind, such as bind(999, "wl_compositor", 3), must
	// fail with a protocol error and no host interaction.
	_, err := validateBind(999, "wl_compositor", 3)
	require.Error(t, err)
	assert.True(t, IsProtocolError(err))
}

func TestCatalogOrderAndVersionCeilings(t *testing.T) {
	want := []struct {
		iface string
		max   uint32
	}{
		{"wl_compositor", 3},
		{"wl_subcompositor", 1},
		{"wl_shm", 1},
		{"xdg_wm_base", 1},
		{"wl_seat", 5},
		{"wl_output", 2},
		{"wl_data_device_manager", 3},
		{"zxdg_output_manager_v1", 3},
	}
	require.Len(t, catalog, len(want))
	for i, w := range want {
		assert.Equal(t, w.iface, catalog[i].Interface, "index %d", i)
		assert.Equal(t, w.max, catalog[i].MaxVersion, "index %d", i)
	}
}
