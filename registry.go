package wlrelay

import (
	"github.com/neurlang/wayland/wlserver"
)

// globalEntry is one row of the fixed, ordered catalog the registry
// dispatcher advertises to the guest. Its index in catalog is the
// numeric "name" used on the wire.
type globalEntry struct {
	Interface  string
	MaxVersion uint32
	Bind       func(c *Client, newID uint32, version uint32) error
}

// catalog is the fixed, ordered set of globals this relay supports. The
// order matters: it fixes the numeric names advertised to every guest,
// and must not change within a running relay (clients that bound name 2
// expect it to keep meaning wl_shm).
var catalog = []globalEntry{
	{Interface: "wl_compositor", MaxVersion: 3, Bind: bindCompositor},
	{Interface: "wl_subcompositor", MaxVersion: 1, Bind: bindSubcompositor},
	{Interface: "wl_shm", MaxVersion: 1, Bind: bindShm},
	{Interface: "xdg_wm_base", MaxVersion: 1, Bind: bindWmBase},
	{Interface: "wl_seat", MaxVersion: 5, Bind: bindSeat},
	{Interface: "wl_output", MaxVersion: 2, Bind: bindOutput},
	{Interface: "wl_data_device_manager", MaxVersion: 3, Bind: bindDataDeviceManager},
	{Interface: "zxdg_output_manager_v1", MaxVersion: 3, Bind: bindXdgOutputManager},
}

// validateBind implements the three checks required before a bind may
// be dispatched: the name must be in range, the requested
// version must not exceed the entry's maximum, and the guest-declared
// interface of new_id must match the entry's interface. It is kept free
// of any codec dependency so it can be exercised directly by tests.
func validateBind(name uint32, iface string, version uint32) (globalEntry, error) {
	if int(name) >= len(catalog) {
		return globalEntry{}, protocolErrorf("wl_registry", "bind: name %d out of range [0,%d)", name, len(catalog))
	}
	entry := catalog[name]
	if version > entry.MaxVersion {
		return globalEntry{}, protocolErrorf("wl_registry", "bind: name %d (%s) version %d exceeds max %d",
			name, entry.Interface, version, entry.MaxVersion)
	}
	if iface != entry.Interface {
		return globalEntry{}, protocolErrorf("wl_registry", "bind: name %d is %s, not %s",
			name, entry.Interface, iface)
	}
	return entry, nil
}

// installRegistry wires the catalog into the guest-facing wl_registry:
// every entry is advertised once as a global event, and bind requests
// are validated and dispatched to the matching binder.
func installRegistry(c *Client, reg *wlserver.Registry) {
	c.registry = reg
	for name, entry := range catalog {
		if err := reg.SendGlobalEvent(uint32(name), entry.Interface, entry.MaxVersion); err != nil {
			c.log.Error().Err(err).Str("interface", entry.Interface).Msg("failed to advertise global")
		}
	}
	reg.SetBindHandler(func(name uint32, iface string, version uint32, newID uint32) error {
		entry, err := validateBind(name, iface, version)
		if err != nil {
			c.log.Warn().Err(err).Msg("guest registry bind rejected")
			return err
		}
		c.log.Debug().Str("interface", entry.Interface).Uint32("version", version).Msg("binding global")
		return entry.Bind(c, newID, version)
	})
}
