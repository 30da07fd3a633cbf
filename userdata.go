package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
)

// userDataHolder is satisfied by every host- and server-role proxy the
// codec hands us: both wlclient and wlserver generated types carry a
// per-proxy user-data slot via this pair of methods.
type userDataHolder interface {
	UserData() any
	SetUserData(any)
}

// attach stores data as p's user data. It exists mostly so every binder
// writes "attach(proxy, data)" instead of a bare SetUserData call,
// matching the shape of the role-specific structs below.
func attach[T any](p userDataHolder, data T) {
	p.SetUserData(data)
}

// peerData downcasts p's user data to T. A mismatch is an engine bug, so
// this never returns a zero value silently — it fails loudly instead of
// misbehaving quietly; role names the high level role being asserted,
// for the error message.
func peerData[T any](role string, p userDataHolder) (T, error) {
	v, ok := p.UserData().(T)
	if !ok {
		var zero T
		return zero, badUserData(role, p.UserData())
	}
	return v, nil
}

// Server-role proxy user data: one struct per guest-visible proxy type
// that needs a host peer, plus the popup/subsurface/input roles.

// RegionData is attached to a guest wl_region.
type RegionData struct {
	Host *wlclient.Region
}

// SurfaceData is attached to a guest wl_surface. ClientMemory and
// HostMemory reflect the most recent attach (empty if detached) and are
// only read during commit.
type SurfaceData struct {
	Host         *wlclient.Surface
	ClientMemory []byte
	HostMemory   []byte
}

// BufferData is attached to a guest wl_buffer.
type BufferData struct {
	Host         *wlclient.Buffer
	HostMemory   []byte
	ClientMemory []byte
	// pool back-references the mapping these slices were cut from, so
	// a later pool resize can keep the mapping alive for as long as
	// any buffer still references it.
	pool *poolMapping
}

// SeatData is attached to a guest wl_seat.
type SeatData struct {
	Host *wlclient.Seat
	Mask SeatCapability
}

// OutputData is attached to a guest wl_output.
type OutputData struct {
	Host *wlclient.Output
}

// ToplevelData is attached to a guest xdg_toplevel.
type ToplevelData struct {
	Host *wlclient.Toplevel
}

// XdgSurfaceData is attached to a guest xdg_surface.
type XdgSurfaceData struct {
	Host *wlclient.XdgSurface
}

// XdgPositionerData is attached to a guest xdg_positioner.
type XdgPositionerData struct {
	Host *wlclient.Positioner
}

// PopupData is attached to a guest xdg_popup.
type PopupData struct {
	Host *wlclient.Popup
}

// SubsurfaceData is attached to a guest wl_subsurface.
type SubsurfaceData struct {
	Host *wlclient.Subsurface
}

// KeyboardData is attached to a guest wl_keyboard.
type KeyboardData struct {
	Host *wlclient.Keyboard
}

// PointerData is attached to a guest wl_pointer.
type PointerData struct {
	Host *wlclient.Pointer
}

// DataDeviceData is attached to a guest wl_data_device; the path is a
// stub so there is nothing to pair, but every server proxy still
// carries user data identifying its role.
type DataDeviceData struct{}

// Host-role proxy user data. These are non-owning back-references: the
// server proxy owns the host proxy through the structs above, and these
// merely let a host event name its server peer.

// HostSurfaceData is attached to the host wl_surface created for a
// guest surface.
type HostSurfaceData struct {
	Server *wlserver.Surface
}

// HostOutputData is attached to the host wl_output created when the
// relay binds the host registry's output global.
type HostOutputData struct {
	Server *wlserver.Output
}
