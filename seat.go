package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
	"golang.org/x/sys/unix"
)

// SeatCapability mirrors the wl_seat capability bitmask.
type SeatCapability uint32

const (
	SeatCapabilityPointer SeatCapability = 1 << iota
	SeatCapabilityKeyboard
	SeatCapabilityTouch
)

// maskCapabilities narrows the host-announced capability bits to the set
// the relay is configured to forward. Touch is never forwarded regardless
// of the mask, since get_touch has no host-side wiring in this relay.
func maskCapabilities(hostCaps uint32, allowed SeatCapability) uint32 {
	return hostCaps & uint32(allowed) &^ uint32(SeatCapabilityTouch)
}

// bindSeat acquires the host wl_seat and forwards its capability and name
// events, masked to the relay's configured capability set, plus
// get_pointer/get_keyboard. get_touch is refused outright: no touch
// input path exists on the host side of this relay.
func bindSeat(c *Client, newID uint32, version uint32) error {
	g, err := c.hostGlobalByInterface("wl_seat")
	if err != nil {
		return err
	}
	hostSeat, err := c.hostRegistry.BindSeat(g.name, min(g.version, version))
	if err != nil {
		return err
	}

	serverSeat := wlserver.NewSeat(c.guest, newID, version)
	sd := &SeatData{Host: hostSeat, Mask: c.cfg.Capabilities}
	attach(serverSeat, sd)

	hostSeat.SetCapabilitiesHandler(func(caps uint32) {
		_ = serverSeat.SendCapabilitiesEvent(maskCapabilities(caps, sd.Mask))
	})
	hostSeat.SetNameHandler(func(name string) {
		_ = serverSeat.SendNameEvent(name)
	})

	serverSeat.SetGetPointerHandler(func(pointerID uint32) (*wlserver.Pointer, error) {
		hostPointer, err := hostSeat.GetPointer()
		if err != nil {
			return nil, err
		}
		serverPointer := wlserver.NewPointer(c.guest, pointerID)
		attach(serverPointer, &PointerData{Host: hostPointer})
		wirePointer(c, serverPointer, hostPointer)
		return serverPointer, nil
	})

	serverSeat.SetGetKeyboardHandler(func(keyboardID uint32) (*wlserver.Keyboard, error) {
		hostKeyboard, err := hostSeat.GetKeyboard()
		if err != nil {
			return nil, err
		}
		serverKeyboard := wlserver.NewKeyboard(c.guest, keyboardID)
		attach(serverKeyboard, &KeyboardData{Host: hostKeyboard})
		wireKeyboard(c, serverKeyboard, hostKeyboard)
		return serverKeyboard, nil
	})

	serverSeat.SetGetTouchHandler(func(touchID uint32) (*wlserver.Touch, error) {
		return nil, protocolErrorf("wl_seat", "get_touch is not supported by this relay")
	})

	serverSeat.SetReleaseHandler(func() error {
		return destroyPaired(
			hostDeleter{hostSeat.Release, hostSeat.OnDestroy},
			serverDeleter{serverSeat.Destroy},
		)
	})

	return nil
}

// serverSurfaceFromHost translates a host-role wl_surface event argument
// to its guest-facing peer, logging and dropping the event if the surface
// is unpaired (can legitimately happen if the guest already destroyed it
// and the host event raced the deletion acknowledgement).
func serverSurfaceFromHost(c *Client, hostSurface *wlclient.Surface) (*wlserver.Surface, bool) {
	if hostSurface == nil {
		return nil, true
	}
	hd, err := peerData[*HostSurfaceData]("HostSurface", hostSurface)
	if err != nil {
		c.log.Debug().Err(err).Msg("input event targets an unpaired surface")
		return nil, false
	}
	return hd.Server, true
}

func wirePointer(c *Client, serverPointer *wlserver.Pointer, hostPointer *wlclient.Pointer) {
	hostPointer.SetEnterHandler(func(serial uint32, surface *wlclient.Surface, x, y float64) {
		srv, ok := serverSurfaceFromHost(c, surface)
		if !ok {
			return
		}
		_ = serverPointer.SendEnterEvent(serial, srv, x, y)
	})
	hostPointer.SetLeaveHandler(func(serial uint32, surface *wlclient.Surface) {
		srv, ok := serverSurfaceFromHost(c, surface)
		if !ok {
			return
		}
		_ = serverPointer.SendLeaveEvent(serial, srv)
	})
	hostPointer.SetMotionHandler(func(time uint32, x, y float64) {
		_ = serverPointer.SendMotionEvent(time, x, y)
	})
	hostPointer.SetButtonHandler(func(serial, time, button, state uint32) {
		_ = serverPointer.SendButtonEvent(serial, time, button, state)
	})
	hostPointer.SetAxisHandler(func(time, axis uint32, value float64) {
		_ = serverPointer.SendAxisEvent(time, axis, value)
	})
	hostPointer.SetFrameHandler(func() {
		_ = serverPointer.SendFrameEvent()
	})

	serverPointer.SetSetCursorHandler(func(serial uint32, surface *wlserver.Surface, hotspotX, hotspotY int32) error {
		if surface == nil {
			return hostPointer.SetCursor(serial, nil, hotspotX, hotspotY)
		}
		sd, err := peerData[*SurfaceData]("Surface", surface)
		if err != nil {
			return err
		}
		return hostPointer.SetCursor(serial, sd.Host, hotspotX, hotspotY)
	})
	serverPointer.SetReleaseHandler(func() error {
		return destroyPaired(
			hostDeleter{hostPointer.Release, hostPointer.OnDestroy},
			serverDeleter{serverPointer.Destroy},
		)
	})
}

func wireKeyboard(c *Client, serverKeyboard *wlserver.Keyboard, hostKeyboard *wlclient.Keyboard) {
	hostKeyboard.SetKeymapHandler(func(format uint32, fd int, size uint32) {
		_ = serverKeyboard.SendKeymapEvent(format, fd, size)
		_ = unix.Close(fd)
	})
	hostKeyboard.SetEnterHandler(func(serial uint32, surface *wlclient.Surface, keys []byte) {
		srv, ok := serverSurfaceFromHost(c, surface)
		if !ok {
			return
		}
		_ = serverKeyboard.SendEnterEvent(serial, srv, keys)
	})
	hostKeyboard.SetLeaveHandler(func(serial uint32, surface *wlclient.Surface) {
		srv, ok := serverSurfaceFromHost(c, surface)
		if !ok {
			return
		}
		_ = serverKeyboard.SendLeaveEvent(serial, srv)
	})
	hostKeyboard.SetKeyHandler(func(serial, time, key, state uint32) {
		_ = serverKeyboard.SendKeyEvent(serial, time, key, state)
	})
	hostKeyboard.SetModifiersHandler(func(serial, depressed, latched, locked, group uint32) {
		_ = serverKeyboard.SendModifiersEvent(serial, depressed, latched, locked, group)
	})
	hostKeyboard.SetRepeatInfoHandler(func(rate, delay int32) {
		_ = serverKeyboard.SendRepeatInfoEvent(rate, delay)
	})

	serverKeyboard.SetReleaseHandler(func() error {
		return destroyPaired(
			hostDeleter{hostKeyboard.Release, hostKeyboard.OnDestroy},
			serverDeleter{serverKeyboard.Destroy},
		)
	})
}
