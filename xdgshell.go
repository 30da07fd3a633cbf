package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
)

// taggedTitle prepends the configured tag to a guest-supplied toplevel
// title verbatim, so a user can tell guest windows apart from
// host-native ones. The caller owns any separator it wants between tag
// and title — concatenation here is exact, with no trimming or inserted
// whitespace.
func taggedTitle(tag, title string) string {
	return tag + title
}

// bindWmBase acquires the host xdg_wm_base and wires ping/pong,
// create_positioner and get_xdg_surface.
func bindWmBase(c *Client, newID uint32, version uint32) error {
	g, err := c.hostGlobalByInterface("xdg_wm_base")
	if err != nil {
		return err
	}
	hostBase, err := c.hostRegistry.BindWmBase(g.name, min(g.version, version))
	if err != nil {
		return err
	}

	serverBase := wlserver.NewWmBase(c.guest, newID, version)

	hostBase.SetPingHandler(func(serial uint32) {
		_ = serverBase.SendPingEvent(serial)
	})
	serverBase.SetPongHandler(func(serial uint32) error {
		return hostBase.Pong(serial)
	})

	serverBase.SetCreatePositionerHandler(func(newPosID uint32) (*wlserver.Positioner, error) {
		hostPos, err := hostBase.CreatePositioner()
		if err != nil {
			return nil, err
		}
		serverPos := wlserver.NewPositioner(c.guest, newPosID)
		attach(serverPos, &XdgPositionerData{Host: hostPos})
		wirePositioner(serverPos, hostPos)
		return serverPos, nil
	})

	serverBase.SetGetXdgSurfaceHandler(func(newSurfID uint32, surface *wlserver.Surface) (*wlserver.XdgSurface, error) {
		sd, err := peerData[*SurfaceData]("Surface", surface)
		if err != nil {
			return nil, err
		}
		hostXdgSurface, err := hostBase.GetXdgSurface(sd.Host)
		if err != nil {
			return nil, err
		}
		serverXdgSurface := wlserver.NewXdgSurface(c.guest, newSurfID)
		attach(serverXdgSurface, &XdgSurfaceData{Host: hostXdgSurface})
		wireXdgSurface(c, serverXdgSurface, hostXdgSurface)
		return serverXdgSurface, nil
	})

	serverBase.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostBase.Destroy, hostBase.OnDestroy},
			serverDeleter{serverBase.Destroy},
		)
	})

	return nil
}

func wirePositioner(serverPos *wlserver.Positioner, hostPos *wlclient.Positioner) {
	serverPos.SetSetSizeHandler(func(w, h int32) error {
		return hostPos.SetSize(w, h)
	})
	serverPos.SetSetAnchorRectHandler(func(x, y, w, h int32) error {
		return hostPos.SetAnchorRect(x, y, w, h)
	})
	serverPos.SetSetAnchorHandler(func(anchor uint32) error {
		return hostPos.SetAnchor(anchor)
	})
	serverPos.SetSetGravityHandler(func(gravity uint32) error {
		return hostPos.SetGravity(gravity)
	})
	serverPos.SetSetConstraintAdjustmentHandler(func(adjustment uint32) error {
		return hostPos.SetConstraintAdjustment(adjustment)
	})
	serverPos.SetSetOffsetHandler(func(x, y int32) error {
		return hostPos.SetOffset(x, y)
	})
	serverPos.SetSetReactiveHandler(func() error {
		return hostPos.SetReactive()
	})
	serverPos.SetSetParentSizeHandler(func(w, h int32) error {
		return hostPos.SetParentSize(w, h)
	})
	serverPos.SetSetParentConfigureHandler(func(serial uint32) error {
		return hostPos.SetParentConfigure(serial)
	})
	serverPos.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostPos.Destroy, hostPos.OnDestroy},
			serverDeleter{serverPos.Destroy},
		)
	})
}

func wireXdgSurface(c *Client, serverXdgSurface *wlserver.XdgSurface, hostXdgSurface *wlclient.XdgSurface) {
	hostXdgSurface.SetConfigureHandler(func(serial uint32) {
		_ = serverXdgSurface.SendConfigureEvent(serial)
	})

	serverXdgSurface.SetGetToplevelHandler(func(newID uint32) (*wlserver.Toplevel, error) {
		hostToplevel, err := hostXdgSurface.GetToplevel()
		if err != nil {
			return nil, err
		}
		serverToplevel := wlserver.NewToplevel(c.guest, newID)
		attach(serverToplevel, &ToplevelData{Host: hostToplevel})
		wireToplevel(c, serverToplevel, hostToplevel)
		return serverToplevel, nil
	})

	serverXdgSurface.SetGetPopupHandler(func(newID uint32, parent *wlserver.XdgSurface, positioner *wlserver.Positioner) (*wlserver.Popup, error) {
		posData, err := peerData[*XdgPositionerData]("Positioner", positioner)
		if err != nil {
			return nil, err
		}
		var hostParent *wlclient.XdgSurface
		if parent != nil {
			pd, err := peerData[*XdgSurfaceData]("XdgSurface", parent)
			if err != nil {
				return nil, err
			}
			hostParent = pd.Host
		}
		hostPopup, err := hostXdgSurface.GetPopup(hostParent, posData.Host)
		if err != nil {
			return nil, err
		}
		serverPopup := wlserver.NewPopup(c.guest, newID)
		attach(serverPopup, &PopupData{Host: hostPopup})
		wirePopup(serverPopup, hostPopup)
		return serverPopup, nil
	})

	serverXdgSurface.SetSetWindowGeometryHandler(func(x, y, w, h int32) error {
		return hostXdgSurface.SetWindowGeometry(x, y, w, h)
	})

	serverXdgSurface.SetAckConfigureHandler(func(serial uint32) error {
		return hostXdgSurface.AckConfigure(serial)
	})

	serverXdgSurface.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostXdgSurface.Destroy, hostXdgSurface.OnDestroy},
			serverDeleter{serverXdgSurface.Destroy},
		)
	})
}

func wireToplevel(c *Client, serverToplevel *wlserver.Toplevel, hostToplevel *wlclient.Toplevel) {
	hostToplevel.SetConfigureHandler(func(width, height int32, states []byte) {
		_ = serverToplevel.SendConfigureEvent(width, height, states)
	})
	hostToplevel.SetCloseHandler(func() {
		_ = serverToplevel.SendCloseEvent()
	})
	hostToplevel.SetConfigureBoundsHandler(func(width, height int32) {
		_ = serverToplevel.SendConfigureBoundsEvent(width, height)
	})
	hostToplevel.SetWmCapabilitiesHandler(func(capabilities []byte) {
		_ = serverToplevel.SendWmCapabilitiesEvent(capabilities)
	})

	serverToplevel.SetSetParentHandler(func(parent *wlserver.Toplevel) error {
		if parent == nil {
			return hostToplevel.SetParent(nil)
		}
		pd, err := peerData[*ToplevelData]("Toplevel", parent)
		if err != nil {
			return err
		}
		return hostToplevel.SetParent(pd.Host)
	})
	serverToplevel.SetSetTitleHandler(func(title string) error {
		return hostToplevel.SetTitle(taggedTitle(c.cfg.Tag, title))
	})
	serverToplevel.SetSetAppIdHandler(func(appID string) error {
		return hostToplevel.SetAppId(appID)
	})
	serverToplevel.SetShowWindowMenuHandler(func(seat *wlserver.Seat, serial uint32, x, y int32) error {
		sd, err := peerData[*SeatData]("Seat", seat)
		if err != nil {
			return err
		}
		return hostToplevel.ShowWindowMenu(sd.Host, serial, x, y)
	})
	serverToplevel.SetMoveHandler(func(seat *wlserver.Seat, serial uint32) error {
		sd, err := peerData[*SeatData]("Seat", seat)
		if err != nil {
			return err
		}
		return hostToplevel.Move(sd.Host, serial)
	})
	serverToplevel.SetResizeHandler(func(seat *wlserver.Seat, serial uint32, edges uint32) error {
		sd, err := peerData[*SeatData]("Seat", seat)
		if err != nil {
			return err
		}
		return hostToplevel.Resize(sd.Host, serial, edges)
	})
	serverToplevel.SetSetMaxSizeHandler(func(w, h int32) error {
		return hostToplevel.SetMaxSize(w, h)
	})
	serverToplevel.SetSetMinSizeHandler(func(w, h int32) error {
		return hostToplevel.SetMinSize(w, h)
	})
	serverToplevel.SetSetMaximizedHandler(func() error {
		return hostToplevel.SetMaximized()
	})
	serverToplevel.SetUnsetMaximizedHandler(func() error {
		return hostToplevel.UnsetMaximized()
	})
	serverToplevel.SetSetFullscreenHandler(func(output *wlserver.Output) error {
		if output == nil {
			return hostToplevel.SetFullscreen(nil)
		}
		od, err := peerData[*OutputData]("Output", output)
		if err != nil {
			return err
		}
		return hostToplevel.SetFullscreen(od.Host)
	})
	serverToplevel.SetUnsetFullscreenHandler(func() error {
		return hostToplevel.UnsetFullscreen()
	})
	serverToplevel.SetSetMinimizedHandler(func() error {
		return hostToplevel.SetMinimized()
	})
	serverToplevel.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostToplevel.Destroy, hostToplevel.OnDestroy},
			serverDeleter{serverToplevel.Destroy},
		)
	})
}

func wirePopup(serverPopup *wlserver.Popup, hostPopup *wlclient.Popup) {
	hostPopup.SetConfigureHandler(func(x, y, w, h int32) {
		_ = serverPopup.SendConfigureEvent(x, y, w, h)
	})
	hostPopup.SetPopupDoneHandler(func() {
		_ = serverPopup.SendPopupDoneEvent()
	})
	hostPopup.SetRepositionedHandler(func(token uint32) {
		_ = serverPopup.SendRepositionedEvent(token)
	})

	serverPopup.SetGrabHandler(func(seat *wlserver.Seat, serial uint32) error {
		sd, err := peerData[*SeatData]("Seat", seat)
		if err != nil {
			return err
		}
		return hostPopup.Grab(sd.Host, serial)
	})
	serverPopup.SetRepositionHandler(func(positioner *wlserver.Positioner, token uint32) error {
		posData, err := peerData[*XdgPositionerData]("Positioner", positioner)
		if err != nil {
			return err
		}
		return hostPopup.Reposition(posData.Host, token)
	})
	serverPopup.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostPopup.Destroy, hostPopup.OnDestroy},
			serverDeleter{serverPopup.Destroy},
		)
	})
}
