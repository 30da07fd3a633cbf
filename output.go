package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
)

// bindOutput acquires one host wl_output and forwards its geometry, mode,
// scale and done events verbatim. Each bind creates an independent pair,
// matching wl_output's per-bind semantics: a guest that binds the same
// global twice gets two server proxies, each paired with its own host
// proxy.
func bindOutput(c *Client, newID uint32, version uint32) error {
	g, err := c.hostGlobalByInterface("wl_output")
	if err != nil {
		return err
	}
	hostOutput, err := c.hostRegistry.BindOutput(g.name, min(g.version, version))
	if err != nil {
		return err
	}

	serverOutput := wlserver.NewOutput(c.guest, newID, version)
	attach(hostOutput, &HostOutputData{Server: serverOutput})
	attach(serverOutput, &OutputData{Host: hostOutput})

	hostOutput.SetGeometryHandler(func(x, y, physW, physH, subpixel int32, make_, model string, transform int32) {
		_ = serverOutput.SendGeometryEvent(x, y, physW, physH, subpixel, make_, model, transform)
	})
	hostOutput.SetModeHandler(func(flags uint32, width, height, refresh int32) {
		_ = serverOutput.SendModeEvent(flags, width, height, refresh)
	})
	hostOutput.SetScaleHandler(func(factor int32) {
		_ = serverOutput.SendScaleEvent(factor)
	})
	hostOutput.SetDoneHandler(func() {
		_ = serverOutput.SendDoneEvent()
	})

	serverOutput.SetReleaseHandler(func() error {
		return destroyPaired(
			hostDeleter{hostOutput.Release, hostOutput.OnDestroy},
			serverDeleter{serverOutput.Destroy},
		)
	})

	return nil
}

// bindXdgOutputManager acquires the host zxdg_output_manager_v1 and wires
// get_xdg_output, which augments an already-bound wl_output pair with the
// logical geometry events.
func bindXdgOutputManager(c *Client, newID uint32, version uint32) error {
	g, err := c.hostGlobalByInterface("zxdg_output_manager_v1")
	if err != nil {
		return err
	}
	hostMgr, err := c.hostRegistry.BindXdgOutputManager(g.name, min(g.version, version))
	if err != nil {
		return err
	}

	serverMgr := wlserver.NewXdgOutputManager(c.guest, newID, version)

	serverMgr.SetGetXdgOutputHandler(func(xdgOutputID uint32, output *wlserver.Output) (*wlserver.XdgOutput, error) {
		od, err := peerData[*OutputData]("Output", output)
		if err != nil {
			return nil, err
		}
		hostXdgOutput, err := hostMgr.GetXdgOutput(od.Host)
		if err != nil {
			return nil, err
		}
		serverXdgOutput := wlserver.NewXdgOutput(c.guest, xdgOutputID)
		wireXdgOutput(serverXdgOutput, hostXdgOutput)
		return serverXdgOutput, nil
	})

	serverMgr.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostMgr.Destroy, hostMgr.OnDestroy},
			serverDeleter{serverMgr.Destroy},
		)
	})

	return nil
}

func wireXdgOutput(serverXdgOutput *wlserver.XdgOutput, hostXdgOutput *wlclient.XdgOutput) {
	hostXdgOutput.SetLogicalPositionHandler(func(x, y int32) {
		_ = serverXdgOutput.SendLogicalPositionEvent(x, y)
	})
	hostXdgOutput.SetLogicalSizeHandler(func(w, h int32) {
		_ = serverXdgOutput.SendLogicalSizeEvent(w, h)
	})
	hostXdgOutput.SetNameHandler(func(name string) {
		_ = serverXdgOutput.SendNameEvent(name)
	})
	hostXdgOutput.SetDescriptionHandler(func(description string) {
		_ = serverXdgOutput.SendDescriptionEvent(description)
	})
	hostXdgOutput.SetDoneHandler(func() {
		_ = serverXdgOutput.SendDoneEvent()
	})
	serverXdgOutput.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostXdgOutput.Destroy, hostXdgOutput.OnDestroy},
			serverDeleter{serverXdgOutput.Destroy},
		)
	})
}
