package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
)

// bindFrameCallback requests a host frame callback for hostSurface and
// arranges for its done event to be forwarded to serverCallback. Once
// forwarded, both the host and server callback proxies are dropped —
// wl_callback is single-shot.
func bindFrameCallback(hostSurface *wlclient.Surface, serverCallback *wlserver.Callback) error {
	hostCB, err := hostSurface.Frame()
	if err != nil {
		return err
	}
	hostCB.SetDoneHandler(func(data uint32) {
		_ = serverCallback.SendDoneEvent(data)
		destroyCallback(serverDeleter{serverCallback.Destroy})
	})
	return nil
}
