package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
)

// bindSubcompositor acquires the host wl_subcompositor and wires
// get_subsurface.
func bindSubcompositor(c *Client, newID uint32, version uint32) error {
	g, err := c.hostGlobalByInterface("wl_subcompositor")
	if err != nil {
		return err
	}
	hostSub, err := c.hostRegistry.BindSubcompositor(g.name, min(g.version, version))
	if err != nil {
		return err
	}

	serverSub := wlserver.NewSubcompositor(c.guest, newID, version)

	serverSub.SetGetSubsurfaceHandler(func(subID uint32, surface, parent *wlserver.Surface) (*wlserver.Subsurface, error) {
		sd, err := peerData[*SurfaceData]("Surface", surface)
		if err != nil {
			return nil, err
		}
		pd, err := peerData[*SurfaceData]("Surface", parent)
		if err != nil {
			return nil, err
		}
		hostSubsurface, err := hostSub.GetSubsurface(sd.Host, pd.Host)
		if err != nil {
			return nil, err
		}
		serverSubsurface := wlserver.NewSubsurface(c.guest, subID)
		attach(serverSubsurface, &SubsurfaceData{Host: hostSubsurface})
		wireSubsurface(serverSubsurface, hostSubsurface)
		return serverSubsurface, nil
	})

	serverSub.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostSub.Destroy, hostSub.OnDestroy},
			serverDeleter{serverSub.Destroy},
		)
	})

	return nil
}

// wireSubsurface attaches every guest wl_subsurface request to its host
// peer. place_above/place_below take a sibling wl_surface, which must be
// translated through SurfaceData like any other surface argument.
func wireSubsurface(serverSubsurface *wlserver.Subsurface, hostSubsurface *wlclient.Subsurface) {
	serverSubsurface.SetPlaceAboveHandler(func(sibling *wlserver.Surface) error {
		sd, err := peerData[*SurfaceData]("Surface", sibling)
		if err != nil {
			return err
		}
		return hostSubsurface.PlaceAbove(sd.Host)
	})
	serverSubsurface.SetPlaceBelowHandler(func(sibling *wlserver.Surface) error {
		sd, err := peerData[*SurfaceData]("Surface", sibling)
		if err != nil {
			return err
		}
		return hostSubsurface.PlaceBelow(sd.Host)
	})
	serverSubsurface.SetSetPositionHandler(func(x, y int32) error {
		return hostSubsurface.SetPosition(x, y)
	})
	serverSubsurface.SetSetSyncHandler(func() error {
		return hostSubsurface.SetSync()
	})
	serverSubsurface.SetSetDesyncHandler(func() error {
		return hostSubsurface.SetDesync()
	})
	serverSubsurface.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostSubsurface.Destroy, hostSubsurface.OnDestroy},
			serverDeleter{serverSubsurface.Destroy},
		)
	})
}
