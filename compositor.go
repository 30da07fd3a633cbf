package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
)

// bindCompositor acquires the host wl_compositor and wires
// create_surface/create_region.
func bindCompositor(c *Client, newID uint32, version uint32) error {
	g, err := c.hostGlobalByInterface("wl_compositor")
	if err != nil {
		return err
	}
	hostComp, err := c.hostRegistry.BindCompositor(g.name, min(g.version, version))
	if err != nil {
		return err
	}

	serverComp := wlserver.NewCompositor(c.guest, newID, version)

	serverComp.SetCreateRegionHandler(func(regionID uint32) (*wlserver.Region, error) {
		hostRegion, err := hostComp.CreateRegion()
		if err != nil {
			return nil, err
		}
		serverRegion := wlserver.NewRegion(c.guest, regionID)
		attach(serverRegion, &RegionData{Host: hostRegion})
		wireRegion(serverRegion, hostRegion)
		return serverRegion, nil
	})

	serverComp.SetCreateSurfaceHandler(func(surfaceID uint32) (*wlserver.Surface, error) {
		serverSurface := wlserver.NewSurface(c.guest, surfaceID)
		hostSurface, err := hostComp.CreateSurface()
		if err != nil {
			return nil, err
		}
		attach(hostSurface, &HostSurfaceData{Server: serverSurface})
		attach(serverSurface, &SurfaceData{Host: hostSurface})
		wireSurface(c, serverSurface, hostSurface)
		return serverSurface, nil
	})

	return nil
}

func wireRegion(serverRegion *wlserver.Region, hostRegion *wlclient.Region) {
	serverRegion.SetAddHandler(func(x, y, w, h int32) error {
		return hostRegion.Add(x, y, w, h)
	})
	serverRegion.SetSubtractHandler(func(x, y, w, h int32) error {
		return hostRegion.Subtract(x, y, w, h)
	})
	serverRegion.SetDestroyHandler(func() error {
		return destroyPaired(
			hostDeleter{hostRegion.Destroy, hostRegion.OnDestroy},
			serverDeleter{serverRegion.Destroy},
		)
	})
}

// optionalHostRegion translates an optional guest wl_region (nil means
// "no region") to its host peer.
func optionalHostRegion(region *wlserver.Region) (*wlclient.Region, error) {
	if region == nil {
		return nil, nil
	}
	rd, err := peerData[*RegionData]("Region", region)
	if err != nil {
		return nil, err
	}
	return rd.Host, nil
}

// wireSurface attaches every guest wl_surface request handler and every
// host wl_surface event handler.
func wireSurface(c *Client, serverSurface *wlserver.Surface, hostSurface *wlclient.Surface) {
	hostSurface.SetEnterHandler(func(hostOutput *wlclient.Output) {
		od, err := peerData[*HostOutputData]("HostOutput", hostOutput)
		if err != nil {
			c.log.Error().Err(err).Msg("surface enter: unpaired host output")
			return
		}
		_ = serverSurface.SendEnterEvent(od.Server)
	})
	hostSurface.SetLeaveHandler(func(hostOutput *wlclient.Output) {
		od, err := peerData[*HostOutputData]("HostOutput", hostOutput)
		if err != nil {
			c.log.Error().Err(err).Msg("surface leave: unpaired host output")
			return
		}
		_ = serverSurface.SendLeaveEvent(od.Server)
	})

	serverSurface.SetAttachHandler(func(buffer *wlserver.Buffer, x, y int32) error {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return err
		}
		if buffer == nil {
			sd.ClientMemory = nil
			sd.HostMemory = nil
			return sd.Host.Attach(nil, x, y)
		}
		bd, err := peerData[*BufferData]("Buffer", buffer)
		if err != nil {
			return err
		}
		sd.ClientMemory = bd.ClientMemory
		sd.HostMemory = bd.HostMemory
		return sd.Host.Attach(bd.Host, x, y)
	})

	serverSurface.SetCommitHandler(func() error {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return err
		}
		// Full-buffer blit regardless of accumulated damage: tracking a
		// damage-rectangle union and only re-copying that region is a
		// future optimization, not implemented here.
		n := len(sd.ClientMemory)
		if n > len(sd.HostMemory) {
			n = len(sd.HostMemory)
		}
		copy(sd.HostMemory[:n], sd.ClientMemory[:n])
		return sd.Host.Commit()
	})

	serverSurface.SetDamageHandler(func(x, y, w, h int32) error {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return err
		}
		return sd.Host.Damage(x, y, w, h)
	})

	serverSurface.SetFrameHandler(func(callbackID uint32) (*wlserver.Callback, error) {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return nil, err
		}
		serverCB := wlserver.NewCallback(c.guest, callbackID)
		if err := bindFrameCallback(sd.Host, serverCB); err != nil {
			return nil, err
		}
		return serverCB, nil
	})

	serverSurface.SetSetInputRegionHandler(func(region *wlserver.Region) error {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return err
		}
		hostRegion, err := optionalHostRegion(region)
		if err != nil {
			return err
		}
		return sd.Host.SetInputRegion(hostRegion)
	})

	serverSurface.SetSetOpaqueRegionHandler(func(region *wlserver.Region) error {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return err
		}
		hostRegion, err := optionalHostRegion(region)
		if err != nil {
			return err
		}
		return sd.Host.SetOpaqueRegion(hostRegion)
	})

	serverSurface.SetSetBufferScaleHandler(func(scale int32) error {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return err
		}
		return sd.Host.SetBufferScale(scale)
	})

	serverSurface.SetSetBufferTransformHandler(func(transform int32) error {
		// Unsupported: fails the request rather than forwarding it.
		return protocolErrorf("wl_surface", "set_buffer_transform is not supported by this relay")
	})

	serverSurface.SetDestroyHandler(func() error {
		sd, err := peerData[*SurfaceData]("Surface", serverSurface)
		if err != nil {
			return err
		}
		return destroyPaired(
			hostDeleter{sd.Host.Destroy, sd.Host.OnDestroy},
			serverDeleter{serverSurface.Destroy},
		)
	})
}
