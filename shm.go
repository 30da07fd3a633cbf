package wlrelay

import (
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
	"golang.org/x/sys/unix"
)

// poolMapping is the double-mapped shared-memory pool: a guest pool's
// client FD mapped read/write, a parallel host-visible FD and mapping of
// identical size, and the host pool proxy created from it.
//
// A guest wl_shm_pool's *identity* survives a resize, but its *mapping*
// does not — resize destroys the old host pool and allocates a fresh
// one. The superseded mapping is kept alive by reference count for as
// long as any buffer created from it still exists, instead of being
// unmapped out from under live buffers.
type poolMapping struct {
	hostPool     *wlclient.ShmPool
	clientMemory []byte
	hostMemory   []byte
	size         int32
	refs         int
}

func newPoolMapping(hostPool *wlclient.ShmPool, clientMemory, hostMemory []byte, size int32) *poolMapping {
	return &poolMapping{hostPool: hostPool, clientMemory: clientMemory, hostMemory: hostMemory, size: size, refs: 1}
}

func (m *poolMapping) ref() { m.refs++ }

// unref drops a reference and, once nothing references the mapping any
// longer, unmaps both sides and destroys the host pool proxy unless the
// pool's destroy path has already destroyed it. Used for a buffer's
// destroy and for the pool's own reference to a mapping it has just
// superseded via resize. A superseded mapping has no guest-visible
// counterpart waiting on an acknowledgement, so it is torn down
// immediately rather than through the destruction protocol.
func (m *poolMapping) unref() {
	m.refs--
	if m.refs > 0 {
		return
	}
	m.unmap()
	if m.hostPool != nil {
		_ = m.hostPool.Destroy()
	}
}

// releasePoolRef drops the pool's own reference to its current mapping
// when the pool itself is being destroyed. The host pool proxy is
// already destroyed by destroyPaired's hostDeleter in that path, so this
// only unmaps once nothing else references the mapping, and it forgets
// the host pool proxy so that a buffer outliving the pool does not
// destroy it a second time from unref.
func (m *poolMapping) releasePoolRef() {
	m.hostPool = nil
	m.refs--
	if m.refs > 0 {
		return
	}
	m.unmap()
}

func (m *poolMapping) unmap() {
	if len(m.clientMemory) > 0 {
		_ = unix.Munmap(m.clientMemory)
	}
	if len(m.hostMemory) > 0 {
		_ = unix.Munmap(m.hostMemory)
	}
}

// bufferSlices computes the client- and host-memory slices for a buffer
// of the given geometry cut from mapping: length = height * stride,
// and both mappings are sliced at the identical [offset, offset+length)
// range. It is pure so the offset/length arithmetic can be tested
// without any wire codec involved.
func bufferSlices(mapping *poolMapping, offset, height, stride int32) (hostSlice, clientSlice []byte, err error) {
	if height < 0 || stride < 0 || offset < 0 {
		return nil, nil, protocolErrorf("wl_shm_pool", "create_buffer: negative offset/height/stride")
	}
	length := int64(height) * int64(stride)
	end := int64(offset) + length
	if end > int64(mapping.size) {
		return nil, nil, protocolErrorf("wl_shm_pool", "create_buffer: [%d,%d) exceeds pool size %d", offset, end, mapping.size)
	}
	return mapping.hostMemory[offset:end:end], mapping.clientMemory[offset:end:end], nil
}

// PoolData is the server-role user data for a guest wl_shm_pool. The
// pool's server proxy identity is stable across resize; current is
// swapped out for a fresh poolMapping each time.
type PoolData struct {
	clientFD int
	current  *poolMapping
}

// createHostPool allocates a host-visible FD of the same size via the
// transport allocator, maps both the client and host FDs, and creates
// the host pool proxy.
func createHostPool(host *wlclient.Shm, alloc HostAllocator, clientFD int, size int32) (*poolMapping, error) {
	clientMemory, err := unix.Mmap(clientFD, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fatalf("guest", err)
	}

	hostFD, err := alloc.Alloc(size)
	if err != nil {
		_ = unix.Munmap(clientMemory)
		return nil, fatalf("host", err)
	}
	// Host-allocated FDs are scoped to this mapping operation: the
	// mapping is retained, the FD is closed immediately after mapping.
	defer unix.Close(hostFD)

	hostMemory, err := alloc.MapFile(hostFD, size)
	if err != nil {
		_ = unix.Munmap(clientMemory)
		return nil, fatalf("host", err)
	}

	hostPool, err := host.CreatePool(hostFD, size)
	if err != nil {
		_ = unix.Munmap(clientMemory)
		return nil, fatalf("host", err)
	}

	return newPoolMapping(hostPool, clientMemory, hostMemory, size), nil
}

// bindShm acquires the host wl_shm and wires create_pool. Host format
// events are forwarded to the guest verbatim.
func bindShm(c *Client, newID uint32, version uint32) error {
	g, err := c.hostGlobalByInterface("wl_shm")
	if err != nil {
		return err
	}
	hostShm, err := c.hostRegistry.BindShm(g.name, min(g.version, version))
	if err != nil {
		return err
	}

	serverShm := wlserver.NewShm(c.guest, newID, version)
	hostShm.SetFormatHandler(func(format uint32) {
		_ = serverShm.SendFormatEvent(format)
	})

	serverShm.SetCreatePoolHandler(func(newPoolID uint32, fd int, size int32) (*wlserver.ShmPool, error) {
		mapping, err := createHostPool(hostShm, c.alloc, fd, size)
		if err != nil {
			return nil, err
		}
		serverPool := wlserver.NewShmPool(c.guest, newPoolID)
		attach(serverPool, &PoolData{clientFD: fd, current: mapping})
		wirePool(c, hostShm, serverPool)
		return serverPool, nil
	})
	return nil
}

// wirePool attaches the create_buffer/resize/destroy handlers to a
// freshly created server-role wl_shm_pool.
func wirePool(c *Client, hostShm *wlclient.Shm, serverPool *wlserver.ShmPool) {
	serverPool.SetCreateBufferHandler(func(newID uint32, offset, width, height, stride int32, format uint32) (*wlserver.Buffer, error) {
		pd, err := peerData[*PoolData]("Pool", serverPool)
		if err != nil {
			return nil, err
		}
		hostSlice, clientSlice, err := bufferSlices(pd.current, offset, height, stride)
		if err != nil {
			return nil, err
		}
		hostBuf, err := pd.current.hostPool.CreateBuffer(offset, width, height, stride, format)
		if err != nil {
			return nil, err
		}
		pd.current.ref()

		serverBuf := wlserver.NewBuffer(c.guest, newID)
		bd := &BufferData{Host: hostBuf, HostMemory: hostSlice, ClientMemory: clientSlice, pool: pd.current}
		attach(serverBuf, bd)
		hostBuf.SetReleaseHandler(func() {
			_ = serverBuf.SendReleaseEvent()
		})
		serverBuf.SetDestroyHandler(func() error {
			bd.pool.unref()
			return destroyPaired(
				hostDeleter{hostBuf.Destroy, hostBuf.OnDestroy},
				serverDeleter{serverBuf.Destroy},
			)
		})
		return serverBuf, nil
	})

	serverPool.SetResizeHandler(func(newSize int32) error {
		pd, err := peerData[*PoolData]("Pool", serverPool)
		if err != nil {
			return err
		}
		mapping, err := createHostPool(hostShm, c.alloc, pd.clientFD, newSize)
		if err != nil {
			return err
		}
		pd.current.unref() // drop the pool's own reference to the superseded mapping
		pd.current = mapping
		return nil
	})

	serverPool.SetDestroyHandler(func() error {
		pd, err := peerData[*PoolData]("Pool", serverPool)
		if err != nil {
			return err
		}
		return destroyPaired(
			hostDeleter{pd.current.hostPool.Destroy, pd.current.hostPool.OnDestroy},
			serverDeleter{func() error {
				_ = unix.Close(pd.clientFD)
				pd.current.releasePoolRef()
				return serverPool.Destroy()
			}},
		)
	})
}
