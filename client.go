package wlrelay

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/neurlang/wayland/wlclient"
	"github.com/neurlang/wayland/wlserver"
	"github.com/rs/zerolog"
)

// HostAllocator is the transport's host-visible memory facility: an
// alloc(size) -> FD primitive producing host-visible memory and a
// map_file(fd, len) -> bytes primitive. A plain UNIX socket transport to
// a host compositor running alongside the relay has no special facility
// and would typically satisfy this with ordinary memfd-backed pools; a
// virtualization transport (e.g. virtio) backs it with guest-visible
// host memory instead. Either way it is supplied by the embedding
// harness, not implemented here.
type HostAllocator interface {
	// Alloc returns a file descriptor for size bytes of host-visible
	// memory, ready to back a wl_shm_pool on the host connection.
	Alloc(size int32) (fd int, err error)
	// MapFile maps fd, previously returned by Alloc or otherwise valid
	// on this transport, as a read/write byte slice of the given
	// length.
	MapFile(fd int, size int32) ([]byte, error)
}

// Client is the per-guest-connection proxy engine: it pairs guest and
// host proxies, forwards requests and events, and runs the shared-memory
// and destruction machinery. One Client exists per accepted guest
// connection; there is no mutable state shared between Clients.
type Client struct {
	ID     uuid.UUID
	cfg    Config
	log    zerolog.Logger
	guest  *wlserver.Display
	host   *wlclient.Display
	alloc  HostAllocator
	registry     *wlserver.Registry
	hostRegistry *wlclient.Registry

	// hostGlobals is populated by a single roundtrip against the host
	// registry before the guest registry is advertised, so every
	// binder can assume the host global it needs is already known.
	hostGlobals map[string]hostGlobal

	// mu serializes handler execution between the guest reader and the
	// host reader so that a pair is always updated atomically from
	// either peer's viewpoint: no handler yields between receiving a
	// request or event and issuing its translated counterpart.
	mu sync.Mutex
}

type hostGlobal struct {
	name    uint32
	version uint32
}

// NewClient constructs the per-client engine. guest is the relay's
// server-role connection to the accepted guest socket; host is the
// relay's client-role connection to the upstream compositor, already
// connected but not yet past its initial registry roundtrip.
func NewClient(cfg Config, guest *wlserver.Display, host *wlclient.Display, alloc HostAllocator, log zerolog.Logger) *Client {
	id := uuid.New()
	return &Client{
		ID:          id,
		cfg:         cfg.WithDefaults(),
		log:         log.With().Str("client_id", id.String()).Logger(),
		guest:       guest,
		host:        host,
		alloc:       alloc,
		hostGlobals: make(map[string]hostGlobal),
	}
}

// hostGlobalByInterface looks up a discovered host global, failing
// loudly since a missing required host global after the registry
// roundtrip means the host compositor does not support what this relay
// needs, which the harness should have checked before accepting the
// guest connection.
func (c *Client) hostGlobalByInterface(iface string) (hostGlobal, error) {
	g, ok := c.hostGlobals[iface]
	if !ok {
		return hostGlobal{}, fatalf("host", protocolErrorf(iface, "host compositor does not advertise this global"))
	}
	return g, nil
}

// Start performs the host registry roundtrip and advertises the guest
// registry, but does not yet read requests or events; call Run
// afterward to begin the two cooperative readers.
func (c *Client) Start() error {
	hostReg, err := c.host.GetRegistry()
	if err != nil {
		return fatalf("host", err)
	}
	c.hostRegistry = hostReg
	hostReg.SetGlobalHandler(func(name uint32, iface string, version uint32) {
		c.hostGlobals[iface] = hostGlobal{name: name, version: version}
	})
	if err := c.host.Roundtrip(); err != nil {
		return fatalf("host", err)
	}

	c.guest.SetGetRegistryHandler(func(newID uint32) (*wlserver.Registry, error) {
		reg := wlserver.NewRegistry(c.guest, newID)
		installRegistry(c, reg)
		return reg, nil
	})
	return nil
}

// Run drives the two cooperative readers until either transport closes
// or ctx is canceled, then tears down the other side and releases
// per-client resources. It logs only the first side to close,
// suppressing the log line for whichever side closed as a consequence.
func (c *Client) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go c.readGuest(errCh)
	go c.readHost(errCh)

	select {
	case <-ctx.Done():
		c.log.Debug().Msg("session canceled")
		c.closeBoth()
		<-errCh
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		c.log.Warn().Err(err).Msg("session ended")
		c.closeBoth()
		// Drain the second reader's exit; its error is not logged
		// further, since it is only a consequence of closeBoth above.
		<-errCh
		return err
	}
}

func (c *Client) readGuest(errCh chan<- error) {
	for {
		c.mu.Lock()
		err := c.guest.Dispatch()
		c.mu.Unlock()
		if err != nil {
			errCh <- fatalf("guest", err)
			return
		}
	}
}

func (c *Client) readHost(errCh chan<- error) {
	for {
		c.mu.Lock()
		err := c.host.Context().Dispatch()
		c.mu.Unlock()
		if err != nil {
			errCh <- fatalf("host", err)
			return
		}
	}
}

func (c *Client) closeBoth() {
	_ = c.guest.Close()
	_ = c.host.Context().Close()
}
