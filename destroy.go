package wlrelay

// destroyable is the minimal shape the destruction protocol needs from
// a host-role proxy: a way to issue the host-side destroy/release
// request, and a way to learn — later, asynchronously — that the host
// wire protocol has acknowledged the object is gone.
type destroyable interface {
	// destroyHost issues the host request (destroy, release, or
	// whatever the interface calls it) that asks the host compositor
	// to drop the object.
	destroyHost() error
	// onHostDeleted registers a one-shot hook invoked once the host
	// side has acknowledged the deletion. The codec calls this when it
	// processes a delete_id for the proxy's id, which for a
	// protocol-correct host only happens after every event the host
	// queued before honoring the destroy has been delivered.
	onHostDeleted(func())
}

// deleteServer is satisfied by the guest-facing half of a pair: dropping
// it tells the codec to stop accepting requests on the object and to
// recycle its id.
type deleteServer interface {
	deleteServerProxy() error
}

// destroyPaired implements the uniform destruction rule: when the guest
// issues destroy/release, the relay forwards it to the host immediately
// but only deletes the server proxy once the host confirms the object
// is actually gone. This preserves event-before-death ordering: any
// event the host already queued for this object before acknowledging
// its destruction is still delivered to the guest on a live proxy, in
// its original order.
func destroyPaired(host destroyable, server deleteServer) error {
	if err := host.destroyHost(); err != nil {
		return err
	}
	host.onHostDeleted(func() {
		// Errors here are logged by the caller's client-level recovery
		// path, not returned — this fires from the host reader's
		// dispatch loop, not from a request handler with a return
		// path back to the guest.
		_ = server.deleteServerProxy()
	})
	return nil
}

// destroyCallback implements the single-shot callback lifecycle: both
// sides are deleted together as soon as the terminal event has been
// forwarded, with no destroy request involved (frame/sync callbacks
// have none — the codec frees the host-role proxy locally once its
// one-shot event has dispatched).
func destroyCallback(server deleteServer) {
	_ = server.deleteServerProxy()
}

// hostDeleter adapts a generated host-role proxy's Destroy/Release and
// OnDestroy methods to the destroyable interface, since each interface
// spells its destructor request differently (destroy vs release) but
// all of them expose the same deletion-hook shape.
type hostDeleter struct {
	destroy   func() error
	onDeleted func(func())
}

func (h hostDeleter) destroyHost() error     { return h.destroy() }
func (h hostDeleter) onHostDeleted(fn func()) { h.onDeleted(fn) }

// serverDeleter adapts a generated server-role proxy's Destroy method to
// the deleteServer interface.
type serverDeleter struct {
	destroy func() error
}

func (s serverDeleter) deleteServerProxy() error { return s.destroy() }
