package wlrelay

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assertErrSentinel = errors.New("destroy: sentinel failure")

type fakeHost struct {
	destroyed    bool
	destroyErr   error
	deletedHooks []func()
}

func (f *fakeHost) destroyHost() error {
	f.destroyed = true
	return f.destroyErr
}

func (f *fakeHost) onHostDeleted(fn func()) {
	f.deletedHooks = append(f.deletedHooks, fn)
}

func (f *fakeHost) fireDeleted() {
	hooks := f.deletedHooks
	f.deletedHooks = nil
	for _, h := range hooks {
		h()
	}
}

type fakeServer struct {
	deleted bool
}

func (f *fakeServer) deleteServerProxy() error {
	f.deleted = true
	return nil
}

func TestDestroyPairedOrdersHostBeforeServer(t *testing.T) {
	host := &fakeHost{}
	server := &fakeServer{}

	require.NoError(t, destroyPaired(host, server))

	assert.True(t, host.destroyed, "host destroy request must be issued immediately")
	assert.False(t, server.deleted, "server proxy must not be deleted before the host acknowledges")

	host.fireDeleted()

	assert.True(t, server.deleted, "server proxy must be deleted once the host acknowledges")
}

func TestDestroyPairedPropagatesHostError(t *testing.T) {
	host := &fakeHost{destroyErr: assertErrSentinel}
	server := &fakeServer{}

	err := destroyPaired(host, server)

	require.ErrorIs(t, err, assertErrSentinel)
	assert.False(t, server.deleted)
	assert.Empty(t, host.deletedHooks, "no deletion hook should be registered if the host request failed")
}

func TestDestroyCallbackDeletesServerSide(t *testing.T) {
	server := &fakeServer{}

	destroyCallback(server)

	assert.True(t, server.deleted)
}
