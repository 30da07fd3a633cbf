// Package wlrelay implements a Wayland relay: it presents itself to a set
// of guest Wayland clients as a compositor while acting as a client to an
// upstream host compositor, forwarding every protocol request and event
// between the two sides.
//
// The wire codec itself — decoding Wayland messages, typed proxies,
// per-proxy user data, deletion hooks — is not implemented here; it is
// provided by github.com/neurlang/wayland's wlclient (host role) and
// wlserver (server role) packages. This package supplies the proxy-pairing
// discipline, the double-mapped shared-memory path, and the destruction
// protocol on top of that codec.
//
// Only the subset of globals needed to bridge a guest compositor session
// to a host one is bound: wl_compositor, wl_subcompositor, wl_shm,
// xdg_wm_base, wl_seat, wl_output, wl_data_device_manager, and
// zxdg_output_manager_v1. No thought has been given to arbitrary,
// user-supplied protocol extensions.
package wlrelay
