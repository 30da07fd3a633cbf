package wlrelay

import "fmt"

// protoError marks a protocol violation from the guest: a bad registry
// bind, a version overflow, an interface mismatch, or a request the
// relay declines to support (set_buffer_transform, create_data_source).
// The codec turns this into a protocol error on the guest connection;
// it is never fatal to other clients, nor to the session that raised it
// beyond failing the one handler.
type protoError struct {
	object string
	msg    string
}

func (e *protoError) Error() string {
	return fmt.Sprintf("%s: %s", e.object, e.msg)
}

func protocolErrorf(object, format string, args ...any) error {
	return &protoError{object: object, msg: fmt.Sprintf(format, args...)}
}

// IsProtocolError reports whether err represents a guest protocol
// violation rather than a transport or allocator failure.
func IsProtocolError(err error) bool {
	_, ok := err.(*protoError)
	return ok
}

// sessionError marks a failure that is fatal to the whole client
// session: a transport read/write failure on either side, or an
// allocator failure serving an in-flight pool operation. Handlers
// return this (rather than a protoError) to tear down both sides of
// the connection.
type sessionError struct {
	side string // "guest" or "host"
	err  error
}

func (e *sessionError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.side, e.err)
}

func (e *sessionError) Unwrap() error { return e.err }

func fatalf(side string, err error) error {
	return &sessionError{side: side, err: err}
}

// badUserData reports a proxy carrying user data of an unexpected shape:
// an engine bug rather than anything a client could trigger. It fails
// loudly with a descriptive message rather than silently misbehaving.
func badUserData(role string, got any) error {
	return fmt.Errorf("wlrelay: proxy role %s: unexpected user data %T", role, got)
}
