package transport

import (
	"context"
	"net"
	"os"
)

// ListenUnix listens on a unix domain socket at path, removing a stale
// socket file left by an earlier run. The socket should not be readable by
// everyone: key material crosses it.
func ListenUnix(path string) (net.Listener, error) {
	_ = os.Remove(path)
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	_ = os.Chmod(path, 0o600)
	return ln, nil
}

// DialUnix connects to the responder socket at path.
func DialUnix(ctx context.Context, path string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", path)
}
