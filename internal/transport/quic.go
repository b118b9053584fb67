package transport

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

const alpnProto = "pqmsg"

// streamConn wraps one quic.Stream as a net.Conn.
type streamConn struct {
	*quic.Stream
	conn *quic.Conn
}

func (c *streamConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c *streamConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// ClientQUICTLS is the client TLS config for the QUIC channel. The responder
// presents a self-signed certificate, so verification is skipped; the
// channel is deployment-internal and the exchanged material is public-key
// data plus secrets already protected by the KEM itself.
func ClientQUICTLS() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		MinVersion:         tls.VersionTLS13,
		NextProtos:         []string{alpnProto},
	}
}

// ServerQUICTLS builds the server TLS config around cert.
func ServerQUICTLS(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
		NextProtos:   []string{alpnProto},
	}
}

// DialStream dials QUIC to addr and opens one stream, returned as a
// net.Conn carrying the same framing as a unix socket.
func DialStream(ctx context.Context, addr string, tlsConfig *tls.Config) (net.Conn, error) {
	if tlsConfig == nil {
		tlsConfig = ClientQUICTLS()
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConfig, &quic.Config{
		MaxIdleTimeout: 30 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "")
		return nil, err
	}
	return &streamConn{Stream: stream, conn: conn}, nil
}

// ListenQUIC listens for QUIC connections on addr.
func ListenQUIC(addr string, tlsConfig *tls.Config) (*quic.Listener, error) {
	return quic.ListenAddr(addr, tlsConfig, &quic.Config{
		MaxIdleTimeout: 30 * time.Second,
	})
}

// AcceptStream accepts the peer's first stream on conn as a net.Conn.
func AcceptStream(ctx context.Context, conn *quic.Conn) (net.Conn, error) {
	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return &streamConn{Stream: stream, conn: conn}, nil
}
