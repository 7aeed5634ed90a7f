package model

import (
	"context"
	"net"
)

// SecurityLayer abstracts how the server obtains its listener, letting the
// same server run over TLS or plain TCP.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is the lifecycle contract the entrypoint drives.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
