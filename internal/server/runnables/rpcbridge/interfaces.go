package rpcbridge

import "context"

// GRPCServer is a gRPC server that can be started and stopped.
type GRPCServer interface {
	// Start serves in the background, returning once the server is confirmed up.
	Start(ctx context.Context) error

	// GracefulStop drains in-flight calls and stops the server.
	GracefulStop()

	// GetListenAddress returns the address the server is bound to.
	GetListenAddress() string
}

// Requester sends a request on the bus and waits for the reply.
type Requester interface {
	Request(ctx context.Context, address string, body []byte) ([]byte, error)
}
