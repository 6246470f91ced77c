package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/atlanticdynamic/jscompiler/internal/rpcapi"
)

type testCompilerServer struct {
	mock.Mock
}

func (s *testCompilerServer) Compile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	args := s.Called(ctx, req)
	out, _ := args.Get(0).(*structpb.Struct)
	return out, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewGRPCManager(t *testing.T) {
	t.Parallel()

	_, err := NewGRPCManager(discardLogger(), "invalid-address", &testCompilerServer{})
	require.Error(t, err)

	_, err = NewGRPCManager(discardLogger(), "localhost:0", nil)
	require.Error(t, err)

	mgr, err := NewGRPCManager(discardLogger(), "localhost:0", &testCompilerServer{})
	require.NoError(t, err)
	assert.Empty(t, mgr.GetListenAddress(), "nothing is bound before Start")
}

func TestGRPCManager_StartTCP(t *testing.T) {
	t.Parallel()

	mgr, err := NewGRPCManager(discardLogger(), "localhost:0", &testCompilerServer{})
	require.NoError(t, err)
	require.NoError(t, mgr.Start(t.Context()))
	defer mgr.GracefulStop()

	assert.NotEmpty(t, mgr.GetListenAddress())
	assert.ErrorIs(t, mgr.Start(t.Context()), ErrAlreadyStarted)
}

func TestGRPCManager_StartUnix(t *testing.T) {
	t.Parallel()

	socket := filepath.Join(t.TempDir(), "jsc.sock")
	mgr, err := NewGRPCManager(discardLogger(), "unix:"+socket, &testCompilerServer{})
	require.NoError(t, err)
	require.NoError(t, mgr.Start(t.Context()))
	defer mgr.GracefulStop()

	assert.Equal(t, socket, mgr.GetListenAddress())
}

func TestGRPCManager_Bufconn(t *testing.T) {
	t.Parallel()

	listener := bufconn.Listen(1024 * 1024)
	svc := &testCompilerServer{}
	want, err := structpb.NewStruct(map[string]any{"status": "ok", "message": "done"})
	require.NoError(t, err)
	svc.On("Compile", mock.Anything, mock.Anything).Return(want, nil)

	mgr, err := NewGRPCManager(discardLogger(), "", svc, WithListener(listener))
	require.NoError(t, err)
	require.NoError(t, mgr.Start(t.Context()))
	defer mgr.GracefulStop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	req, err := structpb.NewStruct(map[string]any{"jsCompiledFile": "out.js"})
	require.NoError(t, err)

	ctx := metadata.AppendToOutgoingContext(t.Context(), "x-request-id", "abc")
	got, err := rpcapi.NewCompilerServiceClient(conn).Compile(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "done", got.GetFields()["message"].GetStringValue())
	svc.AssertExpectations(t)
}
