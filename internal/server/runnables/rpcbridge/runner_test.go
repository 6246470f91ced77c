package rpcbridge

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/atlanticdynamic/jscompiler/internal/bus"
	"github.com/atlanticdynamic/jscompiler/internal/orchestrator"
	"github.com/atlanticdynamic/jscompiler/internal/rpcapi"
	"github.com/atlanticdynamic/jscompiler/internal/server/finitestate"
	"github.com/atlanticdynamic/jscompiler/internal/server/runnables/rpcbridge/server"
)

const testAddress = "test/compile"

type harness struct {
	bus    *bus.EventBus
	runner *Runner
	client rpcapi.CompilerServiceClient
}

func newHarness(t *testing.T, busOpts ...bus.Option) harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	b := bus.New(busOpts...)
	t.Cleanup(b.Close)

	runner, err := NewRunner("bufnet", b, WithAddress(testAddress), WithLogger(logger))
	require.NoError(t, err)

	listener := bufconn.Listen(1024 * 1024)
	mgr, err := server.NewGRPCManager(logger, "", runner, server.WithListener(listener))
	require.NoError(t, err)
	runner.grpcServer = mgr

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("runner did not stop")
		}
	})
	require.Eventually(t, runner.IsRunning, 5*time.Second, 10*time.Millisecond)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return harness{bus: b, runner: runner, client: rpcapi.NewCompilerServiceClient(conn)}
}

func call(t *testing.T, h harness) (orchestrator.Response, error) {
	t.Helper()
	req, err := rpcapi.RequestToStruct(orchestrator.Request{
		SourceFiles:  []string{"js/valid.js"},
		CompiledFile: "out.js",
	})
	require.NoError(t, err)
	out, err := h.client.Compile(t.Context(), req)
	if err != nil {
		return orchestrator.Response{}, err
	}
	resp, err := rpcapi.StructToResponse(out)
	require.NoError(t, err)
	return resp, nil
}

func TestNewRunner(t *testing.T) {
	t.Parallel()

	_, err := NewRunner("", bus.New())
	assert.ErrorIs(t, err, ErrEmptyListenAddr)

	_, err = NewRunner("localhost:0", nil)
	assert.ErrorIs(t, err, ErrNilRequester)

	r, err := NewRunner("localhost:0", bus.New())
	require.NoError(t, err)
	assert.Equal(t, "rpcbridge.Runner", r.String())
	assert.Equal(t, orchestrator.DefaultAddress, r.address)
	assert.Equal(t, finitestate.StatusNew, r.GetState())
	assert.Empty(t, r.GetListenAddress())
}

func TestRunner_InvalidListenAddress(t *testing.T) {
	t.Parallel()

	r, err := NewRunner("invalid-address", bus.New())
	require.NoError(t, err)

	err = r.Run(context.Background())
	assert.ErrorIs(t, err, server.ErrInvalidTCPAddress)
	assert.Equal(t, finitestate.StatusError, r.GetState())
}

func TestRunner_Compile(t *testing.T) {
	t.Parallel()

	t.Run("successful reply", func(t *testing.T) {
		h := newHarness(t)
		var received []byte
		_, err := h.bus.RegisterHandler(testAddress, func(_ context.Context, msg *bus.Message) {
			received = msg.Body
			_ = msg.Reply([]byte(`{"status":"ok","message":"successfully compiled 1 javascript files"}`))
		})
		require.NoError(t, err)

		resp, err := call(t, h)
		require.NoError(t, err)
		assert.Equal(t, orchestrator.OK("successfully compiled 1 javascript files"), resp)
		assert.JSONEq(t, `{"jsSourceFiles":["js/valid.js"],"jsCompiledFile":"out.js"}`, string(received))
	})

	t.Run("failure is returned in-band", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.bus.RegisterHandler(testAddress, func(_ context.Context, msg *bus.Message) {
			_ = msg.Fail(int(orchestrator.CodeCompileFailed), "failed to compile js: [x]")
		})
		require.NoError(t, err)

		resp, err := call(t, h)
		require.NoError(t, err)
		assert.Equal(t, orchestrator.Failure(orchestrator.CodeCompileFailed, "failed to compile js: [x]"), resp)
	})

	t.Run("no handler is unavailable", func(t *testing.T) {
		h := newHarness(t)
		_, err := call(t, h)
		assert.Equal(t, codes.Unavailable, status.Code(err))
	})

	t.Run("timeout is deadline exceeded", func(t *testing.T) {
		h := newHarness(t, bus.WithReplyTimeout(50*time.Millisecond))
		_, err := h.bus.RegisterHandler(testAddress, func(ctx context.Context, _ *bus.Message) {
			<-ctx.Done()
		})
		require.NoError(t, err)

		_, err = call(t, h)
		assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
	})
}

func TestRunner_Stop(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := NewRunner("localhost:0", bus.New(), WithLogger(logger))
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(context.Background()) }()
	require.Eventually(t, r.IsRunning, 5*time.Second, 10*time.Millisecond)
	assert.NotEmpty(t, r.GetListenAddress())

	r.Stop()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
	assert.Equal(t, finitestate.StatusStopped, r.GetState())
}
