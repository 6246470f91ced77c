// Package rpcapi defines the gRPC surface of the compile service. Messages are
// google.protobuf.Struct values carrying the same JSON objects the bus exchanges, so the
// service needs no generated code.
package rpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName       = "jscompiler.v1.CompilerService"
	CompileFullMethod = "/" + ServiceName + "/Compile"
)

// CompilerServiceServer is implemented by the bus bridge.
type CompilerServiceServer interface {
	Compile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// CompilerServiceClient calls the compile service.
type CompilerServiceClient interface {
	Compile(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type compilerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCompilerServiceClient wraps a connection.
func NewCompilerServiceClient(cc grpc.ClientConnInterface) CompilerServiceClient {
	return &compilerServiceClient{cc: cc}
}

func (c *compilerServiceClient) Compile(
	ctx context.Context,
	req *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CompileFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterCompilerServiceServer registers srv with a gRPC server.
func RegisterCompilerServiceServer(s grpc.ServiceRegistrar, srv CompilerServiceServer) {
	s.RegisterService(&CompilerServiceDesc, srv)
}

// CompilerServiceDesc describes the service for grpc.Server.RegisterService.
var CompilerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CompilerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Compile",
			Handler:    compileHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jscompiler/v1/compiler.proto",
}

func compileHandler(
	srv any,
	ctx context.Context,
	dec func(any) error,
	interceptor grpc.UnaryServerInterceptor,
) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CompilerServiceServer).Compile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CompileFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CompilerServiceServer).Compile(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
