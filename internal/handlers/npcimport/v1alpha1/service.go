// Package v1alpha1 serves the NPC import orchestrator over gRPC
package v1alpha1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "npcimport.v1alpha1.ImportService"

// Full method names
const (
	ImportOneMethod  = "/" + ServiceName + "/ImportOne"
	ImportManyMethod = "/" + ServiceName + "/ImportMany"
)

// ImportServiceServer is the server API of the import service. Messages are
// JSON objects carried as google.protobuf.Struct.
type ImportServiceServer interface {
	ImportOne(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ImportMany(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ImportServiceClient is the client API of the import service
type ImportServiceClient interface {
	ImportOne(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ImportMany(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type importServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewImportServiceClient creates a client over a connection
func NewImportServiceClient(cc grpc.ClientConnInterface) ImportServiceClient {
	return &importServiceClient{cc: cc}
}

func (c *importServiceClient) ImportOne(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ImportOneMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *importServiceClient) ImportMany(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ImportManyMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterImportServiceServer registers the service on a gRPC server
func RegisterImportServiceServer(s grpc.ServiceRegistrar, srv ImportServiceServer) {
	s.RegisterService(&ImportServiceDesc, srv)
}

func importOneHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ImportServiceServer).ImportOne(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ImportOneMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ImportServiceServer).ImportOne(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func importManyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ImportServiceServer).ImportMany(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ImportManyMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ImportServiceServer).ImportMany(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ImportServiceDesc describes the import service for grpc.Server
var ImportServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ImportServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ImportOne", Handler: importOneHandler},
		{MethodName: "ImportMany", Handler: importManyHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "npcimport/v1alpha1/import.proto",
}
