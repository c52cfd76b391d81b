// Package themerpcv1 定义 ThemeFiles gRPC 服务。
// 消息是普通 Go 结构体，通过注册的 CBOR codec 传输。
package themerpcv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "themestore.v1.ThemeFiles"

	GetFilesMethod = "/" + ServiceName + "/GetFiles"
	PutFilesMethod = "/" + ServiceName + "/PutFiles"
)

// ThemeFilesServer 服务端需要实现的接口
type ThemeFilesServer interface {
	GetFiles(context.Context, *GetFilesRequest) (*GetFilesResponse, error)
	PutFiles(context.Context, *PutFilesRequest) (*PutFilesResponse, error)
}

// UnimplementedThemeFilesServer 嵌入后可以只实现部分方法
type UnimplementedThemeFilesServer struct{}

func (UnimplementedThemeFilesServer) GetFiles(context.Context, *GetFilesRequest) (*GetFilesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetFiles not implemented")
}

func (UnimplementedThemeFilesServer) PutFiles(context.Context, *PutFilesRequest) (*PutFilesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PutFiles not implemented")
}

func RegisterThemeFilesServer(s grpc.ServiceRegistrar, srv ThemeFilesServer) {
	s.RegisterService(&ThemeFilesServiceDesc, srv)
}

func getFilesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetFilesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ThemeFilesServer).GetFiles(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetFilesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ThemeFilesServer).GetFiles(ctx, req.(*GetFilesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func putFilesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PutFilesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ThemeFilesServer).PutFiles(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PutFilesMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ThemeFilesServer).PutFiles(ctx, req.(*PutFilesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ThemeFilesServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ThemeFilesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetFiles", Handler: getFilesHandler},
		{MethodName: "PutFiles", Handler: putFilesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "themestore/v1/themefiles",
}

// ThemeFilesClient 客户端接口
type ThemeFilesClient interface {
	GetFiles(ctx context.Context, in *GetFilesRequest, opts ...grpc.CallOption) (*GetFilesResponse, error)
	PutFiles(ctx context.Context, in *PutFilesRequest, opts ...grpc.CallOption) (*PutFilesResponse, error)
}

type themeFilesClient struct {
	cc grpc.ClientConnInterface
}

func NewThemeFilesClient(cc grpc.ClientConnInterface) ThemeFilesClient {
	return &themeFilesClient{cc: cc}
}

// withCodec 每次调用都强制使用 CBOR，服务端据此选择 codec
func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *themeFilesClient) GetFiles(ctx context.Context, in *GetFilesRequest, opts ...grpc.CallOption) (*GetFilesResponse, error) {
	out := new(GetFilesResponse)
	if err := c.cc.Invoke(ctx, GetFilesMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *themeFilesClient) PutFiles(ctx context.Context, in *PutFilesRequest, opts ...grpc.CallOption) (*PutFilesResponse, error) {
	out := new(PutFilesResponse)
	if err := c.cc.Invoke(ctx, PutFilesMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}
