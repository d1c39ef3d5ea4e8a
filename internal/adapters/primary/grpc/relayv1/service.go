package relayv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	RelayService_Publish_FullMethodName   = "/relay.v1.RelayService/Publish"
	RelayService_History_FullMethodName   = "/relay.v1.RelayService/History"
	RelayService_Subscribe_FullMethodName = "/relay.v1.RelayService/Subscribe"
)

type RelayServiceClient interface {
	Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error)
	History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error)
	Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (RelayService_SubscribeClient, error)
}

type relayServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRelayServiceClient(cc grpc.ClientConnInterface) RelayServiceClient {
	return &relayServiceClient{cc}
}

func (c *relayServiceClient) Publish(ctx context.Context, in *PublishRequest, opts ...grpc.CallOption) (*PublishResponse, error) {
	out := new(PublishResponse)
	if err := c.cc.Invoke(ctx, RelayService_Publish_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *relayServiceClient) History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	out := new(HistoryResponse)
	if err := c.cc.Invoke(ctx, RelayService_History_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *relayServiceClient) Subscribe(ctx context.Context, in *SubscribeRequest, opts ...grpc.CallOption) (RelayService_SubscribeClient, error) {
	stream, err := c.cc.NewStream(ctx, &RelayService_ServiceDesc.Streams[0], RelayService_Subscribe_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &relayServiceSubscribeClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type RelayService_SubscribeClient interface {
	Recv() (*ServerEvent, error)
	grpc.ClientStream
}

type relayServiceSubscribeClient struct {
	grpc.ClientStream
}

func (x *relayServiceSubscribeClient) Recv() (*ServerEvent, error) {
	m := new(ServerEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type RelayServiceServer interface {
	Publish(context.Context, *PublishRequest) (*PublishResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	Subscribe(*SubscribeRequest, RelayService_SubscribeServer) error
}

type UnimplementedRelayServiceServer struct{}

func (UnimplementedRelayServiceServer) Publish(context.Context, *PublishRequest) (*PublishResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Publish not implemented")
}

func (UnimplementedRelayServiceServer) History(context.Context, *HistoryRequest) (*HistoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method History not implemented")
}

func (UnimplementedRelayServiceServer) Subscribe(*SubscribeRequest, RelayService_SubscribeServer) error {
	return status.Errorf(codes.Unimplemented, "method Subscribe not implemented")
}

type RelayService_SubscribeServer interface {
	Send(*ServerEvent) error
	grpc.ServerStream
}

type relayServiceSubscribeServer struct {
	grpc.ServerStream
}

func (x *relayServiceSubscribeServer) Send(m *ServerEvent) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterRelayServiceServer(s grpc.ServiceRegistrar, srv RelayServiceServer) {
	s.RegisterService(&RelayService_ServiceDesc, srv)
}

func _RelayService_Publish_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PublishRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RelayServiceServer).Publish(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RelayService_Publish_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RelayServiceServer).Publish(ctx, req.(*PublishRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RelayService_History_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(HistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RelayServiceServer).History(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RelayService_History_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RelayServiceServer).History(ctx, req.(*HistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _RelayService_Subscribe_Handler(srv any, stream grpc.ServerStream) error {
	m := new(SubscribeRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(RelayServiceServer).Subscribe(m, &relayServiceSubscribeServer{stream})
}

var RelayService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "relay.v1.RelayService",
	HandlerType: (*RelayServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Publish",
			Handler:    _RelayService_Publish_Handler,
		},
		{
			MethodName: "History",
			Handler:    _RelayService_History_Handler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _RelayService_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "relay/v1/relay.proto",
}
