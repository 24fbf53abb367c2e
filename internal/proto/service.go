// Package proto describes the fanbox.v1.FanboxService gRPC API. Messages are
// google.protobuf.Struct values:
//
//	SignUp      {email, username, password, type}  -> {message}
//	SignIn      {email, password}                  -> {message, token}
//	Me          {}                                 -> {id, email, username, type, state, created_on, last_login}
//	SendMessage {to, message}                      -> {message}
//	GetMessages {}                                 -> {messages: [{id, user_to, user_from, message, state, created_at}]}
//
// Me, SendMessage and GetMessages require the access-token metadata key.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "fanbox.v1.FanboxService"

const (
	MethodSignUp      = "SignUp"
	MethodSignIn      = "SignIn"
	MethodMe          = "Me"
	MethodSendMessage = "SendMessage"
	MethodGetMessages = "GetMessages"
)

// FullMethod returns the "/service/method" path used on the wire.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

type FanboxServiceServer interface {
	SignUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SendMessage(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMessages(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type call func(FanboxServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(method string, fn call) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(FanboxServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return fn(srv.(FanboxServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

var FanboxServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FanboxServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		handler(MethodSignUp, FanboxServiceServer.SignUp),
		handler(MethodSignIn, FanboxServiceServer.SignIn),
		handler(MethodMe, FanboxServiceServer.Me),
		handler(MethodSendMessage, FanboxServiceServer.SendMessage),
		handler(MethodGetMessages, FanboxServiceServer.GetMessages),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fanbox.proto",
}

func RegisterFanboxServiceServer(s grpc.ServiceRegistrar, srv FanboxServiceServer) {
	s.RegisterService(&FanboxServiceDesc, srv)
}

type FanboxServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFanboxServiceClient(cc grpc.ClientConnInterface) *FanboxServiceClient {
	return &FanboxServiceClient{cc: cc}
}

func (c *FanboxServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *FanboxServiceClient) SignUp(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSignUp, in, opts...)
}

func (c *FanboxServiceClient) SignIn(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSignIn, in, opts...)
}

func (c *FanboxServiceClient) Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodMe, in, opts...)
}

func (c *FanboxServiceClient) SendMessage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSendMessage, in, opts...)
}

func (c *FanboxServiceClient) GetMessages(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetMessages, in, opts...)
}
