package policyserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are google.protobuf.Struct values so the service needs no
// generated code; converters.go defines their fields.
const (
	PolicyService_ServiceName = "nim.v1.PolicyService"

	PolicyService_ChooseAction_FullMethodName = "/nim.v1.PolicyService/ChooseAction"
	PolicyService_ActionValues_FullMethodName = "/nim.v1.PolicyService/ActionValues"
	PolicyService_CreateGame_FullMethodName   = "/nim.v1.PolicyService/CreateGame"
	PolicyService_MakeMove_FullMethodName     = "/nim.v1.PolicyService/MakeMove"
	PolicyService_GetGame_FullMethodName      = "/nim.v1.PolicyService/GetGame"
)

// PolicyServiceServer is the server API for the policy service
type PolicyServiceServer interface {
	ChooseAction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ActionValues(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MakeMove(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(PolicyServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PolicyServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PolicyServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PolicyService_ServiceDesc is the grpc.ServiceDesc for the policy service
var PolicyService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: PolicyService_ServiceName,
	HandlerType: (*PolicyServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ChooseAction",
			Handler: unaryHandler(PolicyService_ChooseAction_FullMethodName, func(s PolicyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ChooseAction(ctx, in)
			}),
		},
		{
			MethodName: "ActionValues",
			Handler: unaryHandler(PolicyService_ActionValues_FullMethodName, func(s PolicyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.ActionValues(ctx, in)
			}),
		},
		{
			MethodName: "CreateGame",
			Handler: unaryHandler(PolicyService_CreateGame_FullMethodName, func(s PolicyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.CreateGame(ctx, in)
			}),
		},
		{
			MethodName: "MakeMove",
			Handler: unaryHandler(PolicyService_MakeMove_FullMethodName, func(s PolicyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.MakeMove(ctx, in)
			}),
		},
		{
			MethodName: "GetGame",
			Handler: unaryHandler(PolicyService_GetGame_FullMethodName, func(s PolicyServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
				return s.GetGame(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterPolicyServiceServer registers srv with s
func RegisterPolicyServiceServer(s grpc.ServiceRegistrar, srv PolicyServiceServer) {
	s.RegisterService(&PolicyService_ServiceDesc, srv)
}

// PolicyServiceClient is the client API for the policy service
type PolicyServiceClient interface {
	ChooseAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ActionValues(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	MakeMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type policyServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPolicyServiceClient(cc grpc.ClientConnInterface) PolicyServiceClient {
	return &policyServiceClient{cc}
}

func (c *policyServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *policyServiceClient) ChooseAction(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PolicyService_ChooseAction_FullMethodName, in, opts...)
}

func (c *policyServiceClient) ActionValues(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PolicyService_ActionValues_FullMethodName, in, opts...)
}

func (c *policyServiceClient) CreateGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PolicyService_CreateGame_FullMethodName, in, opts...)
}

func (c *policyServiceClient) MakeMove(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PolicyService_MakeMove_FullMethodName, in, opts...)
}

func (c *policyServiceClient) GetGame(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PolicyService_GetGame_FullMethodName, in, opts...)
}
