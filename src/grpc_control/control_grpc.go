package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Hand-written service descriptor. Every message is a well-known protobuf type.

const ServiceName = "stockscreener.control.v1.ScreenerControl"

const (
	ScreenerControl_Refresh_FullMethodName       = "/" + ServiceName + "/Refresh"
	ScreenerControl_ListQuotes_FullMethodName    = "/" + ServiceName + "/ListQuotes"
	ScreenerControl_GetQuote_FullMethodName      = "/" + ServiceName + "/GetQuote"
	ScreenerControl_ListSources_FullMethodName   = "/" + ServiceName + "/ListSources"
	ScreenerControl_UpdateTickers_FullMethodName = "/" + ServiceName + "/UpdateTickers"
)

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

type ScreenerControlClient interface {
	Refresh(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListQuotes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	GetQuote(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListSources(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	UpdateTickers(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type screenerControlClient struct {
	cc grpc.ClientConnInterface
}

func NewScreenerControlClient(cc grpc.ClientConnInterface) ScreenerControlClient {
	return &screenerControlClient{cc}
}

func (c *screenerControlClient) Refresh(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ScreenerControl_Refresh_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *screenerControlClient) ListQuotes(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ScreenerControl_ListQuotes_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *screenerControlClient) GetQuote(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ScreenerControl_GetQuote_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *screenerControlClient) ListSources(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ScreenerControl_ListSources_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *screenerControlClient) UpdateTickers(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ScreenerControl_UpdateTickers_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Server
// -----------------------------------------------------------------------------

type ScreenerControlServer interface {
	Refresh(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListQuotes(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetQuote(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListSources(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	UpdateTickers(context.Context, *structpb.ListValue) (*structpb.Struct, error)
	mustEmbedUnimplementedScreenerControlServer()
}

// UnimplementedScreenerControlServer must be embedded for forward compatibility.
type UnimplementedScreenerControlServer struct{}

func (UnimplementedScreenerControlServer) Refresh(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedScreenerControlServer) ListQuotes(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListQuotes not implemented")
}
func (UnimplementedScreenerControlServer) GetQuote(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetQuote not implemented")
}
func (UnimplementedScreenerControlServer) ListSources(context.Context, *emptypb.Empty) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSources not implemented")
}
func (UnimplementedScreenerControlServer) UpdateTickers(context.Context, *structpb.ListValue) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTickers not implemented")
}
func (UnimplementedScreenerControlServer) mustEmbedUnimplementedScreenerControlServer() {}

func RegisterScreenerControlServer(s grpc.ServiceRegistrar, srv ScreenerControlServer) {
	s.RegisterService(&ScreenerControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

func _ScreenerControl_Refresh_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScreenerControlServer).Refresh(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScreenerControl_Refresh_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScreenerControlServer).Refresh(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ScreenerControl_ListQuotes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScreenerControlServer).ListQuotes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScreenerControl_ListQuotes_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScreenerControlServer).ListQuotes(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ScreenerControl_GetQuote_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScreenerControlServer).GetQuote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScreenerControl_GetQuote_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScreenerControlServer).GetQuote(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _ScreenerControl_ListSources_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScreenerControlServer).ListSources(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScreenerControl_ListSources_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScreenerControlServer).ListSources(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _ScreenerControl_UpdateTickers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ScreenerControlServer).UpdateTickers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ScreenerControl_UpdateTickers_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ScreenerControlServer).UpdateTickers(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ScreenerControl_ServiceDesc is the grpc.ServiceDesc for the control service.
var ScreenerControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScreenerControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Refresh", Handler: _ScreenerControl_Refresh_Handler},
		{MethodName: "ListQuotes", Handler: _ScreenerControl_ListQuotes_Handler},
		{MethodName: "GetQuote", Handler: _ScreenerControl_GetQuote_Handler},
		{MethodName: "ListSources", Handler: _ScreenerControl_ListSources_Handler},
		{MethodName: "UpdateTickers", Handler: _ScreenerControl_UpdateTickers_Handler},
	},
	Streams: []grpc.StreamDesc{},
}
