package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "routeopt.v1.RouteOptimizerService"

// Full method names
const (
	MethodOptimizeRoute    = "/" + ServiceName + "/OptimizeRoute"
	MethodPlanDriverDays   = "/" + ServiceName + "/PlanDriverDays"
	MethodGetJobStatus     = "/" + ServiceName + "/GetJobStatus"
	MethodListJobs         = "/" + ServiceName + "/ListJobs"
	MethodSummarizeDrivers = "/" + ServiceName + "/SummarizeDrivers"
)

// RouteOptimizerServer is the server API for the route optimizer service
type RouteOptimizerServer interface {
	OptimizeRoute(context.Context, *OptimizeRouteRequest) (*OptimizeRouteResponse, error)
	PlanDriverDays(context.Context, *PlanDriverDaysRequest) (*PlanDriverDaysResponse, error)
	GetJobStatus(context.Context, *GetJobStatusRequest) (*GetJobStatusResponse, error)
	ListJobs(context.Context, *ListJobsRequest) (*ListJobsResponse, error)
	SummarizeDrivers(context.Context, *SummarizeDriversRequest) (*SummarizeDriversResponse, error)
}

// RegisterRouteOptimizerServer registers srv on s
func RegisterRouteOptimizerServer(s grpc.ServiceRegistrar, srv RouteOptimizerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler
func unaryHandler[Req any, Resp any](fullMethod string, call func(RouteOptimizerServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RouteOptimizerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RouteOptimizerServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the route optimizer service. Messages are exchanged
// with the json codec (see CodecName) and documented by Metadata, which has
// no registered file descriptor: reflection lists the service name but cannot
// describe its methods.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RouteOptimizerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "OptimizeRoute", Handler: unaryHandler(MethodOptimizeRoute, RouteOptimizerServer.OptimizeRoute)},
		{MethodName: "PlanDriverDays", Handler: unaryHandler(MethodPlanDriverDays, RouteOptimizerServer.PlanDriverDays)},
		{MethodName: "GetJobStatus", Handler: unaryHandler(MethodGetJobStatus, RouteOptimizerServer.GetJobStatus)},
		{MethodName: "ListJobs", Handler: unaryHandler(MethodListJobs, RouteOptimizerServer.ListJobs)},
		{MethodName: "SummarizeDrivers", Handler: unaryHandler(MethodSummarizeDrivers, RouteOptimizerServer.SummarizeDrivers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proto/routeopt/v1/route_optimizer.proto",
}

// Client calls the route optimizer service over a client connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

// OptimizeRoute calls the OptimizeRoute method
func (c *Client) OptimizeRoute(ctx context.Context, in *OptimizeRouteRequest, opts ...grpc.CallOption) (*OptimizeRouteResponse, error) {
	out := new(OptimizeRouteResponse)
	if err := c.invoke(ctx, MethodOptimizeRoute, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// PlanDriverDays calls the PlanDriverDays method
func (c *Client) PlanDriverDays(ctx context.Context, in *PlanDriverDaysRequest, opts ...grpc.CallOption) (*PlanDriverDaysResponse, error) {
	out := new(PlanDriverDaysResponse)
	if err := c.invoke(ctx, MethodPlanDriverDays, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// GetJobStatus calls the GetJobStatus method
func (c *Client) GetJobStatus(ctx context.Context, in *GetJobStatusRequest, opts ...grpc.CallOption) (*GetJobStatusResponse, error) {
	out := new(GetJobStatusResponse)
	if err := c.invoke(ctx, MethodGetJobStatus, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ListJobs calls the ListJobs method
func (c *Client) ListJobs(ctx context.Context, in *ListJobsRequest, opts ...grpc.CallOption) (*ListJobsResponse, error) {
	out := new(ListJobsResponse)
	if err := c.invoke(ctx, MethodListJobs, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// SummarizeDrivers calls the SummarizeDrivers method
func (c *Client) SummarizeDrivers(ctx context.Context, in *SummarizeDriversRequest, opts ...grpc.CallOption) (*SummarizeDriversResponse, error) {
	out := new(SummarizeDriversResponse)
	if err := c.invoke(ctx, MethodSummarizeDrivers, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
