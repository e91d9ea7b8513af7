package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey       = "pomo"
	serviceName        = "pomo.provider.v1.StatsProvider"
	jsonCodecName      = "json"
	methodGetMetadata  = "/" + serviceName + "/GetMetadata"
	methodProject      = "/" + serviceName + "/Project"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "POMO_PROVIDER",
	MagicCookieValue: "pomo",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type SessionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ProjectRequest struct {
	Sessions []SessionDay `json:"sessions"`
	Today    string       `json:"today"`
}

type ProjectResponse struct {
	Streak  int32            `json:"streak"`
	Buckets map[string]int32 `json:"buckets"`
}

type StatsProviderServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Project(ctx context.Context, in *ProjectRequest) (*ProjectResponse, error)
}

type StatsProviderClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Project(ctx context.Context, in *ProjectRequest) (*ProjectResponse, error)
}

type statsProviderClient struct {
	conn *grpc.ClientConn
}

func NewStatsProviderClient(conn *grpc.ClientConn) StatsProviderClient {
	return &statsProviderClient{conn: conn}
}

func (c *statsProviderClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *statsProviderClient) Project(ctx context.Context, in *ProjectRequest) (*ProjectResponse, error) {
	out := &ProjectResponse{}
	if err := c.conn.Invoke(ctx, methodProject, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterStatsProviderServer(server grpc.ServiceRegistrar, impl StatsProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*StatsProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Project",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &ProjectRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Project(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodProject}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*ProjectRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Project(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/provider-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl StatsProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterStatsProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewStatsProviderClient(conn), nil
}

func PluginMap(impl StatsProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
