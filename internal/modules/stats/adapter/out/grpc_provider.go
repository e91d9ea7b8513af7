package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	"pomo/internal/modules/stats/adapter/out/rpc"
	"pomo/internal/modules/stats/domain"
	statsout "pomo/internal/modules/stats/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	providerStartTimeout = 3 * time.Second
	providerCallTimeout  = 5 * time.Second
)

// GRPCProvider hosts an out-of-process stats provider, the authoritative
// source of streak and bucket values. One short-lived plugin process per
// call, mirroring the request/response contract the backend owns.
type GRPCProvider struct {
	binary string
}

func NewGRPCProvider(binary string) statsout.Provider {
	return &GRPCProvider{binary: binary}
}

func (p *GRPCProvider) Configured() bool {
	return p.binary != ""
}

func (p *GRPCProvider) Project(ctx context.Context, history domain.History, today string) (domain.Projection, error) {
	if !p.Configured() {
		return domain.Projection{}, fmt.Errorf("stats provider is not configured")
	}
	client, closeFn, err := p.connect()
	if err != nil {
		return domain.Projection{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, providerCallTimeout)
	defer cancel()

	request := &rpc.ProjectRequest{Today: today, Sessions: make([]rpc.SessionDay, 0, len(history))}
	for _, record := range history {
		request.Sessions = append(request.Sessions, rpc.SessionDay{Date: record.Date, Count: record.Count})
	}
	response, err := client.Project(callCtx, request)
	if err != nil {
		return domain.Projection{}, fmt.Errorf("project stats: %w", err)
	}
	projection := domain.Projection{Streak: int(response.Streak), Buckets: make(map[string]int, len(response.Buckets))}
	for date, bucket := range response.Buckets {
		projection.Buckets[date] = int(bucket)
	}
	return projection, nil
}

func (p *GRPCProvider) connect() (rpc.StatsProviderClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  rpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          rpc.PluginMap(nil),
		Cmd:              exec.Command(p.binary),
		Managed:          true,
		StartTimeout:     providerStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start provider client: %w", err)
	}
	raw, err := rpcClient.Dispense(rpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense provider: %w", err)
	}
	typed, ok := raw.(rpc.StatsProviderClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("provider rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
