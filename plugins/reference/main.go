package main

import (
	"context"
	"time"

	"github.com/hashicorp/go-plugin"

	providerrpc "pomo/internal/modules/stats/adapter/out/rpc"
)

// server is the reference stats provider. It computes the same streak and
// bucket projection the client falls back to locally, so running it proves
// the plugin transport without changing any numbers.
type server struct{}

func (s *server) GetMetadata(_ context.Context, _ *providerrpc.Empty) (*providerrpc.Metadata, error) {
	return &providerrpc.Metadata{Name: "reference", Version: "1.0.0"}, nil
}

func (s *server) Project(_ context.Context, in *providerrpc.ProjectRequest) (*providerrpc.ProjectResponse, error) {
	counts := make(map[string]int, len(in.Sessions))
	buckets := make(map[string]int32, len(in.Sessions))
	for _, day := range in.Sessions {
		if day.Count > counts[day.Date] {
			counts[day.Date] = day.Count
		}
	}
	for date, count := range counts {
		buckets[date] = bucketFor(count)
	}

	return &providerrpc.ProjectResponse{
		Streak:  streak(counts, in.Today),
		Buckets: buckets,
	}, nil
}

func bucketFor(count int) int32 {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 4:
		return 2
	case count <= 6:
		return 3
	default:
		return 4
	}
}

// streak walks backwards from today counting contiguous days with at
// least one session.
func streak(counts map[string]int, today string) int32 {
	day, err := time.Parse("2006-01-02", today)
	if err != nil {
		return 0
	}
	var n int32
	for {
		if counts[day.Format("2006-01-02")] <= 0 {
			return n
		}
		n++
		day = day.AddDate(0, 0, -1)
	}
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: providerrpc.HandshakeConfig,
		Plugins:         providerrpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
