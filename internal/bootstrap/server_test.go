package bootstrap

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/tripcomposer/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServers_RunStopsOnCancel(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: "127.0.0.1:0"},
		GRPC: config.GRPCConfig{Address: "127.0.0.1:0"},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- Run(ctx, cfg, http.NotFoundHandler(), nil) }()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServers_HealthServing(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Address: "127.0.0.1:0"},
		GRPC: config.GRPCConfig{Address: "127.0.0.1:0"},
	}
	s := NewServers(cfg, http.NotFoundHandler(), nil)
	require.NotNil(t, s.health)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, cfg.GRPC.Address) }()

	require.Eventually(t, func() bool {
		resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestServers_WithoutGRPC(t *testing.T) {
	s := NewServers(&config.Config{HTTP: config.HTTPConfig{Address: "127.0.0.1:0"}}, http.NotFoundHandler(), nil)

	assert.Nil(t, s.grpcServer)
	assert.Nil(t, s.health)
}

func TestServers_ListenFailure(t *testing.T) {
	err := Run(context.Background(), &config.Config{HTTP: config.HTTPConfig{Address: "256.0.0.1:bad"}}, http.NotFoundHandler(), nil)

	assert.Error(t, err)
}
