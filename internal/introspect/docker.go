package introspect

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/hashicorp/go-hclog"

	"github.com/mcpscout/mcpscout/internal/catalog"
)

const (
	transportDockerStdio = "docker_stdio"

	// containerReadyDelay is the settle time between starting the container
	// and issuing the first protocol call.
	containerReadyDelay = 2 * time.Second

	containerMemoryLimit = 512 * 1024 * 1024
	containerCPUPeriod   = 100_000
	containerCPUQuota    = 50_000 // 50% of one CPU
)

// dockerTransport introspects a server by running its image as a locked-down
// container and speaking MCP over the attached stdio streams.
//
// Spawned containers are network-isolated, memory- and CPU-bounded, run with
// a read-only root filesystem plus a small writable /tmp, and are stopped and
// removed unconditionally after the attempt.
type dockerTransport struct {
	logger         hclog.Logger
	startupTimeout time.Duration
	callTimeout    time.Duration

	initOnce sync.Once
	cli      *client.Client
	initErr  error
}

func newDockerTransport(logger hclog.Logger, startupTimeout, callTimeout time.Duration) *dockerTransport {
	return &dockerTransport{
		logger:         logger.Named(transportDockerStdio),
		startupTimeout: startupTimeout,
		callTimeout:    callTimeout,
	}
}

func (t *dockerTransport) name() string {
	return transportDockerStdio
}

func (t *dockerTransport) eligible(record catalog.ServerRecord) bool {
	return record.ImageReference != ""
}

// dockerClient lazily initialises the shared Docker client so that probing
// records without image references never requires a Docker daemon.
func (t *dockerTransport) dockerClient() (*client.Client, error) {
	t.initOnce.Do(func() {
		t.cli, t.initErr = client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	})
	if t.initErr != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", t.initErr)
	}
	return t.cli, nil
}

func (t *dockerTransport) introspect(ctx context.Context, record catalog.ServerRecord) (listing, error) {
	cli, err := t.dockerClient()
	if err != nil {
		return listing{}, err
	}

	startCtx, cancel := context.WithTimeout(ctx, t.startupTimeout)
	defer cancel()

	// Best effort: the image may already be present locally.
	if rc, pullErr := cli.ImagePull(startCtx, record.ImageReference, image.PullOptions{}); pullErr != nil {
		t.logger.Debug("Image pull failed, trying local image", "image", record.ImageReference, "error", pullErr)
	} else {
		_, _ = io.Copy(io.Discard, rc)
		_ = rc.Close()
	}

	created, err := cli.ContainerCreate(
		startCtx,
		&container.Config{
			Image:        record.ImageReference,
			OpenStdin:    true,
			AttachStdin:  true,
			AttachStdout: true,
			AttachStderr: true,
		},
		&container.HostConfig{
			NetworkMode:    "none",
			ReadonlyRootfs: true,
			SecurityOpt:    []string{"no-new-privileges:true"},
			Tmpfs:          map[string]string{"/tmp": "rw,noexec,nosuid,size=100m"},
			Resources: container.Resources{
				Memory:    containerMemoryLimit,
				CPUPeriod: containerCPUPeriod,
				CPUQuota:  containerCPUQuota,
			},
		},
		nil,
		nil,
		"",
	)
	if err != nil {
		return listing{}, fmt.Errorf("failed to create container for '%s': %w", record.ImageReference, err)
	}

	// Teardown runs on success, failure, and timeout alike. It uses a fresh
	// context so a cancelled probe still cleans up.
	defer t.teardown(created.ID)

	attach, err := cli.ContainerAttach(startCtx, created.ID, container.AttachOptions{
		Stream: true,
		Stdin:  true,
		Stdout: true,
		Stderr: true,
	})
	if err != nil {
		return listing{}, fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attach.Close()

	if err := cli.ContainerStart(startCtx, created.ID, container.StartOptions{}); err != nil {
		return listing{}, fmt.Errorf("failed to start container: %w", err)
	}

	select {
	case <-time.After(containerReadyDelay):
	case <-startCtx.Done():
		return listing{}, startCtx.Err()
	}

	session := newStreamSession(attach.Conn, demuxStdout(attach.Reader))
	return introspectSession(session, t.callTimeout)
}

func (t *dockerTransport) teardown(containerID string) {
	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stopTimeout := 5 // seconds
	if err := t.cli.ContainerStop(stopCtx, containerID, container.StopOptions{Timeout: &stopTimeout}); err != nil {
		t.logger.Warn("Failed to stop introspection container", "container", containerID, "error", err)
	}
	if err := t.cli.ContainerRemove(stopCtx, containerID, container.RemoveOptions{Force: true}); err != nil {
		t.logger.Warn("Failed to remove introspection container", "container", containerID, "error", err)
	}
}

// demuxStdout splits the multiplexed attach stream and exposes stdout as a
// plain reader. Stderr is discarded; MCP servers log there freely.
func demuxStdout(mux io.Reader) io.Reader {
	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, io.Discard, mux)
		_ = pw.CloseWithError(err)
	}()
	return pr
}
