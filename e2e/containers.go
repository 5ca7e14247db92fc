// Package e2e holds container backed tests for the metrics sinks.
package e2e

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	influxOrg    = "e2e_org"
	influxBucket = "e2e_bucket"
	influxToken  = "e2e-token"
)

func requireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("container tests skipped in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
}

// startInflux starts an InfluxDB 2.7 container initialised with the e2e
// organisation, bucket and token, and returns its base URL.
func startInflux(ctx context.Context, t *testing.T) string {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "e2e",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "e2e-password",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(90 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

// startMosquitto spins up a Mosquitto broker accepting anonymous clients.
func startMosquitto(ctx context.Context, t *testing.T) string {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		Cmd:          []string{"mosquitto", "-c", "/mosquitto-no-auth.conf"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start mosquitto: %v", err)
	}
	t.Cleanup(func() { _ = cont.Terminate(context.Background()) })
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "1883")
	return fmt.Sprintf("tcp://%s:%s", host, port.Port())
}
