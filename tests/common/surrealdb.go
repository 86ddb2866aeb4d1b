// Package common holds container helpers shared by the integration suites.
package common

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/bobmcallan/finlens/internal/common"
)

const (
	// DockerEnvVar gates every test that needs a container
	DockerEnvVar = "FINLENS_TEST_DOCKER"
	// ImageEnvVar overrides the SurrealDB image used for tests
	ImageEnvVar = "FINLENS_TEST_SURREALDB_IMAGE"

	defaultSurrealImage = "surrealdb/surrealdb:v3.0.0"
	surrealPort         = "8000/tcp"

	// TestNamespace holds every database created by the test suites
	TestNamespace = "finlens_test"
	TestUser      = "root"
	TestPassword  = "root"
)

var (
	surrealOnce      sync.Once
	surrealContainer *SurrealDB
	surrealErr       error
)

// SurrealDB is the shared company-directory database for a test process.
type SurrealDB struct {
	container testcontainers.Container
	address   string
}

// RequireDocker skips t unless container tests are enabled.
func RequireDocker(t *testing.T) {
	t.Helper()
	if os.Getenv(DockerEnvVar) != "true" {
		t.Skipf("Docker tests disabled (set %s=true to enable)", DockerEnvVar)
	}
}

// StartSurrealDB returns the process-wide SurrealDB container, starting it on
// first use. Tests are skipped when Docker is not enabled.
func StartSurrealDB(t *testing.T) *SurrealDB {
	t.Helper()
	RequireDocker(t)

	surrealOnce.Do(func() {
		surrealContainer, surrealErr = runSurrealDB(context.Background())
	})
	if surrealErr != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealErr)
	}
	return surrealContainer
}

func runSurrealDB(ctx context.Context) (*SurrealDB, error) {
	image := os.Getenv(ImageEnvVar)
	if image == "" {
		image = defaultSurrealImage
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{surrealPort},
			Cmd:          []string{"start", "--user", TestUser, "--pass", TestPassword, "memory"},
			Labels:       map[string]string{"app": "finlens", "purpose": "company-directory-tests"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort(surrealPort),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", image, err)
	}

	endpoint, err := container.PortEndpoint(ctx, surrealPort, "ws")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("resolve SurrealDB endpoint: %w", err)
	}

	return &SurrealDB{container: container, address: endpoint + "/rpc"}, nil
}

// Address returns the WebSocket RPC address.
func (s *SurrealDB) Address() string {
	return s.address
}

// StorageConfig returns a storage section pointing at a fresh database named
// after the test, so suites never see each other's companies.
func (s *SurrealDB) StorageConfig(t *testing.T, prefix string) common.StorageConfig {
	return common.StorageConfig{
		Address:   s.address,
		Namespace: TestNamespace,
		Database:  DatabaseName(prefix, t),
		Username:  TestUser,
		Password:  TestPassword,
	}
}

// DatabaseName derives a per-test database name. SurrealDB rejects "/" in names.
func DatabaseName(prefix string, t *testing.T) string {
	sanitized := strings.NewReplacer("/", "_", " ", "_", "-", "_").Replace(t.Name())
	return fmt.Sprintf("%s_%s_%d", prefix, sanitized, time.Now().UnixNano()%100000)
}

// CleanupSurrealDB terminates the shared container if one was started.
func CleanupSurrealDB() {
	if surrealContainer != nil && surrealContainer.container != nil {
		surrealContainer.container.Terminate(context.Background())
	}
}
