package dockertest

import (
	"fmt"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = fallback
	}
	return value
}

func GetDockerHost() string {
	return getEnv("DOCKERTEST_HOST", "localhost")
}

// StartupPostgreSQL runs a throwaway postgres container for the duration of
// the test and returns a gorm connection to it.
func StartupPostgreSQL(t *testing.T) *gorm.DB {
	t.Helper()

	require := require.New(t)

	pool, err := dockertest.NewPool("")
	require.NoError(err, "connect to docker")

	resource, err := pool.Run("postgres", "14.2-alpine", []string{"POSTGRES_PASSWORD=postgres"})
	require.NoError(err, "start postgres")

	t.Cleanup(func() {
		err := pool.Purge(resource)
		require.NoError(err, "purge resource %s", resource)
	})

	var orm *gorm.DB
	// exponential backoff-retry, because the application in the container might not be ready to accept connections yet
	err = pool.Retry(func() error {
		orm, err = gorm.Open(postgres.Open(fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres", GetDockerHost(), resource.GetPort("5432/tcp"))), &gorm.Config{})
		if err != nil {
			return err
		}

		d, err := orm.DB()
		if err != nil {
			return err
		}

		return d.Ping()
	})
	require.NoError(err, "wait for postgres connection")

	return orm
}
