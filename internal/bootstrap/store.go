package bootstrap

import (
	"context"
	"fmt"

	"github.com/locvowork/employee_records/internal/config"
	"github.com/locvowork/employee_records/internal/database"
	"github.com/locvowork/employee_records/internal/domain"
	"github.com/locvowork/employee_records/internal/events"
	"github.com/locvowork/employee_records/internal/repository"
)

type closer func(ctx context.Context) error

// newStore opens the backend selected by STORE_DRIVER and ensures its schema.
func newStore(ctx context.Context, cfg *config.EnvConfig) (domain.EmployeeStore, closer, error) {
	var (
		store   domain.EmployeeStore
		release closer
	)

	switch cfg.STORE_DRIVER {
	case "mongo":
		client, err := database.NewMongoClient(ctx, cfg.MONGODB_URI)
		if err != nil {
			return nil, nil, err
		}
		store = repository.NewMongoEmployeeRepository(client.Database(cfg.DATABASE), cfg.MONGO_COLLECTION)
		release = client.Disconnect

	case "postgres":
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, nil, err
		}
		store = repository.NewPostgresEmployeeRepository(db)
		release = func(context.Context) error { return db.Close() }

	case "datastore":
		client, err := database.NewDatastoreClient(ctx, cfg.DATASTORE_PROJECT_ID)
		if err != nil {
			return nil, nil, err
		}
		store = repository.NewDatastoreEmployeeRepository(client, cfg.DATASTORE_KIND)
		release = func(context.Context) error { return client.Close() }

	case "elastic":
		client, err := database.NewElasticClient(cfg.ELASTIC_URL)
		if err != nil {
			return nil, nil, err
		}
		store = repository.NewElasticEmployeeRepository(client, cfg.ELASTIC_INDEX)
		release = func(context.Context) error {
			client.Stop()
			return nil
		}

	case "memory":
		store = repository.NewMemoryEmployeeRepository()
		release = func(context.Context) error { return nil }

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.STORE_DRIVER)
	}

	if err := store.EnsureSchema(ctx); err != nil {
		_ = release(context.Background())
		return nil, nil, fmt.Errorf("failed to ensure %s schema: %w", cfg.STORE_DRIVER, err)
	}
	return store, release, nil
}

// newPublisher returns a Redis publisher when REDIS_ADDR is set.
func newPublisher(ctx context.Context, cfg *config.EnvConfig) (domain.EventPublisher, closer, error) {
	if cfg.REDIS_ADDR == "" {
		return events.Noop{}, func(context.Context) error { return nil }, nil
	}
	rdb, err := database.NewRedisClient(ctx, cfg.REDIS_ADDR)
	if err != nil {
		return nil, nil, err
	}
	return events.NewRedisPublisher(rdb, cfg.REDIS_CHANNEL), func(context.Context) error { return rdb.Close() }, nil
}
