package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/BarnaTB/employee-leave-system/internal/config"
	"github.com/BarnaTB/employee-leave-system/internal/db"
	"github.com/BarnaTB/employee-leave-system/internal/employee"
	"github.com/BarnaTB/employee-leave-system/internal/logger"
	"github.com/BarnaTB/employee-leave-system/internal/redis"

	_ "github.com/lib/pq"
)

type Infra struct {
	DB        *db.DB // nil for the memory store
	Redis     *redis.Client
	Employees employee.Store
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	switch cfg.StoreDriver {
	case "memory":
		infra.Employees = employee.NewMemoryStore()
		logger.Warn("using in-memory employee store", nil)
	default:
		conn, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		infra.DB = conn
		infra.Employees = employee.NewPostgresStore(conn)
		logger.Info("database ready", nil)
	}

	redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}
	infra.Redis = redisClient

	logger.Info("redis ready", map[string]any{
		"addr": cfg.RedisAddr,
	})

	return infra, nil
}

func openPostgres(ctx context.Context, dsn string) (*db.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := db.RunEmployeesMigration(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &db.DB{DB: sqlDB}, nil
}

// Close releases every connection held by the infra.
func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}
