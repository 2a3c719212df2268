package database

import (
	"context"
	"fmt"
	"time"

	_ "github.com/lib/pq" // драйвер "postgres" для PG_DRIVER_NAME=postgres
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/s/onlineLearning/internal/metrics"
)

// локальный дефолт, если DATABASE_URL не пробросили
const defaultPostgresDSN = "host=db user=postgres password=1234 dbname=testdb port=5432 sslmode=disable"

type Options struct {
	Driver       string // postgres|mysql|sqlite
	DSN          string
	PGDriverName string // "" — pgx, "postgres" — lib/pq
	Attempts     int
	Wait         time.Duration
	LogLevel     logger.LogLevel
}

// Dialector выбирает драйвер gorm по имени
func Dialector(opts Options) (gorm.Dialector, error) {
	dsn := opts.DSN
	switch opts.Driver {
	case "", "postgres":
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
		return postgres.New(postgres.Config{DriverName: opts.PGDriverName, DSN: dsn}), nil
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("mysql: пустой DATABASE_URL")
		}
		return mysql.Open(dsn), nil
	case "sqlite":
		if dsn == "" {
			dsn = "file:learning.db?_foreign_keys=on"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер БД %q", opts.Driver)
	}
}

func Open(opts Options) (*gorm.DB, error) {
	dial, err := Dialector(opts)
	if err != nil {
		return nil, err
	}
	lvl := opts.LogLevel
	if lvl == 0 {
		lvl = logger.Warn
	}
	return gorm.Open(dial, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(lvl),
	})
}

func Connect(opts Options, log *zap.Logger) (*gorm.DB, error) {
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = 5
	}
	wait := opts.Wait
	if wait <= 0 {
		wait = 2 * time.Second
	}

	var db *gorm.DB
	var err error

	// Попытки подключения (Docker-база иногда «просыпается» пару секунд)
	for i := 0; i < attempts; i++ {
		db, err = Open(opts)
		if err == nil {
			if err = Ping(context.Background(), db); err == nil {
				log.Info("подключение к базе данных", zap.String("driver", opts.Driver))
				return db, nil
			}
		}

		log.Warn("попытка подключения не удалась", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(wait)
	}

	return nil, fmt.Errorf("не удалось подключиться к БД после %d попыток: %w", attempts, err)
}

// Ping проверяет соединение и пишет задержку в метрики
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	start := time.Now()
	err = sqlDB.PingContext(ctx)
	metrics.ObserveDBPing(time.Since(start))
	return err
}
