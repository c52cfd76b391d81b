// pkg/app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"themestore/pkg/logging"
	"themestore/pkg/storage"
	"themestore/pkg/storage/badger"
	"themestore/pkg/storage/disk"
	"themestore/pkg/storage/memory"
	"themestore/pkg/storage/redis"
	"themestore/pkg/storage/s3"
	"themestore/pkg/storage/sqlstore"
	"themestore/pkg/themefiles"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App 是整个应用程序的依赖容器 (Dependency Container)
// CLI 和 gRPC 服务端共用同一套组装逻辑
type App struct {
	Files  *themefiles.Storage
	Store  storage.Client
	Flavor storage.Flavor
	Logger *zap.Logger

	closer io.Closer
}

// NewApp 按 Viper 配置组装存储层，不关心具体的 CLI 命令
func NewApp(ctx context.Context) (*App, error) {
	logger, err := logging.New(logging.Config{
		Mode:    viper.GetString("logging.mode"),
		Level:   viper.GetString("logging.level"),
		Dir:     viper.GetString("logging.dir"),
		File:    viper.GetString("logging.file"),
		Console: viper.GetBool("logging.console"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	flavor, err := storage.ParseFlavor(viper.GetString("storage.type"))
	if err != nil {
		return nil, err
	}

	store, err := initStore(ctx, flavor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	app := &App{
		Files:  themefiles.New(store, flavor, themefiles.WithLogger(logger)),
		Store:  store,
		Flavor: flavor,
		Logger: logger,
	}
	if c, ok := store.(io.Closer); ok {
		app.closer = c
	}

	logger.Info("storage ready",
		zap.String("flavor", flavor.String()),
		zap.String("strategy", string(flavor.Strategy())),
		zap.Int("concurrency", app.Files.Concurrency()))
	return app, nil
}

// initStore 根据 flavor 创建具体后端
// 只支持单 key 读的后端 (disk, s3) 用 FanOut 包装成批量接口
func initStore(ctx context.Context, flavor storage.Flavor, logger *zap.Logger) (storage.Client, error) {
	switch flavor {
	case storage.FlavorMemory:
		return memory.New(), nil

	case storage.FlavorDisk:
		path := viper.GetString("storage.path")
		if path == "" {
			return nil, fmt.Errorf("storage.path is required for disk storage")
		}
		adapter, err := disk.NewAdapter(path)
		if err != nil {
			return nil, err
		}
		return storage.NewFanOut(adapter), nil

	case storage.FlavorS3:
		adapter, err := s3.NewAdapter(ctx, s3.Config{
			Endpoint:        viper.GetString("storage.s3.endpoint"),
			Region:          viper.GetString("storage.s3.region"),
			Bucket:          viper.GetString("storage.s3.bucket"),
			AccessKeyID:     viper.GetString("storage.s3.access_key"),
			SecretAccessKey: viper.GetString("storage.s3.secret_key"),
		}, logger)
		if err != nil {
			return nil, err
		}
		return storage.NewFanOut(adapter), nil

	case storage.FlavorBadger:
		path := viper.GetString("storage.path")
		if path == "" {
			return nil, fmt.Errorf("storage.path is required for badger storage")
		}
		store, err := badger.NewStore(badger.Config{Directory: path}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	case storage.FlavorSQLite:
		path := viper.GetString("storage.path")
		if path == "" {
			return nil, fmt.Errorf("storage.path is required for sqlite storage")
		}
		// storage.path 是目录时落到目录下的 themestore.db
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "themestore.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite dir: %w", err)
		}
		db, err := sqlstore.OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return sqlstore.NewStore(db), nil

	case storage.FlavorPostgres:
		db, err := sqlstore.OpenPostgres(ctx, sqlstore.Config{
			Host:     viper.GetString("database.host"),
			Port:     viper.GetInt("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			DBName:   viper.GetString("database.name"),
			SSLMode:  viper.GetString("database.sslmode"),
		})
		if err != nil {
			return nil, err
		}
		return sqlstore.NewStore(db), nil

	case storage.FlavorRedis:
		store, err := redis.NewStore(redis.Config{
			RedisURL: viper.GetString("storage.redis.url"),
			TTL:      viper.GetDuration("storage.redis.ttl"),
		}, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: %q", storage.ErrUnknownFlavor, flavor)
	}
}

// Close 释放后端连接并刷新日志
func (a *App) Close() error {
	var err error
	if a.closer != nil {
		err = a.closer.Close()
	}
	_ = a.Logger.Sync()
	return err
}
