package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 THEMESTORE_STORAGE_TYPE
const EnvPrefix = "THEMESTORE"

// Load 初始化 Viper 配置
// cfgFile: 可选，用户显式指定的配置文件路径
func Load(cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults()

	// 2. 配置搜索路径
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// 搜索顺序：当前目录 -> ./.themestore -> ~/.themestore
		viper.AddConfigPath(".")
		viper.AddConfigPath(".themestore")
		viper.AddConfigPath(filepath.Join(home, ".themestore"))

		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// 3. 环境变量 (THEMESTORE_STORAGE_REDIS_URL -> storage.redis.url)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 4. 读取配置文件
	if err := viper.ReadInConfig(); err != nil {
		// 没找到配置文件不算错，仍然可以靠默认值和环境变量
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Fprintln(os.Stderr, "⚠️  No config file found, using defaults/env vars")
		} else {
			return fmt.Errorf("fatal error config file: %w", err)
		}
	} else {
		fmt.Fprintln(os.Stderr, "🔧 Using config file:", viper.ConfigFileUsed())
	}

	return nil
}

func setDefaults() {
	// 存储默认值
	wd, _ := os.Getwd()
	viper.SetDefault("storage.type", "disk")
	viper.SetDefault("storage.path", filepath.Join(wd, ".themestore", "objects"))
	viper.SetDefault("storage.redis.url", "redis://localhost:6379/0")
	viper.SetDefault("storage.redis.ttl", "0s")
	viper.SetDefault("storage.s3.region", "us-east-1")

	// 数据库默认值 (postgres flavor)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.name", "themestore")
	viper.SetDefault("database.sslmode", "disable")

	// 日志
	viper.SetDefault("logging.mode", "development")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "themestore.log")
	viper.SetDefault("logging.console", true)

	// 服务端
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.metrics", ":9090")
}
