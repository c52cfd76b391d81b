package commands

import (
	"context"
	"fmt"
	"os"

	"themestore/pkg/app"
	"themestore/pkg/client"
	"themestore/pkg/config"
	"themestore/pkg/themefiles"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// FileStore 本地 (themefiles.Storage) 和远端 (client.Client) 共用的接口
type FileStore interface {
	GetFiles(ctx context.Context, configs []themefiles.FileConfig) ([]themefiles.FileConfig, error)
	PutFiles(ctx context.Context, configs []themefiles.FileConfig) (*themefiles.PutFilesResult, error)
}

var (
	cfgFile    string
	serverAddr string

	// 全局存储句柄，供子命令使用
	Files FileStore
	// 非 nil 时表示本地模式
	TS     *app.App
	remote *client.Client
)

var rootCmd = &cobra.Command{
	Use:           "themestore",
	Short:         "ThemeStore: batched theme asset storage",
	SilenceUsage:  true,
	SilenceErrors: false,
	// PersistentPreRunE 在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// plan 只做本地规划，不需要存储
		if cmd.Name() == "plan" || Files != nil {
			return nil
		}

		if serverAddr != "" {
			c, err := client.NewClient(serverAddr)
			if err != nil {
				return err
			}
			remote = c
			Files = c
			return nil
		}

		a, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize themestore: %w", err)
		}
		TS = a
		Files = a.Files
		return nil
	},
	// 子命令出错时 cobra 不会调用 PostRun，兜底的关闭放在 execute 里
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func closeStore() error {
	var err error
	if remote != nil {
		err = remote.Close()
		remote = nil
	}
	if TS != nil {
		err = TS.Close()
		TS = nil
	}
	Files = nil
	return err
}

// Execute 是入口
func Execute() error {
	return execute(context.Background())
}

// execute 无论命令成败都释放存储 (badger 文件锁、数据库连接、日志缓冲)
func execute(ctx context.Context) (err error) {
	defer func() {
		if cerr := closeStore(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.themestore/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "themestore-server address; empty means use local storage")

	// 命令行参数可以覆盖 yaml 和环境变量
	rootCmd.PersistentFlags().String("storage-type", "", "Storage flavor (memory, disk, badger, sqlite, redis, postgres, s3)")
	rootCmd.PersistentFlags().String("storage-path", "", "Directory for disk/badger/sqlite storage")
	for key, flag := range map[string]string{
		"storage.type": "storage-type",
		"storage.path": "storage-path",
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Println("Failed to bind flag:", err)
			os.Exit(1)
		}
	}
}

func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
