package main

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:           "dashboard",
		Short:         "Wallet dashboard backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
)

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default configs/config.yml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))

	rootCmd.AddCommand(serveCmd, migrateCmd, adminCmd, authorizeCmd)
}

func initConfig() error {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	if err := godotenv.Load(); err != nil {
		logrus.Infof(".env not loaded: %s", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("configs")
		viper.SetConfigName("config")
	}
	viper.SetEnvPrefix("dashboard")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read config")
	}

	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return errors.Wrap(err, "log.level")
	}
	logrus.SetLevel(level)
	logrus.WithField("config", viper.ConfigFileUsed()).Debug("config loaded")
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("auth.login_prefix", "wallet-dashboard-login")
	viper.SetDefault("auth.login_window", 300*time.Second)
	viper.SetDefault("auth.token_ttl", 24*time.Hour)
	viper.SetDefault("chains.mode", "testnet")
	viper.SetDefault("chains.default_chain_id", 97)
	viper.SetDefault("price.vs_currency", "usd")
	viper.SetDefault("price.ttl", 10*time.Minute)
	viper.SetDefault("confirm.interval", 15*time.Second)
	viper.SetDefault("confirm.batch", 50)
	viper.SetDefault("confirm.approval_ttl", 30*time.Minute)
	viper.SetDefault("confirm.pending_ttl", 72*time.Hour)
	viper.SetDefault("notify.driver", "none")
	viper.SetDefault("log.level", "info")
}
