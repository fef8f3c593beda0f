package main

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"wallet_dashboard_back/models"
	"wallet_dashboard_back/pkg/notify"
	"wallet_dashboard_back/pkg/repository"
)

func dbConfig() repository.Config {
	return repository.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   viper.GetString("db.dbname"),
		SSLMode:  viper.GetString("db.sslmode"),
	}
}

func openDB() (*sqlx.DB, error) {
	db, err := repository.NewPostgresDB(dbConfig())
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	logrus.Info("database connected")
	return db, nil
}

func loadNetworks() ([]models.Network, error) {
	var networks []models.Network
	if err := viper.UnmarshalKey("chains.networks", &networks); err != nil {
		return nil, errors.Wrap(err, "chains.networks")
	}
	if len(networks) == 0 {
		return nil, errors.New("chains.networks is empty")
	}
	return networks, nil
}

func notifyConfig() notify.Config {
	return notify.Config{
		Driver:        viper.GetString("notify.driver"),
		From:          viper.GetString("notify.from"),
		FromName:      viper.GetString("notify.from_name"),
		To:            viper.GetString("notify.to"),
		SMTPHost:      viper.GetString("notify.smtp_host"),
		SMTPPort:      viper.GetInt("notify.smtp_port"),
		SMTPUser:      viper.GetString("notify.smtp_user"),
		SMTPPass:      os.Getenv("SMTP_PASSWORD"),
		MailjetKey:    os.Getenv("MAILJET_API_KEY"),
		MailjetSecret: os.Getenv("MAILJET_SECRET_KEY"),
	}
}
