package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"wallet_dashboard_back/pkg/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables and change-notification triggers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repository.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		logrus.Info("schema applied")
		return nil
	},
}
