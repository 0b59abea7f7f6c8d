package main

import (
	"cropdesk/internal/db"
	"cropdesk/internal/logger"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(a *app) error {
	gdb, err := db.Connect(a.cfg.DBDriver, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return err
	}
	logger.Info("migrations applied", "driver", a.cfg.DBDriver)
	return nil
}
