package main

import (
	"cacc/config"
	"cacc/database"
	"cacc/routers"
	"cacc/utils"
)

func main() {
	config.LoadConfig()
	utils.ConfigureLogger(config.AppConfig)
	database.ConnectDb()

	app := routers.New()

	utils.Logger.WithField("port", config.AppConfig.Port).Info("Server is running")
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		utils.Logger.WithError(err).Fatal("Server stopped")
	}
}
