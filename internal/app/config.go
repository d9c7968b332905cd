package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/avgarcia/go-tasklist/internal/config"
)

func readConfig() (*config.Config, error) {
	return config.NewEnvReader().Read()
}
