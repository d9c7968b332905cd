package main

import (
	"os"

	"github.com/avgarcia/go-tasklist/internal/app"
)

func main() {
	err := app.Run()
	if err != nil {
		os.Exit(1)
	}
}
