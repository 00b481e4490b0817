package main

import (
	"log"

	"github.com/dropx-tech/marketplace-backend/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	app.Run()
}
