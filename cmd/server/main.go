package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kazumasakawahara/inheritance-calculator/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	srv := server.NewServer()
	r := srv.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = srv.Config.Server.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
