package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"

	"github.com/MrSnakeDoc/navdesk/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("❌ navdesk failed to start: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("❌ navdesk stopped with error: %v", err)
	}
}
