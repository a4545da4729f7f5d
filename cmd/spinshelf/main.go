package main

import (
	"log"

	"github.com/spinshelf/spinshelf/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("spinshelf failed to start: %v", err)
	}
}
