package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/planweaver/planweaver-backend/internal/app"
)

func main() {
	var replace bool
	flag.BoolVar(&replace, "replace", false, "overwrite existing builtin rows with the seed content")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Failed to load .env: %v\n", err)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	applied, err := application.Services.Catalog.SeedBuiltin(context.Background(), replace)
	if err != nil {
		fmt.Printf("seed catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seed catalog: %d rows applied (replace=%v)\n", applied, replace)
}
