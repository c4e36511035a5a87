//cmd/seeder/main.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mailcanvas/campaign-backend/internal/config"
	"github.com/mailcanvas/campaign-backend/internal/db"
	"github.com/mailcanvas/campaign-backend/internal/model"
	"github.com/mailcanvas/campaign-backend/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	database, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	repo := &repository.CampaignRepository{DB: database}

	content, err := os.ReadFile("seed/campaigns.json")
	if err != nil {
		log.Fatalf("failed to read seed file: %v", err)
	}

	var campaigns []model.Campaign
	if err := json.Unmarshal(content, &campaigns); err != nil {
		log.Fatalf("failed to parse seed file: %v", err)
	}

	for i := range campaigns {
		if err := repo.Save(&campaigns[i]); err != nil {
			log.Fatalf("failed to seed campaign %q: %v", campaigns[i].Name, err)
		}
		fmt.Printf("Seeded: %s (%s)\n", campaigns[i].Name, campaigns[i].ID)
	}

	fmt.Println("Database seeding completed successfully!")
}
