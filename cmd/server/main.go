// cmd/server/main.go
package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/mailcanvas/campaign-backend/internal/config"
	"github.com/mailcanvas/campaign-backend/internal/controller"
	"github.com/mailcanvas/campaign-backend/internal/db"
	"github.com/mailcanvas/campaign-backend/internal/events"
	"github.com/mailcanvas/campaign-backend/internal/mailer"
	"github.com/mailcanvas/campaign-backend/internal/repository"
	"github.com/mailcanvas/campaign-backend/internal/service"
)

func main() {
	// Load .env
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

	campaignRepo := &repository.CampaignRepository{DB: database}

	var publisher events.LaunchPublisher = events.NopPublisher{}
	if cfg.AMQPUrl != "" {
		publisher = &events.AMQPPublisher{URL: cfg.AMQPUrl}
		log.Println("📡 Launch events enabled")
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		Mailer:       mailer.NewSendGridSender(cfg.SendGridAPIKey, cfg.SenderName),
		Events:       publisher,
		SenderEmail:  cfg.SenderEmail,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
	}

	r := chi.NewRouter()

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("API is running"))
	})

	// Campaign routes
	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaign)
	r.Delete("/campaigns/{id}", campaignController.DeleteCampaign)
	r.Post("/campaigns/launch", campaignController.LaunchCampaign)

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
