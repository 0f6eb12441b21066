package main

import (
	"log"

	"github.com/Rouggerxavier/projeto-chatbot/internal/bootstrap"
	"github.com/Rouggerxavier/projeto-chatbot/internal/config"
	"github.com/Rouggerxavier/projeto-chatbot/internal/server"
	"github.com/Rouggerxavier/projeto-chatbot/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	if container.EventPublisher != nil {
		defer container.EventPublisher.Close()
	}

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
