package database

import (
	"log"

	"gesthor-backend/internal/config"
	"gesthor-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Connexion à la base impossible : %v", err)
	}

	err = DB.AutoMigrate(
		&models.InventorySnapshot{},
		&models.Article{},
		&models.OrderDocument{},
		&models.OrderLine{},
		&models.AllocationRun{},
		&models.AllocationOrderResult{},
		&models.AllocationShortageLine{},
	)
	if err != nil {
		log.Fatalf("Erreur AutoMigrate : %v", err)
	}

	log.Println("Connexion base de données OK. Migration terminée.")
}
