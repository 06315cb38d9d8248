package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	CORSOrigins string
	BCBaseURL   string // URL OData Business Central (lookup stock en direct)
}

func Load() *Config {
	// .env optionnel, pratique en local (les variables d'environnement priment)
	if err := godotenv.Load(); err == nil {
		log.Println("Fichier .env chargé")
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=gesthor port=5432 sslmode=disable"),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		BCBaseURL:   getEnv("BC_BASE_URL", ""),
	}

	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=gesthor port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN valeur par défaut utilisée, à définir impérativement en production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS valeur par défaut utilisée, à définir pour le domaine de production.")
	}
	if cfg.BCBaseURL == "" {
		log.Println("[WARN] BC_BASE_URL non défini, la vérification de stock Business Central sera indisponible.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
