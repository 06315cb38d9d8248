package bc

import (
	"errors"
	"log"

	"gesthor-backend/internal/config"

	"github.com/gofiber/fiber/v2"
)

// GET /api/bc/stock/:code
// Vérification de stock en direct dans Business Central. Les identifiants BC
// sont passés par en-têtes et jamais conservés côté serveur.
func ItemStockHandler(cfg *config.Config) fiber.Handler {
	client := NewClient(cfg.BCBaseURL)

	return func(c *fiber.Ctx) error {
		if cfg.BCBaseURL == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Business Central non configuré (BC_BASE_URL)")
		}

		username := c.Get("X-BC-Username")
		password := c.Get("X-BC-Password")
		if username == "" || password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Identifiants Business Central manquants (en-têtes X-BC-Username / X-BC-Password)")
		}

		itemCode := c.Params("code")
		if itemCode == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Code article manquant")
		}

		stock, err := client.FetchItemStock(c.Context(), username, password, itemCode)
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Article non trouvé dans Business Central")
			}
			log.Printf("Lookup Business Central (%s) : %v", itemCode, err)
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}

		return c.JSON(stock)
	}
}
