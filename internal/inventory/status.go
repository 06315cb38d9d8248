package inventory

// LowStockThreshold: seuil en dessous duquel un article est signalé en stock faible
const LowStockThreshold = 500

// Statuts dérivés, jamais stockés en base
const (
	StatusOutOfStock = "rupture"
	StatusLow        = "faible"
	StatusOK         = "ok"
)

// StockStatus: statut d'un article calculé depuis son stock unités
func StockStatus(onHand int) string {
	switch {
	case onHand <= 0:
		return StatusOutOfStock
	case onHand < LowStockThreshold:
		return StatusLow
	default:
		return StatusOK
	}
}

// PackagedQuantity: stock exprimé en colis (stock unités / colisage).
// Un colisage nul ou négatif vaut 1, la division par zéro est impossible.
func PackagedQuantity(onHand int, packaging float64) float64 {
	if packaging <= 0 {
		packaging = 1
	}
	return float64(onHand) / packaging
}
