package allocation

// Line: ligne de commande normalisée consommée par le moteur.
// La validation (quantité > 0, référence non vide) est faite en amont
// par l'extracteur, jamais ici.
type Line struct {
	OrderID    string
	ArticleRef string
	Quantity   int
}

// LineResult: détail d'une ligne en rupture
type LineResult struct {
	ArticleRef string `json:"article_ref"`
	Ordered    int    `json:"quantity_ordered"`
	Delivered  int    `json:"quantity_delivered"`
	Missing    int    `json:"quantity_missing"`
}

// OrderResult: résultat d'allocation pour une commande
type OrderResult struct {
	OrderID        string       `json:"order_id"`
	TotalOrdered   int          `json:"total_ordered"`
	TotalDelivered int          `json:"total_delivered"`
	ShortageLines  []LineResult `json:"shortage_lines"`
}

// ServiceRate: taux de service de la commande en % (0 si rien de commandé)
func (o *OrderResult) ServiceRate() float64 {
	if o.TotalOrdered == 0 {
		return 0
	}
	return float64(o.TotalDelivered) / float64(o.TotalOrdered) * 100
}

// RunResult: résultat complet d'une simulation. Les totaux globaux sont des
// sommes exactes de quantités, jamais une moyenne de pourcentages (une moyenne
// de taux surpondérerait les petites commandes).
type RunResult struct {
	Orders         []OrderResult `json:"orders"`
	TotalOrdered   int           `json:"total_ordered"`
	TotalDelivered int           `json:"total_delivered"`
}

// GlobalServiceRate: taux de service global en % (0 si rien de commandé)
func (r *RunResult) GlobalServiceRate() float64 {
	if r.TotalOrdered == 0 {
		return 0
	}
	return float64(r.TotalDelivered) / float64(r.TotalOrdered) * 100
}

// Allocate: répartit le stock disponible entre les commandes, dans l'ordre des
// lignes. Le stock est un pool unique partagé : une ligne traitée plus tard ne
// voit que ce qui reste après toutes les lignes précédentes, même si elles
// appartiennent à d'autres commandes. Les commandes sont regroupées pour le
// reporting dans l'ordre de leur première apparition, les lignes d'un même
// groupe gardent leur ordre relatif d'origine.
//
// L'inventaire passé en argument n'est jamais modifié : le moteur travaille
// sur sa propre copie, propriété exclusive de cette exécution. Deux appels
// avec les mêmes entrées produisent un résultat strictement identique.
// Aucune E/S, aucun flottant sur les quantités.
func Allocate(inventory map[string]int, lines []Line) *RunResult {
	// copie de travail : la photo de stock d'origine reste intacte
	remaining := make(map[string]int, len(inventory))
	for ref, qty := range inventory {
		if qty > 0 {
			remaining[ref] = qty
		}
	}

	result := &RunResult{}
	orderIndex := make(map[string]int) // numéro de commande -> position (premier vu)

	for _, ln := range lines {
		if ln.Quantity <= 0 {
			// le contrat impose le rejet en amont ; une ligne nulle qui
			// arriverait quand même ne pèse ni demande ni livraison
			continue
		}

		idx, seen := orderIndex[ln.OrderID]
		if !seen {
			idx = len(result.Orders)
			orderIndex[ln.OrderID] = idx
			result.Orders = append(result.Orders, OrderResult{OrderID: ln.OrderID})
		}
		order := &result.Orders[idx]

		// référence absente de l'inventaire : 0 disponible, rupture totale
		available := remaining[ln.ArticleRef]
		delivered := ln.Quantity
		if available < delivered {
			delivered = available
		}
		if delivered > 0 {
			remaining[ln.ArticleRef] = available - delivered
		}
		missing := ln.Quantity - delivered

		order.TotalOrdered += ln.Quantity
		order.TotalDelivered += delivered
		result.TotalOrdered += ln.Quantity
		result.TotalDelivered += delivered

		if missing > 0 {
			order.ShortageLines = append(order.ShortageLines, LineResult{
				ArticleRef: ln.ArticleRef,
				Ordered:    ln.Quantity,
				Delivered:  delivered,
				Missing:    missing,
			})
		}
	}

	return result
}
