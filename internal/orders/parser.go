package orders

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ExtractedLine: une ligne (commande, article, quantité) extraite du document.
// L'ordre d'apparition fait foi pour l'allocation, les doublons sont conservés.
type ExtractedLine struct {
	OrderID    string
	ArticleRef string
	Quantity   int
}

// ParseResult: sortie de l'extracteur, prête pour le moteur d'allocation
type ParseResult struct {
	Lines    []ExtractedLine
	OrderIDs []string // numéros rencontrés, ordre de première apparition
	Rejected int      // lignes produit écartées à la validation (qté <= 0, référence absente)
	Orphans  int      // lignes produit trouvées avant tout numéro de commande
}

// orderMarkerRe: repère un numéro de commande ("Commande N° 123456",
// "CDE : 98765", "N° de commande 4521")
var orderMarkerRe = regexp.MustCompile(`(?i)\b(?:commande|cde)\b[^0-9\n]{0,20}(\d{3,})`)

// refRe: un code article : numérique (zéros de tête significatifs) ou
// préfixe lettres + chiffres (ex: 004612, TM0012)
var refRe = regexp.MustCompile(`^\d{4,}$|^[A-Z]{1,4}\d{3,}[A-Z0-9]*$`)

// unitTokens: jetons d'unité qui terminent une ligne produit. C'est l'ancre
// structurelle de la reconnaissance : la quantité est le nombre qui précède
// immédiatement l'unité.
var unitTokens = map[string]bool{
	"UN": true, "UNI": true, "UNITE": true, "UNITES": true,
	"PC": true, "PCE": true, "PCS": true,
	"CAR": true, "CART": true, "CARTON": true, "CARTONS": true,
	"COLIS": true, "BOX": true, "SAC": true, "SACS": true,
	"KG": true, "PAL": true, "PALETTE": true,
}

// normalizeToken: jeton en majuscules, ponctuation de bord retirée
func normalizeToken(s string) string {
	return strings.Trim(strings.ToUpper(s), ".,;:()")
}

// parseQuantityToken: quantité entière ("24", "24,00"). Erreur si le jeton
// n'est pas un nombre.
func parseQuantityToken(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(v)), nil
}

// productLine: tente de lire une ligne produit : référence article quelque
// part en début de ligne, quantité ancrée sur le dernier jeton d'unité.
// Renvoie found=false si la ligne ne ressemble pas à une ligne produit.
func productLine(fields []string) (ref string, qty int, found bool) {
	// jeton d'unité le plus à droite, précédé d'un nombre
	unitIdx := -1
	for i := len(fields) - 1; i >= 1; i-- {
		if !unitTokens[normalizeToken(fields[i])] {
			continue
		}
		if _, err := parseQuantityToken(fields[i-1]); err == nil {
			unitIdx = i
			break
		}
	}
	if unitIdx == -1 {
		return "", 0, false
	}
	qty, _ = parseQuantityToken(fields[unitIdx-1])

	// première occurrence d'un code article avant la quantité
	for i := 0; i < unitIdx-1; i++ {
		tok := normalizeToken(fields[i])
		if refRe.MatchString(tok) {
			return tok, qty, true
		}
	}
	return "", qty, true
}

// ParseOrderText: transforme le texte d'un document de commandes en lignes
// normalisées. Association par « dernier numéro de commande rencontré » :
// chaque ligne produit est rattachée au marqueur qui la précède dans le
// document, y compris quand les lignes d'une commande sont éclatées sur
// plusieurs pages. Les lignes invalides (quantité nulle ou négative,
// référence absente) sont écartées ici, jamais transmises au moteur.
func ParseOrderText(text string) (*ParseResult, error) {
	result := &ParseResult{}
	seenOrders := make(map[string]bool)
	currentOrder := ""

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if m := orderMarkerRe.FindStringSubmatch(line); m != nil {
			currentOrder = m[1]
			if !seenOrders[currentOrder] {
				seenOrders[currentOrder] = true
				result.OrderIDs = append(result.OrderIDs, currentOrder)
			}
			continue
		}

		fields := strings.Fields(line)
		ref, qty, found := productLine(fields)
		if !found {
			continue // bruit : en-têtes, totaux, adresses
		}
		if currentOrder == "" {
			result.Orphans++
			continue
		}
		if ref == "" || qty <= 0 {
			result.Rejected++
			continue
		}

		result.Lines = append(result.Lines, ExtractedLine{
			OrderID:    currentOrder,
			ArticleRef: ref,
			Quantity:   qty,
		})
	}

	if len(result.OrderIDs) == 0 {
		return nil, fmt.Errorf("aucun numéro de commande trouvé dans le document")
	}
	if len(result.Lines) == 0 {
		return nil, fmt.Errorf("aucune ligne de commande exploitable (%d écartées, %d orphelines)", result.Rejected, result.Orphans)
	}

	return result, nil
}
