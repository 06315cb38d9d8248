package inventory

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParsedArticle: une ligne retenue du fichier de stock
type ParsedArticle struct {
	Reference       string
	Description     string
	OnHandQuantity  int
	PackagingFactor float64
}

// ParsedInventory: résultat de lecture d'un export de stock Excel
type ParsedInventory struct {
	Articles    []ParsedArticle
	SkippedRows int // lignes vides ou sans code article
}

// positions par défaut quand aucun en-tête n'est reconnu :
// code article, désignation, stock, colisage
const (
	defaultColRef         = 0
	defaultColDescription = 1
	defaultColQuantity    = 2
	defaultColPackaging   = 3
)

// parseFrenchFloat: convertit un nombre au format français en float
// ("1 234,56" -> 1234.56). Les espaces (y compris insécables) servent de
// séparateur de milliers, la virgule de séparateur décimal.
func parseFrenchFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return strconv.ParseFloat(s, 64)
}

// parseQuantity: coercition du stock en entier : vide ou illisible vaut 0,
// jamais négatif (un stock négatif dans l'export vaut rupture)
func parseQuantity(s string) int {
	v, err := parseFrenchFloat(s)
	if err != nil {
		return 0
	}
	qty := int(math.Round(v))
	if qty < 0 {
		return 0
	}
	return qty
}

// parsePackaging: coercition du colisage : vide, illisible ou nul vaut 1
func parsePackaging(s string) float64 {
	v, err := parseFrenchFloat(s)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}

// headerColumns: détecte la ligne d'en-tête et renvoie la position de chaque
// colonne. Renvoie false si la ligne ne ressemble pas à un en-tête.
func headerColumns(row []string) (ref, desc, qty, pack int, ok bool) {
	ref, desc, qty, pack = -1, -1, -1, -1
	for i, cell := range row {
		c := strings.ToUpper(strings.TrimSpace(cell))
		switch {
		case strings.Contains(c, "CODE") || strings.Contains(c, "REF") || c == "ARTICLE" || c == "N°":
			if ref == -1 {
				ref = i
			}
		case strings.Contains(c, "DESIGNATION") || strings.Contains(c, "DÉSIGNATION") || strings.Contains(c, "LIBELLE") || strings.Contains(c, "LIBELLÉ") || strings.Contains(c, "DESCRIPTION"):
			if desc == -1 {
				desc = i
			}
		case strings.Contains(c, "COLISAGE") || strings.Contains(c, "COND"):
			if pack == -1 {
				pack = i
			}
		case strings.Contains(c, "STOCK") || strings.Contains(c, "QUANTITE") || strings.Contains(c, "QUANTITÉ") || strings.Contains(c, "QTE") || strings.Contains(c, "QTÉ"):
			if qty == -1 {
				qty = i
			}
		}
	}
	// l'en-tête est plausible dès qu'on a trouvé le code article et le stock
	if ref == -1 || qty == -1 {
		return 0, 0, 0, 0, false
	}
	if desc == -1 {
		desc = defaultColDescription
	}
	if pack == -1 {
		pack = defaultColPackaging
	}
	return ref, desc, qty, pack, true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ParseInventoryXLSX: lit un export de stock Excel et renvoie les articles.
// Les codes article sont des chaînes opaques : trim des espaces, zéros de
// tête conservés, jamais de conversion numérique.
func ParseInventoryXLSX(r io.Reader) (*ParsedInventory, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("fichier Excel illisible : %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("aucune feuille dans le fichier Excel")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("feuille illisible : %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("fichier Excel vide")
	}

	colRef, colDesc, colQty, colPack := defaultColRef, defaultColDescription, defaultColQuantity, defaultColPackaging
	start := 0
	if r0, d0, q0, p0, ok := headerColumns(rows[0]); ok {
		colRef, colDesc, colQty, colPack = r0, d0, q0, p0
		start = 1
	}

	result := &ParsedInventory{}
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) == 0 {
			result.SkippedRows++
			continue
		}

		reference := cellAt(row, colRef)
		if reference == "" {
			result.SkippedRows++
			continue
		}

		result.Articles = append(result.Articles, ParsedArticle{
			Reference:       reference,
			Description:     cellAt(row, colDesc),
			OnHandQuantity:  parseQuantity(cellAt(row, colQty)),
			PackagingFactor: parsePackaging(cellAt(row, colPack)),
		})
	}

	if len(result.Articles) == 0 {
		return nil, fmt.Errorf("aucun article exploitable dans le fichier")
	}

	return result, nil
}
