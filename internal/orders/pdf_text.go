package orders

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"rsc.io/pdf"
)

const (
	lineTolerance = 2.0 // écart d'ordonnée max (points) entre fragments d'une même ligne
	wordGap       = 1.0 // écart d'abscisse au-delà duquel on insère un espace
)

// ExtractPDFText: extrait le texte brut d'un PDF page par page.
// rsc.io/pdf panique sur certains PDF malformés, d'où le recover.
func ExtractPDFText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF illisible : %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("PDF illisible : %v", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		sb.WriteString(pageText(page))
	}
	return sb.String(), nil
}

// pageText: reconstruit les lignes d'une page depuis les fragments positionnés.
// Tri du haut vers le bas puis de gauche à droite, l'ordre du document est
// préservé pour l'association ligne -> commande.
func pageText(page pdf.Page) string {
	texts := page.Content().Text
	if len(texts) == 0 {
		return ""
	}

	sort.SliceStable(texts, func(i, j int) bool {
		if math.Abs(texts[i].Y-texts[j].Y) > lineTolerance {
			return texts[i].Y > texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var sb strings.Builder
	lastY := texts[0].Y
	lastEnd := 0.0
	for i, t := range texts {
		switch {
		case i == 0:
		case math.Abs(t.Y-lastY) > lineTolerance:
			sb.WriteString("\n")
			lastEnd = 0
		case t.X-lastEnd > wordGap:
			sb.WriteString(" ")
		}
		sb.WriteString(t.S)
		lastY = t.Y
		lastEnd = t.X + t.W
	}
	sb.WriteString("\n")
	return sb.String()
}
