package orders

import "testing"

const sampleDocument = `SUNTAT GROUP - Bon de préparation
Commande N° 100245
Code    Désignation                Qté  Unité
004612  BOULGOUR GROS 5KG          24   CAR
TM0012  THE A LA MENTHE            12   COLIS
Sous-total : 36 lignes
Commande N° 100246
004612  BOULGOUR GROS 5KG          10   CAR
`

func TestParseOrderTextAssociation(t *testing.T) {
	result, err := ParseOrderText(sampleDocument)
	if err != nil {
		t.Fatalf("ParseOrderText : %v", err)
	}

	if len(result.OrderIDs) != 2 || result.OrderIDs[0] != "100245" || result.OrderIDs[1] != "100246" {
		t.Fatalf("numéros de commande incorrects : %v", result.OrderIDs)
	}
	if len(result.Lines) != 3 {
		t.Fatalf("attendu 3 lignes, obtenu %d : %+v", len(result.Lines), result.Lines)
	}

	// chaque ligne est rattachée au dernier marqueur rencontré
	expected := []ExtractedLine{
		{OrderID: "100245", ArticleRef: "004612", Quantity: 24},
		{OrderID: "100245", ArticleRef: "TM0012", Quantity: 12},
		{OrderID: "100246", ArticleRef: "004612", Quantity: 10},
	}
	for i, want := range expected {
		if result.Lines[i] != want {
			t.Fatalf("ligne %d : obtenu %+v, attendu %+v", i, result.Lines[i], want)
		}
	}
}

// Les doublons exacts sont conservés : chacun pèse sa propre demande.
func TestParseOrderTextKeepsDuplicates(t *testing.T) {
	text := `Commande N° 555123
004612  BOULGOUR  3  CAR
004612  BOULGOUR  3  CAR
`
	result, err := ParseOrderText(text)
	if err != nil {
		t.Fatalf("ParseOrderText : %v", err)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("doublons perdus : %+v", result.Lines)
	}
}

// Les lignes d'une commande peuvent réapparaître après une autre commande
// (pages entrelacées) : même numéro, positions d'origine conservées.
func TestParseOrderTextInterleavedPages(t *testing.T) {
	text := `Commande N° 111001
004612  BOULGOUR  5  CAR
Commande N° 111002
TM0012  THE  2  COLIS
Commande N° 111001
004613  SEMOULE FINE  7  SAC
`
	result, err := ParseOrderText(text)
	if err != nil {
		t.Fatalf("ParseOrderText : %v", err)
	}

	if len(result.OrderIDs) != 2 {
		t.Fatalf("le numéro revu ne doit pas être compté deux fois : %v", result.OrderIDs)
	}
	if result.Lines[2].OrderID != "111001" {
		t.Fatalf("ligne après retour de page mal associée : %+v", result.Lines[2])
	}
}

// Quantité nulle ou négative : ligne écartée à la validation, jamais
// transmise au moteur.
func TestParseOrderTextRejectsInvalidQuantities(t *testing.T) {
	text := `Commande N° 900001
004612  BOULGOUR  0  CAR
004613  SEMOULE  4  CAR
`
	result, err := ParseOrderText(text)
	if err != nil {
		t.Fatalf("ParseOrderText : %v", err)
	}
	if result.Rejected != 1 {
		t.Fatalf("attendu 1 ligne écartée, obtenu %d", result.Rejected)
	}
	if len(result.Lines) != 1 || result.Lines[0].ArticleRef != "004613" {
		t.Fatalf("lignes retenues incorrectes : %+v", result.Lines)
	}
}

// Ligne produit avant tout numéro de commande : orpheline, pas d'association
// devinée.
func TestParseOrderTextOrphanLines(t *testing.T) {
	text := `004612  BOULGOUR  5  CAR
Commande N° 900002
004613  SEMOULE  4  CAR
`
	result, err := ParseOrderText(text)
	if err != nil {
		t.Fatalf("ParseOrderText : %v", err)
	}
	if result.Orphans != 1 {
		t.Fatalf("attendu 1 ligne orpheline, obtenu %d", result.Orphans)
	}
	if len(result.Lines) != 1 {
		t.Fatalf("lignes retenues incorrectes : %+v", result.Lines)
	}
}

// Document sans marqueur ou sans ligne exploitable : refusé avec un
// diagnostic, le moteur n'est jamais invoqué sur de l'inexploitable.
func TestParseOrderTextUnusableDocument(t *testing.T) {
	if _, err := ParseOrderText("facture acquittée, rien à préparer"); err == nil {
		t.Fatal("erreur attendue sur document sans marqueur")
	}

	if _, err := ParseOrderText("Commande N° 123456\nrien que du texte libre"); err == nil {
		t.Fatal("erreur attendue sur document sans ligne produit")
	}
}

// Variantes de marqueur et formats de quantité tolérés.
func TestParseOrderTextMarkerVariants(t *testing.T) {
	text := `N° de commande 777001
004612  BOULGOUR 5KG  24,00  CAR
CDE : 777002
TM0012  THE  6  PCE
`
	result, err := ParseOrderText(text)
	if err != nil {
		t.Fatalf("ParseOrderText : %v", err)
	}
	if len(result.OrderIDs) != 2 || result.OrderIDs[0] != "777001" || result.OrderIDs[1] != "777002" {
		t.Fatalf("marqueurs non reconnus : %v", result.OrderIDs)
	}
	if result.Lines[0].Quantity != 24 {
		t.Fatalf("quantité décimale mal lue : %+v", result.Lines[0])
	}
	// "5KG" dans la désignation ne doit pas être pris pour l'unité
	if result.Lines[0].ArticleRef != "004612" {
		t.Fatalf("référence mal lue : %+v", result.Lines[0])
	}
}
