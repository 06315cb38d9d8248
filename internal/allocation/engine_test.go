package allocation

import (
	"math"
	"reflect"
	"testing"
)

// Scénario de référence : deux commandes se partagent le même pool de stock.
func TestAllocateSharedPool(t *testing.T) {
	inventory := map[string]int{"A": 100, "B": 0}
	lines := []Line{
		{OrderID: "1", ArticleRef: "A", Quantity: 40},
		{OrderID: "1", ArticleRef: "B", Quantity: 10},
		{OrderID: "2", ArticleRef: "A", Quantity: 70},
	}

	result := Allocate(inventory, lines)

	if len(result.Orders) != 2 {
		t.Fatalf("attendu 2 commandes, obtenu %d", len(result.Orders))
	}

	o1 := result.Orders[0]
	if o1.OrderID != "1" || o1.TotalOrdered != 50 || o1.TotalDelivered != 40 {
		t.Fatalf("commande 1 incorrecte : %+v", o1)
	}
	if len(o1.ShortageLines) != 1 {
		t.Fatalf("commande 1 : attendu 1 ligne en rupture, obtenu %d", len(o1.ShortageLines))
	}
	sl := o1.ShortageLines[0]
	if sl.ArticleRef != "B" || sl.Ordered != 10 || sl.Delivered != 0 || sl.Missing != 10 {
		t.Fatalf("rupture B incorrecte : %+v", sl)
	}

	o2 := result.Orders[1]
	if o2.OrderID != "2" || o2.TotalOrdered != 70 || o2.TotalDelivered != 60 {
		t.Fatalf("commande 2 incorrecte : %+v", o2)
	}
	if len(o2.ShortageLines) != 1 || o2.ShortageLines[0].Missing != 10 {
		t.Fatalf("commande 2 : rupture A incorrecte : %+v", o2.ShortageLines)
	}

	if result.TotalOrdered != 120 || result.TotalDelivered != 100 {
		t.Fatalf("totaux globaux incorrects : %d/%d", result.TotalDelivered, result.TotalOrdered)
	}
	if rate := result.GlobalServiceRate(); math.Abs(rate-83.3333) > 0.001 {
		t.Fatalf("taux de service global attendu ~83.33, obtenu %f", rate)
	}
}

// Les lignes en doublon ne sont pas dédupliquées : chacune consomme le pool
// dans l'ordre de rencontre.
func TestAllocateDuplicateLines(t *testing.T) {
	inventory := map[string]int{"X": 5}
	lines := []Line{
		{OrderID: "1", ArticleRef: "X", Quantity: 3},
		{OrderID: "1", ArticleRef: "X", Quantity: 3},
	}

	result := Allocate(inventory, lines)

	if len(result.Orders) != 1 {
		t.Fatalf("attendu 1 commande, obtenu %d", len(result.Orders))
	}
	o := result.Orders[0]
	if o.TotalOrdered != 6 || o.TotalDelivered != 5 {
		t.Fatalf("totaux commande incorrects : %d/%d", o.TotalDelivered, o.TotalOrdered)
	}
	// la première ligne est servie en entier, la seconde prend le reliquat
	if len(o.ShortageLines) != 1 {
		t.Fatalf("attendu 1 ligne en rupture, obtenu %d", len(o.ShortageLines))
	}
	sl := o.ShortageLines[0]
	if sl.Ordered != 3 || sl.Delivered != 2 || sl.Missing != 1 {
		t.Fatalf("rupture deuxième ligne incorrecte : %+v", sl)
	}
}

// Référence absente de l'inventaire : rupture totale, pas une erreur.
func TestAllocateUnknownArticle(t *testing.T) {
	result := Allocate(map[string]int{"A": 10}, []Line{
		{OrderID: "1", ArticleRef: "ZZZ", Quantity: 7},
	})

	o := result.Orders[0]
	if o.TotalDelivered != 0 || o.TotalOrdered != 7 {
		t.Fatalf("article inconnu : attendu 0/7, obtenu %d/%d", o.TotalDelivered, o.TotalOrdered)
	}
	if len(o.ShortageLines) != 1 || o.ShortageLines[0].Missing != 7 {
		t.Fatalf("article inconnu : rupture attendue, obtenu %+v", o.ShortageLines)
	}
}

// Le taux global se calcule sur les quantités sommées, pas sur la moyenne des
// taux par commande : A servie à 100% (10/10), B à 1% (1/100) doivent donner
// 10% global (11/110), pas 50,5%.
func TestGlobalRateIsNotMeanOfRates(t *testing.T) {
	inventory := map[string]int{"A": 10, "B": 1}
	lines := []Line{
		{OrderID: "A", ArticleRef: "A", Quantity: 10},
		{OrderID: "B", ArticleRef: "B", Quantity: 100},
	}

	result := Allocate(inventory, lines)

	if rate := result.GlobalServiceRate(); math.Abs(rate-10.0) > 1e-9 {
		t.Fatalf("taux global attendu 10.0, obtenu %f", rate)
	}
	mean := (result.Orders[0].ServiceRate() + result.Orders[1].ServiceRate()) / 2
	if math.Abs(mean-50.5) > 1e-9 {
		t.Fatalf("le cas de test ne discrimine plus : moyenne des taux = %f", mean)
	}
}

// Conservation : un article ne livre jamais plus que son stock de départ,
// et exactement son stock si la demande le dépasse.
func TestAllocateConservation(t *testing.T) {
	inventory := map[string]int{"A": 50}
	lines := []Line{
		{OrderID: "1", ArticleRef: "A", Quantity: 20},
		{OrderID: "2", ArticleRef: "A", Quantity: 20},
		{OrderID: "3", ArticleRef: "A", Quantity: 20},
	}

	result := Allocate(inventory, lines)

	delivered := 0
	for _, o := range result.Orders {
		if o.TotalDelivered < 0 || o.TotalDelivered > o.TotalOrdered {
			t.Fatalf("sur-livraison commande %s : %d/%d", o.OrderID, o.TotalDelivered, o.TotalOrdered)
		}
		delivered += o.TotalDelivered
	}
	if delivered != 50 {
		t.Fatalf("conservation violée : livré %d pour un stock de 50", delivered)
	}
	// demande (60) > stock (50) : le stock doit être entièrement consommé
	if result.TotalDelivered != 50 {
		t.Fatalf("stock non épuisé : %d", result.TotalDelivered)
	}
}

// Déterminisme : deux appels identiques produisent un résultat identique et
// l'inventaire d'entrée n'est jamais modifié.
func TestAllocateDeterministic(t *testing.T) {
	inventory := map[string]int{"A": 30, "B": 5, "C": 0}
	lines := []Line{
		{OrderID: "7", ArticleRef: "A", Quantity: 25},
		{OrderID: "3", ArticleRef: "B", Quantity: 10},
		{OrderID: "7", ArticleRef: "C", Quantity: 2},
		{OrderID: "3", ArticleRef: "A", Quantity: 25},
	}

	first := Allocate(inventory, lines)
	second := Allocate(inventory, lines)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("résultats divergents :\n%+v\n%+v", first, second)
	}
	if inventory["A"] != 30 || inventory["B"] != 5 || inventory["C"] != 0 {
		t.Fatalf("l'inventaire d'entrée a été modifié : %+v", inventory)
	}
	// regroupement par première apparition, pas par tri des numéros
	if first.Orders[0].OrderID != "7" || first.Orders[1].OrderID != "3" {
		t.Fatalf("ordre des commandes incorrect : %s, %s", first.Orders[0].OrderID, first.Orders[1].OrderID)
	}
}

// Les lignes d'une commande peuvent être entrelacées avec d'autres commandes :
// l'épuisement du stock suit l'ordre des lignes, pas les groupes.
func TestAllocateInterleavedOrders(t *testing.T) {
	inventory := map[string]int{"A": 10}
	lines := []Line{
		{OrderID: "1", ArticleRef: "A", Quantity: 4},
		{OrderID: "2", ArticleRef: "A", Quantity: 4},
		{OrderID: "1", ArticleRef: "A", Quantity: 4},
	}

	result := Allocate(inventory, lines)

	if len(result.Orders) != 2 {
		t.Fatalf("attendu 2 commandes, obtenu %d", len(result.Orders))
	}
	o1, o2 := result.Orders[0], result.Orders[1]
	// la troisième ligne (commande 1) ne voit que le reliquat après la commande 2
	if o1.TotalDelivered != 6 || o1.TotalOrdered != 8 {
		t.Fatalf("commande 1 : attendu 6/8, obtenu %d/%d", o1.TotalDelivered, o1.TotalOrdered)
	}
	if o2.TotalDelivered != 4 {
		t.Fatalf("commande 2 : attendu 4, obtenu %d", o2.TotalDelivered)
	}
}

// Entrées vides : résultat à zéro, taux 0, pas d'erreur.
func TestAllocateEmptyInputs(t *testing.T) {
	result := Allocate(map[string]int{}, nil)
	if result.TotalOrdered != 0 || result.TotalDelivered != 0 || len(result.Orders) != 0 {
		t.Fatalf("résultat vide attendu : %+v", result)
	}
	if result.GlobalServiceRate() != 0 {
		t.Fatalf("taux attendu 0 sur run vide, obtenu %f", result.GlobalServiceRate())
	}
}

// Une ligne à quantité nulle ou négative qui atteindrait le moteur ne pèse
// ni demande ni livraison, jamais de valeurs négatives en sortie.
func TestAllocateNonPositiveQuantityIgnored(t *testing.T) {
	result := Allocate(map[string]int{"A": 10}, []Line{
		{OrderID: "1", ArticleRef: "A", Quantity: 0},
		{OrderID: "1", ArticleRef: "A", Quantity: -5},
		{OrderID: "1", ArticleRef: "A", Quantity: 3},
	})

	o := result.Orders[0]
	if o.TotalOrdered != 3 || o.TotalDelivered != 3 {
		t.Fatalf("attendu 3/3, obtenu %d/%d", o.TotalDelivered, o.TotalOrdered)
	}
	if len(o.ShortageLines) != 0 {
		t.Fatalf("aucune rupture attendue : %+v", o.ShortageLines)
	}
}
