package bc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrItemNotFound: le code article n'existe pas côté Business Central
var ErrItemNotFound = errors.New("article non trouvé dans Business Central")

// ItemStock: stock disponible d'un article dans Business Central
type ItemStock struct {
	No          string  `json:"no"`
	Description string  `json:"description"`
	Inventory   float64 `json:"inventory"`
}

// Client: accès OData V4 Business Central, lecture seule.
// Les identifiants ne sont pas stockés : ils sont fournis à chaque appel.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// odataItemCard: enveloppe OData de la page EDF_Item_Card
type odataItemCard struct {
	Value []struct {
		No          string  `json:"No"`
		Description string  `json:"Description"`
		Inventory   float64 `json:"Inventory"`
	} `json:"value"`
}

// FetchItemStock: interroge EDF_Item_Card filtré sur le code article.
// Le code est injecté dans le filtre OData tel quel (chaîne opaque), les
// apostrophes sont doublées selon la convention OData.
func (c *Client) FetchItemStock(ctx context.Context, username, password, itemCode string) (*ItemStock, error) {
	filter := fmt.Sprintf("No eq '%s'", strings.ReplaceAll(itemCode, "'", "''"))
	endpoint := fmt.Sprintf("%s/EDF_Item_Card?$filter=%s", c.baseURL, url.QueryEscape(filter))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("requête Business Central invalide : %v", err)
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connexion à Business Central impossible : %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("identifiants Business Central refusés")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("erreur API Business Central : %d - %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload odataItemCard
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("réponse Business Central illisible : %v", err)
	}
	if len(payload.Value) == 0 {
		return nil, ErrItemNotFound
	}

	item := payload.Value[0]
	return &ItemStock{
		No:          item.No,
		Description: item.Description,
		Inventory:   item.Inventory,
	}, nil
}
