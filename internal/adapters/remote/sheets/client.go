// Package sheets implementa remote.RowSource contra la API pública de
// valores de Google Sheets (lectura con API key, sin OAuth).
package sheets

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"meditrack/internal/platform/httpclient"
	"meditrack/internal/ports/remote"
)

const defaultBaseURL = "https://sheets.googleapis.com"

type Client struct {
	http          *httpclient.Client
	spreadsheetID string
	apiKey        string
}

// New crea el cliente. Si falta el spreadsheet o la API key retorna
// nil: el llamador queda en modo local-only.
func New(spreadsheetID, apiKey string) *Client {
	if strings.TrimSpace(spreadsheetID) == "" || strings.TrimSpace(apiKey) == "" {
		return nil
	}
	c, err := httpclient.NewWithBaseURL(defaultBaseURL, 15*time.Second)
	if err != nil {
		return nil
	}
	return &Client{http: c, spreadsheetID: spreadsheetID, apiKey: apiKey}
}

// NewWithHTTP permite inyectar el Client HTTP (tests contra httptest).
func NewWithHTTP(hc *httpclient.Client, spreadsheetID, apiKey string) *Client {
	return &Client{http: hc, spreadsheetID: spreadsheetID, apiKey: apiKey}
}

type valuesResponse struct {
	Values [][]string `json:"values"`
}

// Fetch trae las filas del rango A1 dado. Las filas vienen con celdas
// faltantes al final; los mappers del dominio rellenan con "".
func (c *Client) Fetch(ctx context.Context, rng string) ([][]string, error) {
	if c == nil {
		return nil, remote.ErrNotConfigured
	}

	path := fmt.Sprintf("/v4/spreadsheets/%s/values/%s?key=%s",
		url.PathEscape(c.spreadsheetID),
		url.PathEscape(rng),
		url.QueryEscape(c.apiKey),
	)

	var out valuesResponse
	if err := c.http.GetJSON(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("sheets: fetch %s: %w", rng, err)
	}
	return out.Values, nil
}
