// Package mercadolivre is a thin REST client for the Mercado Livre seller
// API: OAuth code exchange, token refresh and the item/order/shipment reads
// the sync service needs.
package mercadolivre

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	defaultAuthBase = "https://auth.mercadolibre.com.br"
	defaultAPIBase  = "https://api.mercadolibre.com"

	// Tokens are refreshed when they expire within this margin.
	refreshMargin = 5 * time.Minute

	itemsPageSize  = 100
	multiGetBatch  = 20
	ordersPageSize = 50
)

// Credentials is the persisted OAuth state for the seller account.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserID       int64     `json:"user_id"`
}

// Connected reports whether an account has been linked.
func (c Credentials) Connected() bool {
	return c.RefreshToken != ""
}

// Client talks to the Mercado Livre API on behalf of one seller. Token
// renewals are reported through onRefresh so the caller can persist them.
type Client struct {
	oauth     *oauth2.Config
	http      *http.Client
	apiBase   string
	creds     Credentials
	onRefresh func(Credentials)
}

// NewClient builds a client from app credentials and the stored token state.
func NewClient(appID, secretKey, redirectURI string, creds Credentials, onRefresh func(Credentials)) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     appID,
			ClientSecret: secretKey,
			RedirectURL:  redirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   defaultAuthBase + "/authorization",
				TokenURL:  defaultAPIBase + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		http:      &http.Client{Timeout: 30 * time.Second},
		apiBase:   defaultAPIBase,
		creds:     creds,
		onRefresh: onRefresh,
	}
}

// AuthURL returns the marketplace authorization page for the OAuth dance.
func (c *Client) AuthURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for tokens.
func (c *Client) Exchange(ctx context.Context, code string) (Credentials, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	creds := Credentials{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if raw := token.Extra("user_id"); raw != nil {
		if f, ok := raw.(float64); ok {
			creds.UserID = int64(f)
		}
	}

	c.creds = creds
	return creds, nil
}

// refresh renews the access token from the stored refresh token.
func (c *Client) refresh(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	src := c.oauth.TokenSource(ctx, &oauth2.Token{
		RefreshToken: c.creds.RefreshToken,
	})
	token, err := src.Token()
	if err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}

	c.creds.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		c.creds.RefreshToken = token.RefreshToken
	}
	c.creds.ExpiresAt = token.Expiry

	if c.onRefresh != nil {
		c.onRefresh(c.creds)
	}
	return nil
}

// get performs an authenticated GET, refreshing the token ahead of expiry and
// retrying once on a 401.
func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	if time.Now().After(c.creds.ExpiresAt.Add(-refreshMargin)) {
		if err := c.refresh(ctx); err != nil {
			return err
		}
	}

	status, err := c.doGet(ctx, path, out)
	if err != nil {
		return err
	}
	if status == http.StatusUnauthorized {
		log.Warn().Str("path", path).Msg("ml api rejected token, refreshing and retrying")
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, err = c.doGet(ctx, path, out)
		if err != nil {
			return err
		}
	}
	if status != http.StatusOK {
		return fmt.Errorf("ml api error %d: %s", status, path)
	}
	return nil
}

func (c *Client) doGet(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("ml api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode ml response: %w", err)
	}
	return resp.StatusCode, nil
}

// Me fetches the authenticated seller account.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SellerItems lists all of the seller's listings: one search for the ids,
// then multigets in batches of 20.
func (c *Client) SellerItems(ctx context.Context) ([]Item, error) {
	var search itemsSearchResponse
	path := fmt.Sprintf("/users/%d/items/search?limit=%d", c.creds.UserID, itemsPageSize)
	if err := c.get(ctx, path, &search); err != nil {
		return nil, err
	}
	if len(search.Results) == 0 {
		return nil, nil
	}

	items := make([]Item, 0, len(search.Results))
	for i := 0; i < len(search.Results); i += multiGetBatch {
		end := i + multiGetBatch
		if end > len(search.Results) {
			end = len(search.Results)
		}
		batch := strings.Join(search.Results[i:end], ",")

		var entries []multiGetEntry
		if err := c.get(ctx, "/items?ids="+batch, &entries); err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Code == http.StatusOK {
				items = append(items, e.Body)
			}
		}
	}
	return items, nil
}

// Orders pages through the seller's orders in the date interval.
func (c *Client) Orders(ctx context.Context, from, to time.Time) ([]Order, error) {
	var orders []Order
	offset := 0

	for {
		params := url.Values{}
		params.Set("seller", fmt.Sprintf("%d", c.creds.UserID))
		params.Set("order.date_created.from", from.Format("2006-01-02")+"T00:00:00.000-03:00")
		params.Set("order.date_created.to", to.Format("2006-01-02")+"T23:59:59.999-03:00")
		params.Set("limit", fmt.Sprintf("%d", ordersPageSize))
		params.Set("offset", fmt.Sprintf("%d", offset))
		params.Set("sort", "date_desc")

		var page ordersSearchResponse
		if err := c.get(ctx, "/orders/search?"+params.Encode(), &page); err != nil {
			return nil, err
		}

		orders = append(orders, page.Results...)
		if len(orders) >= page.Paging.Total || len(page.Results) < ordersPageSize {
			break
		}
		offset += ordersPageSize
	}
	return orders, nil
}

// ShipmentCost fetches the realized shipping cost of a shipment.
func (c *Client) ShipmentCost(ctx context.Context, shipmentID int64) (float64, error) {
	var shipment Shipment
	if err := c.get(ctx, fmt.Sprintf("/shipments/%d", shipmentID), &shipment); err != nil {
		return 0, err
	}
	return shipment.Cost, nil
}
