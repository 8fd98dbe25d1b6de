// Package search keeps a full-text index of items in Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/sickfits/internal/models"
)

// ErrDisabled is returned by Search when no index is configured.
var ErrDisabled = errors.New("search is not configured")

type Results struct {
	Total int64         `json:"total"`
	Items []models.Item `json:"items"`
}

type Index interface {
	Put(ctx context.Context, item *models.Item) error
	Remove(ctx context.Context, id string) error
	Search(ctx context.Context, query string, from, size int) (Results, error)
}

func NewClient(ctx context.Context, addr, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{addr},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info(client.Info.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type ES struct {
	Client *elasticsearch.Client
	Name   string
}

func (e *ES) Put(ctx context.Context, item *models.Item) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(item); err != nil {
		return fmt.Errorf("index item: %w", err)
	}

	res, err := e.Client.Index(e.Name, &buf,
		e.Client.Index.WithContext(ctx),
		e.Client.Index.WithDocumentID(item.ID.String()),
	)
	if err != nil {
		return fmt.Errorf("index item: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index item: %s", res.Status())
	}
	return nil
}

// Remove deletes a document; a document that is already gone is not an error.
func (e *ES) Remove(ctx context.Context, id string) error {
	res, err := e.Client.Delete(e.Name, id, e.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("remove item: %s", res.Status())
	}
	return nil
}

func (e *ES) Search(ctx context.Context, query string, from, size int) (Results, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}

	res, err := e.Client.Search(
		e.Client.Search.WithContext(ctx),
		e.Client.Search.WithIndex(e.Name),
		e.Client.Search.WithBody(&buf),
	)
	if err != nil {
		return Results{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return Results{}, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Item `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return Results{}, fmt.Errorf("search: decode: %w", err)
	}

	items := make([]models.Item, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		items[i] = hit.Source
	}
	return Results{Total: r.Hits.Total.Value, Items: items}, nil
}

// Nop accepts writes and refuses searches.
type Nop struct{}

func (Nop) Put(context.Context, *models.Item) error { return nil }
func (Nop) Remove(context.Context, string) error    { return nil }
func (Nop) Search(context.Context, string, int, int) (Results, error) {
	return Results{}, ErrDisabled
}
