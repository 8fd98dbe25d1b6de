package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sickfits/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_source":{"title":"Hat","price":1500}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newTestES(t *testing.T) (*ES, *fakeES) {
	t.Helper()
	fake := &fakeES{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &ES{Client: client, Name: "items"}, fake
}

func TestES_PutRemoveSearch(t *testing.T) {
	t.Parallel()
	es, fake := newTestES(t)
	ctx := context.Background()
	item := &models.Item{ID: uuid.New(), Title: "Hat", Price: 1500}

	require.NoError(t, es.Put(ctx, item))
	require.NoError(t, es.Remove(ctx, item.ID.String()))

	res, err := es.Search(ctx, "hta", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Hat", res.Items[0].Title)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 3)
	assert.Equal(t, "PUT /items/_doc/"+item.ID.String(), fake.requests[0])
	assert.Equal(t, "DELETE /items/_doc/"+item.ID.String(), fake.requests[1])

	var query map[string]any
	require.NoError(t, json.Unmarshal([]byte(fake.bodies[2]), &query))
	assert.EqualValues(t, 10, query["size"])
	assert.Contains(t, fake.bodies[2], `"title^2"`)
}

func TestNop_SearchDisabled(t *testing.T) {
	t.Parallel()
	var idx Index = Nop{}
	_, err := idx.Search(context.Background(), "x", 0, 10)
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, idx.Put(context.Background(), &models.Item{}))
}
