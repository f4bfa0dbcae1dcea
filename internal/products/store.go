package products

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrNotFound = errors.New("product not found")

const searchLimit = 100

// ESStore persists product documents in one Elasticsearch index.
type ESStore struct {
	es    *elasticsearch.Client
	index string
}

func NewESStore(es *elasticsearch.Client, index string) *ESStore {
	return &ESStore{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (s *ESStore) EnsureIndex(ctx context.Context) error {
	res, err := s.es.Indices.Exists([]string{s.index}, s.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("index exists: %w", err)
	}
	res.Body.Close()
	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return fmt.Errorf("index exists: %s", res.Status())
	}

	res, err = s.es.Indices.Create(s.index,
		s.es.Indices.Create.WithBody(strings.NewReader(indexMapping)),
		s.es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()
	// another instance may have won the race
	if res.IsError() && !strings.Contains(readAll(res.Body), "resource_already_exists_exception") {
		return fmt.Errorf("create index: %s", res.Status())
	}
	return nil
}

func (s *ESStore) Save(ctx context.Context, d Doc) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode product: %w", err)
	}
	res, err := s.es.Index(s.index, bytes.NewReader(b),
		s.es.Index.WithDocumentID(d.ID),
		s.es.Index.WithRefresh("wait_for"),
		s.es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product %s: %w", d.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index product "+d.ID, res)
	}
	return nil
}

type getResponse struct {
	ID     string `json:"_id"`
	Found  bool   `json:"found"`
	Source Doc    `json:"_source"`
}

func (s *ESStore) FindByID(ctx context.Context, id string) (Doc, error) {
	res, err := s.es.Get(s.index, id, s.es.Get.WithContext(ctx))
	if err != nil {
		return Doc{}, fmt.Errorf("get product %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return Doc{}, ErrNotFound
	}
	if res.IsError() {
		return Doc{}, responseError("get product "+id, res)
	}

	var gr getResponse
	if err := json.NewDecoder(res.Body).Decode(&gr); err != nil {
		return Doc{}, fmt.Errorf("decode product %s: %w", id, err)
	}
	if !gr.Found {
		return Doc{}, ErrNotFound
	}
	d := gr.Source
	d.ID = gr.ID
	return d, nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string `json:"_id"`
			Source Doc    `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchByName returns documents whose name contains the substring, ordered by relevance.
func (s *ESStore) SearchByName(ctx context.Context, name string) ([]Doc, error) {
	q := map[string]any{
		"size": searchLimit,
		"query": map[string]any{
			"query_string": map[string]any{
				"query":            "*" + escapeQueryString(name) + "*",
				"fields":           []string{"name"},
				"analyze_wildcard": true,
			},
		},
	}
	b, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.es.Search(
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(bytes.NewReader(b)),
		s.es.Search.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, responseError("search products", res)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search: %w", err)
	}
	out := make([]Doc, 0, len(sr.Hits.Hits))
	for _, h := range sr.Hits.Hits {
		d := h.Source
		d.ID = h.ID
		out = append(out, d)
	}
	return out, nil
}

// Delete treats a missing document as success.
func (s *ESStore) Delete(ctx context.Context, id string) error {
	res, err := s.es.Delete(s.index, id,
		s.es.Delete.WithRefresh("wait_for"),
		s.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	if res.IsError() {
		return responseError("delete product "+id, res)
	}
	return nil
}

func responseError(op string, res *esapi.Response) error {
	return fmt.Errorf("%s: %s: %s", op, res.Status(), strings.TrimSpace(readAll(res.Body)))
}

func readAll(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	return string(b)
}

var queryStringReplacer = func() *strings.Replacer {
	special := []string{`\`, `+`, `-`, `=`, `&`, `|`, `>`, `<`, `!`, `(`, `)`, `{`, `}`,
		`[`, `]`, `^`, `"`, `~`, `*`, `?`, `:`, `/`, ` `}
	pairs := make([]string, 0, len(special)*2)
	for _, c := range special {
		pairs = append(pairs, c, `\`+c)
	}
	return strings.NewReplacer(pairs...)
}()

func escapeQueryString(s string) string { return queryStringReplacer.Replace(s) }
