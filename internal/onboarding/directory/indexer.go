// Package directory maintains the public startup search index.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"startup-onboarding/internal/common/errors"
	"startup-onboarding/internal/common/logger"
	"startup-onboarding/internal/onboarding/profile"
)

// Indexer mirrors newly created startup profiles into Elasticsearch
// and serves the directory's free-text search.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewIndexer(client *elasticsearch.Client, index string, log logger.Logger) *Indexer {
	if index == "" {
		index = "startups"
	}
	return &Indexer{
		client: client,
		index:  index,
		logger: log,
	}
}

func (i *Indexer) Name() string { return "search-index" }

type startupDocument struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Industry         string    `json:"industry"`
	BusinessType     string    `json:"business_type"`
	Stage            string    `json:"stage"`
	Description      string    `json:"description"`
	ProductIsLive    bool      `json:"product_is_live"`
	CurrentValuation *float64  `json:"current_valuation,omitempty"`
	AskValue         *float64  `json:"ask_value,omitempty"`
	FounderNames     []string  `json:"founder_names"`
	CreatedAt        time.Time `json:"created_at"`
}

// AfterCreate indexes the public view of a freshly stored profile.
func (i *Indexer) AfterCreate(ctx context.Context, p *profile.StoredProfile) error {
	doc := startupDocument{
		ID:               p.ID,
		Name:             p.Name,
		Industry:         p.Industry,
		BusinessType:     p.BusinessType,
		Stage:            p.Stage,
		Description:      p.Description,
		ProductIsLive:    p.ProductIsLive,
		CurrentValuation: p.CurrentValuation,
		AskValue:         p.AskValue,
		CreatedAt:        p.CreatedAt,
	}
	for _, f := range p.Founders {
		doc.FounderNames = append(doc.FounderNames, f.Name)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return errors.NewSearchIndexFailedError(err)
	}

	req := esapi.IndexRequest{
		Index:      i.index,
		DocumentID: p.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, i.client)
	if err != nil {
		return errors.NewSearchIndexFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.NewSearchIndexFailedError(fmt.Errorf("index request returned %s", res.Status()))
	}

	i.logger.WithFields(map[string]interface{}{
		"startupId": p.ID,
		"index":     i.index,
	}).Debug("Startup indexed for directory search", nil)
	return nil
}

// Search runs a free-text query over name, industry, description and
// founder names, newest first.
func (i *Indexer) Search(ctx context.Context, query string, size int) ([]profile.Summary, error) {
	if size <= 0 || size > 100 {
		size = 20
	}

	searchBody := map[string]interface{}{
		"size": size,
		"sort": []map[string]interface{}{
			{"created_at": map[string]string{"order": "desc"}},
		},
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^3", "industry^2", "description", "founder_names"},
			},
		},
	}

	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("search startups", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.index),
		i.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("search startups", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewQueryExecutionFailedError("search startups",
			fmt.Errorf("search request returned %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source startupDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewQueryExecutionFailedError("search startups", err)
	}

	summaries := make([]profile.Summary, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		doc := hit.Source
		summaries = append(summaries, profile.Summary{
			ID:               doc.ID,
			Name:             doc.Name,
			Industry:         doc.Industry,
			BusinessType:     doc.BusinessType,
			Stage:            doc.Stage,
			Description:      doc.Description,
			ProductIsLive:    doc.ProductIsLive,
			CurrentValuation: doc.CurrentValuation,
			AskValue:         doc.AskValue,
			CreatedAt:        doc.CreatedAt,
		})
	}
	return summaries, nil
}
