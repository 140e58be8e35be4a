// internal/assessment/search.go
package assessment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"eb2niw-assessor/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
)

// Indexer feeds the analytics index and aggregates it.
type Indexer interface {
	Index(ctx context.Context, rec *models.AssessmentRecord) error
	Stats(ctx context.Context) (*models.ViabilityStats, error)
}

// IndexMapping is applied when the assessments index is first created.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "assessmentId":     {"type": "keyword"},
      "userId":           {"type": "keyword"},
      "overallScore":     {"type": "float"},
      "viabilityLevel":   {"type": "keyword"},
      "recommendedRoute": {"type": "keyword"},
      "highestDegree":    {"type": "keyword"},
      "fieldOfStudy":     {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "niwScore":         {"type": "float"},
      "createdAt":        {"type": "date"}
    }
  }
}`

const statsQuery = `{
  "size": 0,
  "track_total_hits": true,
  "aggs": {
    "by_level": {"terms": {"field": "viabilityLevel", "size": 10}},
    "avg_score": {"avg": {"field": "overallScore"}}
  }
}`

type SearchIndexer struct {
	es    *elasticsearch.Client
	index string
}

func NewSearchIndexer(es *elasticsearch.Client, index string) *SearchIndexer {
	return &SearchIndexer{es: es, index: index}
}

func (s *SearchIndexer) Index(ctx context.Context, rec *models.AssessmentRecord) error {
	body, err := json.Marshal(models.NewSearchDocument(rec))
	if err != nil {
		return fmt.Errorf("encode search document: %w", err)
	}

	res, err := s.es.Index(s.index, bytes.NewReader(body),
		s.es.Index.WithContext(ctx),
		s.es.Index.WithDocumentID(rec.ID),
	)
	if err != nil {
		return fmt.Errorf("index assessment %s: %w", rec.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index assessment %s: %s", rec.ID, readError(res.Body, res.Status()))
	}
	return nil
}

type statsResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
	} `json:"hits"`
	Aggregations struct {
		ByLevel struct {
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int64  `json:"doc_count"`
			} `json:"buckets"`
		} `json:"by_level"`
		AvgScore struct {
			Value *float64 `json:"value"`
		} `json:"avg_score"`
	} `json:"aggregations"`
}

func (s *SearchIndexer) Stats(ctx context.Context) (*models.ViabilityStats, error) {
	res, err := s.es.Search(
		s.es.Search.WithContext(ctx),
		s.es.Search.WithIndex(s.index),
		s.es.Search.WithBody(strings.NewReader(statsQuery)),
	)
	if err != nil {
		return nil, fmt.Errorf("search stats: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search stats: %s", readError(res.Body, res.Status()))
	}

	var parsed statsResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode stats response: %w", err)
	}

	stats := &models.ViabilityStats{
		Total:   parsed.Hits.Total.Value,
		ByLevel: make(map[string]int64, len(parsed.Aggregations.ByLevel.Buckets)),
	}
	for _, b := range parsed.Aggregations.ByLevel.Buckets {
		stats.ByLevel[b.Key] = b.DocCount
	}
	if avg := parsed.Aggregations.AvgScore.Value; avg != nil {
		stats.AverageScore = *avg
	}
	return stats, nil
}

func readError(body io.Reader, status string) string {
	data, _ := io.ReadAll(io.LimitReader(body, 512))
	if len(data) == 0 {
		return status
	}
	return status + ": " + string(data)
}
