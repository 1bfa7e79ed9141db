// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"strings"

	"lifecycle-audit-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// auditIndexMapping keeps scores and money numeric so dashboards can
// aggregate them.
const auditIndexMapping = `{
  "mappings": {
    "properties": {
      "auditId":                 {"type": "keyword"},
      "companyName":             {"type": "text"},
      "email":                   {"type": "keyword"},
      "industry":                {"type": "keyword"},
      "benchmarkIndustry":       {"type": "keyword"},
      "overallScore":            {"type": "integer"},
      "industryBenchmark":       {"type": "integer"},
      "percentile":              {"type": "integer"},
      "categoryScores":          {"type": "object"},
      "clv":                     {"type": "double"},
      "ltvCacRatio":             {"type": "double"},
      "totalMonthlyOpportunity": {"type": "double"},
      "totalAnnualOpportunity":  {"type": "double"},
      "currency":                {"type": "keyword"},
      "generatedAt":             {"type": "date"}
    }
  }
}`

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{Addresses: cfg.Addresses}
	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Ping(c.Client.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}
	return nil
}

// EnsureAuditIndex creates index with the audit mapping unless it exists.
func (c *ElasticsearchClient) EnsureAuditIndex(ctx context.Context, index string) error {
	res, err := c.Client.Indices.Exists([]string{index}, c.Client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	res, err = c.Client.Indices.Create(index,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(auditIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()

	// a concurrent creator wins the race with resource_already_exists
	if res.IsError() && res.StatusCode != 400 {
		return fmt.Errorf("create index %s: %s", index, res.Status())
	}
	return nil
}
