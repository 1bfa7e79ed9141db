// internal/common/zoho/crm.go
package zoho

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://www.zohoapis.com/crm/v3"

type CRMClient struct {
	oauthToken string
	baseURL    string
	httpClient *http.Client
}

// Lead is a Zoho CRM lead carrying the audit score fields.
type Lead struct {
	ID                 string  `json:"id,omitempty"`
	Company            string  `json:"Company"`
	Email              string  `json:"Email"`
	FirstName          string  `json:"First_Name,omitempty"`
	LastName           string  `json:"Last_Name"`
	Industry           string  `json:"Industry,omitempty"`
	Source             string  `json:"Lead_Source,omitempty"`
	Description        string  `json:"Description,omitempty"`
	AuditScore         int     `json:"Audit_Score"`
	IndustryBenchmark  int     `json:"Industry_Benchmark"`
	MonthlyOpportunity float64 `json:"Monthly_Opportunity"`
}

type writeResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(baseURL, oauthToken string, timeout time.Duration) *CRMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CRMClient{
		oauthToken: oauthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *CRMClient) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	return c.write(ctx, http.MethodPost, c.baseURL+"/Leads", lead)
}

func (c *CRMClient) UpdateLead(ctx context.Context, leadID string, lead *Lead) (string, error) {
	return c.write(ctx, http.MethodPut, fmt.Sprintf("%s/Leads/%s", c.baseURL, url.PathEscape(leadID)), lead)
}

// SearchLeadByEmail returns the first lead with email, or nil when none exists.
func (c *CRMClient) SearchLeadByEmail(ctx context.Context, email string) (*Lead, error) {
	endpoint := fmt.Sprintf("%s/Leads/search?email=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Zoho answers an empty search with 204 and no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search leads (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []Lead `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Data) == 0 {
		return nil, nil
	}
	return &result.Data[0], nil
}

func (c *CRMClient) write(ctx context.Context, method, endpoint string, lead *Lead) (string, error) {
	jsonData, err := json.Marshal(map[string]interface{}{"data": []Lead{*lead}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lead request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var writeResp writeResponse
	if err := json.Unmarshal(body, &writeResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(writeResp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}
	if writeResp.Data[0].Status != "success" {
		return "", fmt.Errorf("lead request rejected: %s", writeResp.Data[0].Message)
	}
	return writeResp.Data[0].Details.ID, nil
}

func (c *CRMClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.oauthToken)
}
