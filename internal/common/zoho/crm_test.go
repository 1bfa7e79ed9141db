// internal/common/zoho/crm_test.go
package zoho

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Leads", r.URL.Path)
		assert.Equal(t, "Zoho-oauthtoken token-1", r.Header.Get("Authorization"))

		var payload struct {
			Data []Lead `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Data, 1)
		assert.Equal(t, "Acme Inc", payload.Data[0].Company)
		assert.Equal(t, 57, payload.Data[0].AuditScore)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":[{"code":"SUCCESS","status":"success","details":{"id":"lead-1"}}]}`))
	}))
	defer server.Close()

	client := NewCRMClient(server.URL, "token-1", time.Second)
	id, err := client.CreateLead(context.Background(), &Lead{Company: "Acme Inc", Email: "jane@acme.com", LastName: "Acme Inc", AuditScore: 57})
	require.NoError(t, err)
	assert.Equal(t, "lead-1", id)
}

func TestUpdateLead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/Leads/lead-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"status":"success","details":{"id":"lead-9"}}]}`))
	}))
	defer server.Close()

	id, err := NewCRMClient(server.URL, "t", time.Second).UpdateLead(context.Background(), "lead-9", &Lead{Email: "jane@acme.com"})
	require.NoError(t, err)
	assert.Equal(t, "lead-9", id)
}

func TestWriteLead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`, wantErr: "status 500"},
		{name: "rejected", status: http.StatusOK, body: `{"data":[{"status":"error","message":"MANDATORY_NOT_FOUND"}]}`, wantErr: "MANDATORY_NOT_FOUND"},
		{name: "empty data", status: http.StatusOK, body: `{"data":[]}`, wantErr: "no data"},
		{name: "bad json", status: http.StatusOK, body: `{`, wantErr: "unmarshal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewCRMClient(server.URL, "t", time.Second).CreateLead(context.Background(), &Lead{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchLeadByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Leads/search", r.URL.Path)
		switch r.URL.Query().Get("email") {
		case "jane@acme.com":
			_, _ = w.Write([]byte(`{"data":[{"id":"lead-1","Email":"jane@acme.com","Company":"Acme Inc"}]}`))
		case "boom@acme.com":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer server.Close()

	client := NewCRMClient(server.URL, "t", time.Second)

	lead, err := client.SearchLeadByEmail(context.Background(), "jane@acme.com")
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, "lead-1", lead.ID)

	lead, err = client.SearchLeadByEmail(context.Background(), "nobody@acme.com")
	require.NoError(t, err)
	assert.Nil(t, lead)

	_, err = client.SearchLeadByEmail(context.Background(), "boom@acme.com")
	assert.Error(t, err)
}

func TestNewCRMClient_Defaults(t *testing.T) {
	client := NewCRMClient("", "t", 0)
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
}
