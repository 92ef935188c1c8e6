package aigateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdb-ai/askdb/pkg/aigateway"
	"github.com/askdb-ai/askdb/pkg/types"
)

func mysqlConn() types.DBConnection {
	return types.DBConnection{
		Type: types.PROJECT_TYPE_MYSQL,
		Config: map[string]any{
			"host":     "127.0.0.1",
			"port":     "3306",
			"user":     "app",
			"password": "secret",
			"database": "shop",
		},
	}
}

func Test_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req aigateway.QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "total sales per customer", req.Question)
		assert.Equal(t, "mysql", string(req.DBConnection.Type))
		assert.Equal(t, []string{"User: hi", "AI: Query executed successfully."}, req.History)

		json.NewEncoder(w).Encode(aigateway.QueryResponse{
			Question: req.Question,
			SQL:      "SELECT name, SUM(total) FROM orders GROUP BY name",
			Data:     "[('Alice', Decimal('120.50'))]",
		})
	}))
	defer srv.Close()

	client := aigateway.New(srv.URL)
	resp, err := client.Query(context.Background(), aigateway.QueryRequest{
		Question:     "total sales per customer",
		DBConnection: mysqlConn(),
		History:      []string{"User: hi", "AI: Query executed successfully."},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT name, SUM(total) FROM orders GROUP BY name", resp.SQL)
	assert.Equal(t, "[('Alice', Decimal('120.50'))]", resp.Data)
}

func Test_QueryGatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := aigateway.New(srv.URL)
	_, err := client.Query(context.Background(), aigateway.QueryRequest{
		Question:     "anything",
		DBConnection: mysqlConn(),
	})
	assert.Error(t, err)
}

func Test_QueryRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(aigateway.QueryResponse{SQL: "SELECT 1", Data: "[(1,)]"})
	}))
	defer srv.Close()

	client := aigateway.New(srv.URL, aigateway.WithMaxRetries(2))
	resp, err := client.Query(context.Background(), aigateway.QueryRequest{
		Question:     "anything",
		DBConnection: mysqlConn(),
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", resp.SQL)
	assert.Equal(t, int32(3), calls.Load())
}

func Test_QueryNoRetryOnBadRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"detail":"Invalid database type"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client := aigateway.New(srv.URL, aigateway.WithMaxRetries(3))
	_, err := client.Query(context.Background(), aigateway.QueryRequest{
		Question:     "anything",
		DBConnection: mysqlConn(),
	})
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func Test_Schema(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/schema", r.URL.Path)
		json.NewEncoder(w).Encode(aigateway.SchemaResponse{
			Tables: []aigateway.SchemaTable{
				{Name: "orders", Columns: []aigateway.SchemaColumn{{Name: "id", Type: "INTEGER"}}},
			},
			Relationships: []aigateway.SchemaRelationship{
				{From: "orders", To: "customers", Cols: []string{"customer_id"}, RefCols: []string{"id"}},
			},
		})
	}))
	defer srv.Close()

	client := aigateway.New(srv.URL)
	schema, err := client.Schema(context.Background(), mysqlConn())
	require.NoError(t, err)
	require.Len(t, schema.Tables, 1)
	assert.Equal(t, "orders", schema.Tables[0].Name)
	require.Len(t, schema.Relationships, 1)
	assert.Equal(t, "customers", schema.Relationships[0].To)
}

func Test_SuggestQuestions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/suggest_questions", r.URL.Path)
		json.NewEncoder(w).Encode(aigateway.SuggestQuestionsResponse{
			Questions: []string{"Who spent the most?", "How many orders per month?"},
		})
	}))
	defer srv.Close()

	client := aigateway.New(srv.URL)
	questions, err := client.SuggestQuestions(context.Background(), mysqlConn())
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func Test_QueryContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := aigateway.New(srv.URL, aigateway.WithMaxRetries(5))
	_, err := client.Query(ctx, aigateway.QueryRequest{Question: "anything", DBConnection: mysqlConn()})
	assert.Error(t, err)
}
