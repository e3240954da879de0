package vector_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/vector"

	"github.com/stretchr/testify/assert"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate/entities/models"
)

func adapterServer(t *testing.T, handler http.HandlerFunc) (*vector.WeaviateClientAdapter, *httptest.Server) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/meta" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
			return
		}
		handler(w, r)
	}))

	cfg := weaviate.Config{Host: ts.Listener.Addr().String(), Scheme: "http"}
	client, err := weaviate.NewClient(cfg)
	assert.NoError(t, err)
	return vector.NewWeaviateClientAdapter(client), ts
}

func TestWeaviateClientAdapter_ClassExists(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		adapter, ts := adapterServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/schema/PolicyChunk", r.URL.Path)
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(&models.Class{Class: "PolicyChunk"})
		})
		defer ts.Close()

		exists, err := adapter.ClassExists(context.Background(), "PolicyChunk")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("NotFound", func(t *testing.T) {
		adapter, ts := adapterServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		defer ts.Close()

		exists, err := adapter.ClassExists(context.Background(), "PolicyChunk")
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestWeaviateClientAdapter_CreateClass(t *testing.T) {
	adapter, ts := adapterServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/schema", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		w.WriteHeader(http.StatusOK)
	})
	defer ts.Close()

	err := adapter.CreateClass(context.Background(), &models.Class{Class: "ClaimChunk"})
	assert.NoError(t, err)
}

func TestWeaviateClientAdapter_GetClass(t *testing.T) {
	adapter, ts := adapterServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/schema/PolicyChunk", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(&models.Class{Class: "PolicyChunk"})
	})
	defer ts.Close()

	class, err := adapter.GetClass(context.Background(), "PolicyChunk")
	assert.NoError(t, err)
	assert.NotNil(t, class)
	assert.Equal(t, "PolicyChunk", class.Class)
}

func TestWeaviateClientAdapter_AddProperty(t *testing.T) {
	adapter, ts := adapterServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/schema/PolicyChunk/properties", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		w.WriteHeader(http.StatusOK)
	})
	defer ts.Close()

	prop := &models.Property{Name: "citationInfo", DataType: []string{"text"}}
	err := adapter.AddProperty(context.Background(), "PolicyChunk", prop)
	assert.NoError(t, err)
}
