package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-cms/pkg/core"
	"github.com/adfharrison1/go-cms/pkg/schema"
	"github.com/adfharrison1/go-cms/pkg/storage"
)

func testConfig() schema.Config {
	return schema.Config{
		Collections: []schema.Collection{
			{
				Name:       "users",
				Timestamps: true,
				Fields: []schema.Field{
					{Name: "name", Type: schema.FieldText, Required: true},
					{Name: "email", Type: schema.FieldEmail, Required: true, Unique: true},
				},
			},
		},
	}
}

func TestNewServer_ServesCMSRoutes(t *testing.T) {
	srv, err := NewServer(testConfig(), nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/collections/users", bytes.NewBufferString(`{"name": "Alice", "email": "alice@example.com"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest("GET", "/health", nil)
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewServer_WiresUniqueFieldsFromSchema(t *testing.T) {
	srv, err := NewServer(testConfig(), nil, nil)
	require.NoError(t, err)

	body := `{"name": "Alice", "email": "alice@example.com"}`

	req := httptest.NewRequest("POST", "/collections/users", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// Same email again violates the schema's unique flag, enforced by the
	// wired storage engine.
	req = httptest.NewRequest("POST", "/collections/users", bytes.NewBufferString(body))
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestNewServer_ExtraRoutes(t *testing.T) {
	srv, err := NewServer(testConfig(), nil, nil, WithRoutes(func(router *mux.Router) {
		router.HandleFunc("/custom", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}).Methods("GET")
	}))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/custom", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestNewServer_PluginsSeeStorageWiring(t *testing.T) {
	cfg := testConfig()
	cfg.Plugins = []schema.Plugin{
		func(cfg schema.Config) schema.Config {
			cfg.Collections = append(cfg.Collections, schema.Collection{
				Name:       "audit",
				Timestamps: true,
				Fields:     []schema.Field{{Name: "entry", Type: schema.FieldText}},
			})
			return cfg
		},
	}

	srv, err := NewServer(cfg, nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/collections/audit", bytes.NewBufferString(`{"entry": "hello"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "createdAt")
}

func TestServer_SnapshotRoundTrip(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "state"+storage.FileExtension)

	srv, err := NewServer(testConfig(), nil, nil)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/collections/users", bytes.NewBufferString(`{"name": "Alice", "email": "alice@example.com"}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	srv.SaveDB(filename)

	restored, err := NewServer(testConfig(), nil, nil)
	require.NoError(t, err)
	restored.InitDB(filename)

	req = httptest.NewRequest("GET", "/collections/users", nil)
	w = httptest.NewRecorder()
	restored.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")
}

func TestNewServer_InvalidConfig(t *testing.T) {
	cfg := schema.Config{Collections: []schema.Collection{{Name: "a"}, {Name: "a"}}}
	_, err := NewServer(cfg, nil, []core.Option{core.WithStrictAccessFilter()})
	require.Error(t, err)
}
