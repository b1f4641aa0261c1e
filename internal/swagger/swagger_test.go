package swagger

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

func validSettings() Settings {
	return Settings{
		Title:       "Orders API",
		Description: "Order intake.",
		Contact:     Contact{Name: "Platform", Email: "platform@example.com"},
		Versions:    []string{"v1", "v2"},
	}
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, validSettings().Validate())

	err := Settings{Contact: Contact{Email: "nope", URL: "also nope"}, Versions: []string{""}}.Validate()
	require.ErrorIs(t, err, validation.ErrInvalidConfiguration)

	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Violations, 5)
	for _, f := range []string{"Title", "Description", "Contact.Email", "Contact.URL", "Versions"} {
		assert.Contains(t, err.Error(), f+":")
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(validSettings(), "v2")
	assert.Equal(t, "v2", doc.Info.Version)
	require.NotNil(t, doc.Info.Contact)
	assert.Equal(t, "platform@example.com", doc.Info.Contact.Email)

	scheme := doc.Components.SecuritySchemes[SecuritySchemeName]
	assert.Equal(t, "header", scheme.In)
	assert.Equal(t, "X-ApiKey", scheme.Name)

	doc = NewDocument(Settings{Title: "t", Description: "d"}, "v1")
	assert.Nil(t, doc.Info.Contact)
}

func mount(s Settings) http.Handler {
	r := chi.NewRouter()
	r.Mount("/swagger", Routes(s, zap.NewNop().Sugar()))
	return r
}

func TestRoutes_JSONAndYAML(t *testing.T) {
	h := mount(validSettings())

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/v2/swagger.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var got Document
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Orders API", got.Info.Title)
	assert.Equal(t, "v2", got.Info.Version)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/v1/swagger.yaml", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(rr.Body.Bytes(), &raw))
	assert.Equal(t, openAPIVersion, raw["openapi"])
}

func TestRoutes_UnknownVersion(t *testing.T) {
	rr := httptest.NewRecorder()
	mount(validSettings()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/v9/swagger.json", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoutes_DefaultVersionAndCSS(t *testing.T) {
	css := filepath.Join(t.TempDir(), "swagger.css")
	require.NoError(t, os.WriteFile(css, []byte("body{}"), 0o644))

	h := mount(Settings{Title: "t", Description: "d", CSSPath: css})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/v1/swagger.json", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/custom.css", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "body{}", rr.Body.String())
}
