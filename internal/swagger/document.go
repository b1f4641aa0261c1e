// internal/swagger/document.go
//
// OpenAPI document wiring.
//
// Context
// -------
// NewDocument builds the skeleton OpenAPI 3.0 document for one version:
// info block from Settings and an `ApiKey` security scheme bound to the
// X-ApiKey header, applied globally.  Routes serves it as JSON and YAML:
//
//	GET /swagger/{version}/swagger.json
//	GET /swagger/{version}/swagger.yaml
//	GET /swagger/custom.css             (only when CSSPath is set)
//
// No UI is rendered here.
package swagger

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/AdeptTravel/adept-hostkit/internal/apikey"
)

const openAPIVersion = "3.0.3"

// SecuritySchemeName is the key under components.securitySchemes.
const SecuritySchemeName = "ApiKey"

type Document struct {
	OpenAPI    string                `json:"openapi" yaml:"openapi"`
	Info       Info                  `json:"info" yaml:"info"`
	Paths      map[string]any        `json:"paths" yaml:"paths"`
	Components Components            `json:"components" yaml:"components"`
	Security   []map[string][]string `json:"security" yaml:"security"`
}

type Info struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Version     string   `json:"version" yaml:"version"`
	Contact     *Contact `json:"contact,omitempty" yaml:"contact,omitempty"`
}

type Components struct {
	SecuritySchemes map[string]SecurityScheme `json:"securitySchemes" yaml:"securitySchemes"`
}

type SecurityScheme struct {
	Type        string `json:"type" yaml:"type"`
	In          string `json:"in" yaml:"in"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// NewDocument builds the document for version.
func NewDocument(s Settings, version string) Document {
	doc := Document{
		OpenAPI: openAPIVersion,
		Info: Info{
			Title:       s.Title,
			Description: s.Description,
			Version:     version,
		},
		Paths: map[string]any{},
		Components: Components{SecuritySchemes: map[string]SecurityScheme{
			SecuritySchemeName: {
				Type:        "apiKey",
				In:          "header",
				Name:        apikey.HeaderName,
				Description: "Shared API key.",
			},
		}},
		Security: []map[string][]string{{SecuritySchemeName: {}}},
	}
	if s.Contact != (Contact{}) {
		c := s.Contact
		doc.Info.Contact = &c
	}
	return doc
}

// Routes mounts the document endpoints.  s must already be validated.
func Routes(s Settings, log *zap.SugaredLogger) chi.Router {
	if log == nil {
		log = zap.S()
	}
	s.ApplyDefaults()

	docs := make(map[string]Document, len(s.Versions))
	for _, v := range s.Versions {
		docs[v] = NewDocument(s, v)
	}

	r := chi.NewRouter()
	r.Get("/{version}/swagger.json", func(w http.ResponseWriter, req *http.Request) {
		doc, ok := docs[chi.URLParam(req, "version")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			log.Errorw("swagger json encode failed", "err", err)
		}
	})
	r.Get("/{version}/swagger.yaml", func(w http.ResponseWriter, req *http.Request) {
		doc, ok := docs[chi.URLParam(req, "version")]
		if !ok {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			log.Errorw("swagger yaml encode failed", "err", err)
		}
		_ = enc.Close()
	})
	if s.CSSPath != "" {
		css := s.CSSPath
		r.Get("/custom.css", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			http.ServeFile(w, req, css)
		})
	}

	log.Infow("swagger documents mounted", "versions", s.Versions)
	return r
}
