// internal/swagger/settings.go
//
// SwaggerSettings, bound from the `swagger` section:
//
//	swagger:
//	  title: Orders API
//	  description: Order intake for partner systems.
//	  contact: { name: Platform Team, email: platform@example.com }
//	  versions: [v1, v2]
//	  css_path: static/swagger.css
package swagger

import (
	"github.com/AdeptTravel/adept-hostkit/internal/validation"
)

// Contact is the optional OpenAPI info.contact block.
type Contact struct {
	Name  string `koanf:"name"  json:"name,omitempty"  yaml:"name,omitempty"`
	Email string `koanf:"email" json:"email,omitempty" yaml:"email,omitempty"`
	URL   string `koanf:"url"   json:"url,omitempty"   yaml:"url,omitempty"`
}

// Settings describes the published API documents.
type Settings struct {
	Title       string   `koanf:"title"`
	Description string   `koanf:"description"`
	Contact     Contact  `koanf:"contact"`
	Versions    []string `koanf:"versions"`
	CSSPath     string   `koanf:"css_path"`
}

// ApplyDefaults publishes a single v1 document when Versions is empty.
func (s *Settings) ApplyDefaults() {
	if len(s.Versions) == 0 {
		s.Versions = []string{"v1"}
	}
}

func (s Settings) Validate() error {
	return validation.Check(
		validation.Field("Title", s.Title, validation.Required()),
		validation.Field("Description", s.Description, validation.Required()),
		validation.Field("Contact.Email", s.Contact.Email, validation.Email()),
		validation.Field("Contact.URL", s.Contact.URL, validation.URL()),
		validation.Field("Versions", s.Versions, validation.NoBlankItems()),
	)
}
