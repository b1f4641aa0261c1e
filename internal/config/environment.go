package config

import "strings"

// Environment is the hosting environment kind.
type Environment string

const (
	Development Environment = "Development"
	Staging     Environment = "Staging"
	Production  Environment = "Production"
)

// ParseEnvironment maps a raw value (usually ADEPT_ENV) to an Environment.
// Blank input means Production.  Known names match case-insensitively;
// anything else is kept verbatim.
func ParseEnvironment(raw string) Environment {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Production
	}
	for _, e := range []Environment{Development, Staging, Production} {
		if strings.EqualFold(raw, string(e)) {
			return e
		}
	}
	return Environment(raw)
}

// IsDevelopment gates the local secrets stage.
func (e Environment) IsDevelopment() bool {
	return strings.EqualFold(string(e), string(Development))
}
