package config

// Application constants
const (
	AppName    = "Análisis de Mortalidad en Colombia"
	AppVersion = "1.0.0"

	// ServiceName identifies the process in telemetry
	ServiceName = "mortalitydash"

	// PerHundredThousand is the population base of a crude mortality rate
	PerHundredThousand = 100000.0
)

// homicideCodes are the ICD-10 codes counted as violent deaths:
// assault by firearm discharge (X950-X959) and Y871.
var homicideCodes = []string{
	"X950", "X951", "X952", "X953", "X954",
	"X955", "X956", "X957", "X958", "X959",
	"Y871",
}

// DefaultHomicideCodes returns a copy of the violent-death allow-list
func DefaultHomicideCodes() []string {
	out := make([]string, len(homicideCodes))
	copy(out, homicideCodes)
	return out
}
