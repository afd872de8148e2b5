package ui

// Scheme is a named colour palette. Colours are hex strings.
type Scheme struct {
	ID          string
	Name        string
	Primary     string
	Secondary   string
	Accent      string
	Background  string
	Text        string
	Nucleotides map[byte]string
}

// DefaultSchemeID is used when a scheme id is unknown.
const DefaultSchemeID = "default"

var schemes = []Scheme{
	{
		ID:         "default",
		Name:       "Ocean Blue",
		Primary:    "#3B82F6",
		Secondary:  "#8B5CF6",
		Accent:     "#06B6D4",
		Background: "#F8FAFC",
		Text:       "#1F2937",
		Nucleotides: map[byte]string{
			'A': "#EF4444",
			'T': "#10B981",
			'G': "#F59E0B",
			'C': "#3B82F6",
		},
	},
	{
		ID:         "forest",
		Name:       "Forest Green",
		Primary:    "#059669",
		Secondary:  "#0D9488",
		Accent:     "#84CC16",
		Background: "#F0FDF4",
		Text:       "#064E3B",
		Nucleotides: map[byte]string{
			'A': "#DC2626",
			'T': "#059669",
			'G': "#D97706",
			'C': "#2563EB",
		},
	},
	{
		ID:         "sunset",
		Name:       "Sunset Orange",
		Primary:    "#EA580C",
		Secondary:  "#DC2626",
		Accent:     "#F59E0B",
		Background: "#FFF7ED",
		Text:       "#9A3412",
		Nucleotides: map[byte]string{
			'A': "#DC2626",
			'T': "#059669",
			'G': "#EA580C",
			'C': "#7C3AED",
		},
	},
	{
		ID:         "midnight",
		Name:       "Midnight Purple",
		Primary:    "#7C3AED",
		Secondary:  "#3730A3",
		Accent:     "#EC4899",
		Background: "#1E1B4B",
		Text:       "#E0E7FF",
		Nucleotides: map[byte]string{
			'A': "#F87171",
			'T': "#34D399",
			'G': "#FBBF24",
			'C': "#60A5FA",
		},
	},
}

// Schemes returns every built-in scheme, default first.
func Schemes() []Scheme {
	out := make([]Scheme, len(schemes))
	copy(out, schemes)
	return out
}

// GetScheme returns the scheme with the given id, or the default scheme.
func GetScheme(id string) Scheme {
	for _, s := range schemes {
		if s.ID == id {
			return s
		}
	}
	return schemes[0]
}

// IsScheme reports whether id names a built-in scheme.
func IsScheme(id string) bool {
	for _, s := range schemes {
		if s.ID == id {
			return true
		}
	}
	return false
}
