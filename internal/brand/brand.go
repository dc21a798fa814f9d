// Package brand holds the static inputs that replace a reference site's
// identity: the copy to render and the styling tokens to apply.
//
// Values are read-only once loaded. The pipeline never mutates them.
package brand

// DefaultSections is the component list requested when a Config names none.
var DefaultSections = []string{"Layout", "Hero", "About", "Approach", "Contact"}

// Content is the literal copy placed into generated components.
type Content struct {
	Hero     Hero     `json:"hero" toml:"hero" yaml:"hero"`
	About    About    `json:"about" toml:"about" yaml:"about"`
	Approach Approach `json:"approach" toml:"approach" yaml:"approach"`
	Contact  Contact  `json:"contact" toml:"contact" yaml:"contact"`
}

// Hero is the above-the-fold block.
type Hero struct {
	Headline    string `json:"headline" toml:"headline" yaml:"headline"`
	Subheadline string `json:"subheadline" toml:"subheadline" yaml:"subheadline"`
	CTA         CTA    `json:"cta" toml:"cta" yaml:"cta"`
}

// CTA is a call-to-action button.
type CTA struct {
	Text string `json:"text" toml:"text" yaml:"text"`
	Link string `json:"link" toml:"link" yaml:"link"`
}

type About struct {
	Headline string   `json:"headline" toml:"headline" yaml:"headline"`
	Body     []string `json:"body" toml:"body" yaml:"body"`
}

type Approach struct {
	Headline    string   `json:"headline" toml:"headline" yaml:"headline"`
	Subheadline string   `json:"subheadline" toml:"subheadline" yaml:"subheadline"`
	Pillars     []Pillar `json:"pillars" toml:"pillars" yaml:"pillars"`
}

type Pillar struct {
	Title       string `json:"title" toml:"title" yaml:"title"`
	Description string `json:"description" toml:"description" yaml:"description"`
}

type Contact struct {
	Headline string `json:"headline" toml:"headline" yaml:"headline"`
	Email    string `json:"email" toml:"email" yaml:"email"`
}

// Config is the styling applied to generated components.
type Config struct {
	Name    string `json:"name" toml:"name" yaml:"name"`
	Tagline string `json:"tagline" toml:"tagline" yaml:"tagline"`

	// Colors is ordered so that rendered output does not depend on map
	// iteration.
	Colors []ColorToken `json:"colors" toml:"colors" yaml:"colors"`
	Fonts  Fonts        `json:"fonts" toml:"fonts" yaml:"fonts"`

	// Sections lists the components to request. Empty means DefaultSections.
	Sections []string `json:"sections,omitempty" toml:"sections,omitempty" yaml:"sections,omitempty"`
}

// ColorToken is one named palette entry, e.g. {primary, charcoal, "Primary Charcoal", "#1E1F1D"}.
type ColorToken struct {
	Group string `json:"group" toml:"group" yaml:"group"`
	Name  string `json:"name" toml:"name" yaml:"name"`
	Label string `json:"label" toml:"label" yaml:"label"`
	Value string `json:"value" toml:"value" yaml:"value"`
}

// Fonts are CSS font-family stacks.
type Fonts struct {
	Serif string `json:"serif" toml:"serif" yaml:"serif"`
	Sans  string `json:"sans" toml:"sans" yaml:"sans"`
	Alt   string `json:"alt" toml:"alt" yaml:"alt"`
}

// ComponentNames returns the components to request from the generator.
func (c *Config) ComponentNames() []string {
	if c == nil || len(c.Sections) == 0 {
		return DefaultSections
	}
	return c.Sections
}

// Color returns the token with the given name, if present.
func (c *Config) Color(name string) (ColorToken, bool) {
	if c == nil {
		return ColorToken{}, false
	}
	for _, tok := range c.Colors {
		if tok.Name == name {
			return tok, true
		}
	}
	return ColorToken{}, false
}

// Default returns the Middle Coast brand configuration.
func Default() *Config {
	return &Config{
		Name:    "Middle Coast",
		Tagline: "Quiet Strength. Real Returns.",
		Colors: []ColorToken{
			{Group: "primary", Name: "charcoal", Label: "Primary Charcoal", Value: "#1E1F1D"},
			{Group: "primary", Name: "softWhite", Label: "Soft White", Value: "#F5F4EF"},
			{Group: "accent", Name: "copper", Label: "Copper Accent", Value: "#A76D3E"},
			{Group: "supporting", Name: "deepOlive", Label: "Deep Olive", Value: "#3C4037"},
			{Group: "supporting", Name: "warmGray", Label: "Warm Gray", Value: "#7A7F78"},
		},
		Fonts: Fonts{
			Serif: `"DM Serif Display", serif`,
			Sans:  `"Montserrat", sans-serif`,
			Alt:   `"Lora", serif`,
		},
		Sections: append([]string(nil), DefaultSections...),
	}
}
