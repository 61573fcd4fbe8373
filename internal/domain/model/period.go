package model

// Period is a named historical span drawn as an era band.
// Tier 0 is the sequential base layer; higher tiers are overlays.
type Period struct {
	Name      string `json:"name" yaml:"name"`
	ShortName string `json:"shortName" yaml:"short_name"`
	StartYear int    `json:"startYear" yaml:"start_year"`
	EndYear   int    `json:"endYear" yaml:"end_year"`
	Color     string `json:"color" yaml:"color"`
	Tier      int    `json:"tier" yaml:"tier"`
}
