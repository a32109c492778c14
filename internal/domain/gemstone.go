package domain

import (
	"fmt"
	"time"
)

// GemType represents the gemstone species sold in the catalog
type GemType string

const (
	GemTypeDiamond    GemType = "diamond"
	GemTypeRuby       GemType = "ruby"
	GemTypeSapphire   GemType = "sapphire"
	GemTypeEmerald    GemType = "emerald"
	GemTypeAmethyst   GemType = "amethyst"
	GemTypeAquamarine GemType = "aquamarine"
	GemTypeGarnet     GemType = "garnet"
	GemTypeOpal       GemType = "opal"
	GemTypePeridot    GemType = "peridot"
	GemTypeSpinel     GemType = "spinel"
	GemTypeTanzanite  GemType = "tanzanite"
	GemTypeTopaz      GemType = "topaz"
	GemTypeTourmaline GemType = "tourmaline"
)

// GemCut represents the cut shape of a stone
type GemCut string

const (
	GemCutRound    GemCut = "round"
	GemCutOval     GemCut = "oval"
	GemCutCushion  GemCut = "cushion"
	GemCutPrincess GemCut = "princess"
	GemCutEmerald  GemCut = "emerald"
	GemCutPear     GemCut = "pear"
	GemCutMarquise GemCut = "marquise"
	GemCutRadiant  GemCut = "radiant"
	GemCutAsscher  GemCut = "asscher"
	GemCutHeart    GemCut = "heart"
	GemCutCabochon GemCut = "cabochon"
	GemCutBaguette GemCut = "baguette"
)

// ClarityGrade represents the GIA-scale clarity grade of a stone
type ClarityGrade string

const (
	ClarityFL   ClarityGrade = "FL"
	ClarityIF   ClarityGrade = "IF"
	ClarityVVS1 ClarityGrade = "VVS1"
	ClarityVVS2 ClarityGrade = "VVS2"
	ClarityVS1  ClarityGrade = "VS1"
	ClarityVS2  ClarityGrade = "VS2"
	ClaritySI1  ClarityGrade = "SI1"
	ClaritySI2  ClarityGrade = "SI2"
	ClarityI1   ClarityGrade = "I1"
	ClarityI2   ClarityGrade = "I2"
	ClarityI3   ClarityGrade = "I3"
)

// Gemstone represents a single stone in the catalog
type Gemstone struct {
	ID               string
	SerialNumber     string
	Name             string
	GemType          GemType
	Color            string
	Cut              GemCut
	Clarity          ClarityGrade
	Origin           string
	WeightCarats     float64
	PriceCents       int64
	Currency         string
	InStock          bool
	CertificationLab string
	Description      string
	Analysis         *GemAnalysis
	Embedding        []float32
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasCertification reports whether the stone ships with a lab certificate.
func (g *Gemstone) HasCertification() bool {
	return g.CertificationLab != ""
}

// HasAnalysis reports whether photo analysis has completed for the stone.
func (g *Gemstone) HasAnalysis() bool {
	return g.Analysis != nil
}

// GemAnalysis holds the structured attributes extracted from product photography.
type GemAnalysis struct {
	DetectedColor   string    `json:"detected_color,omitempty"`
	ClarityEstimate string    `json:"clarity_estimate,omitempty"`
	CaratEstimate   float64   `json:"carat_estimate,omitempty"`
	Description     string    `json:"description,omitempty"`
	Model           string    `json:"model,omitempty"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
}

// ValidateGemstone validates a Gemstone instance
func ValidateGemstone(g *Gemstone) error {
	if g == nil {
		return fmt.Errorf("gemstone cannot be nil")
	}

	if g.ID == "" {
		return fmt.Errorf("gemstone ID is required")
	}

	if g.SerialNumber == "" {
		return fmt.Errorf("gemstone SerialNumber is required")
	}

	if g.Name == "" {
		return fmt.Errorf("gemstone Name is required")
	}

	if !IsValidGemType(g.GemType) {
		return fmt.Errorf("gemstone GemType is invalid: %s", g.GemType)
	}

	if g.Cut != "" && !IsValidGemCut(g.Cut) {
		return fmt.Errorf("gemstone Cut is invalid: %s", g.Cut)
	}

	if g.Clarity != "" && !IsValidClarityGrade(g.Clarity) {
		return fmt.Errorf("gemstone Clarity is invalid: %s", g.Clarity)
	}

	if g.WeightCarats <= 0 {
		return fmt.Errorf("gemstone WeightCarats must be greater than 0")
	}

	if g.PriceCents < 0 {
		return fmt.Errorf("gemstone PriceCents cannot be negative")
	}

	if g.Currency == "" {
		return fmt.Errorf("gemstone Currency is required")
	}

	return nil
}

// IsValidGemType checks if a GemType is valid
func IsValidGemType(t GemType) bool {
	switch t {
	case GemTypeDiamond, GemTypeRuby, GemTypeSapphire, GemTypeEmerald,
		GemTypeAmethyst, GemTypeAquamarine, GemTypeGarnet, GemTypeOpal,
		GemTypePeridot, GemTypeSpinel, GemTypeTanzanite, GemTypeTopaz,
		GemTypeTourmaline:
		return true
	}
	return false
}

// IsValidGemCut checks if a GemCut is valid
func IsValidGemCut(c GemCut) bool {
	switch c {
	case GemCutRound, GemCutOval, GemCutCushion, GemCutPrincess, GemCutEmerald,
		GemCutPear, GemCutMarquise, GemCutRadiant, GemCutAsscher, GemCutHeart,
		GemCutCabochon, GemCutBaguette:
		return true
	}
	return false
}

// IsValidClarityGrade checks if a ClarityGrade is valid
func IsValidClarityGrade(c ClarityGrade) bool {
	switch c {
	case ClarityFL, ClarityIF, ClarityVVS1, ClarityVVS2, ClarityVS1,
		ClarityVS2, ClaritySI1, ClaritySI2, ClarityI1, ClarityI2, ClarityI3:
		return true
	}
	return false
}
