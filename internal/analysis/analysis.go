// Package analysis asks an LLM to describe the structure of a fetched page
// and decodes the answer into a StructuralAnalysis.
package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Advisory layout pattern types. The LLM is asked for one of these but may
// answer with anything, so LayoutPattern.Type stays a plain string.
const (
	LayoutHero      = "hero"
	LayoutTextBlock = "text-block"
	LayoutCardGrid  = "card-grid"
	LayoutForm      = "form"
	LayoutFooter    = "footer"
)

// StructuralAnalysis describes the sections, layout patterns and color
// strategy of one reference page. It is not modified after creation.
type StructuralAnalysis struct {
	URL            string          `json:"url"`
	Sections       []Section       `json:"sections"`
	LayoutPatterns []LayoutPattern `json:"layoutPatterns"`
	ColorUsage     ColorUsage      `json:"colorUsage"`
}

// Section is one distinct region of the page.
type Section struct {
	Name     string   `json:"name"`
	Purpose  string   `json:"purpose"`
	Elements []string `json:"elements"`

	// Hierarchy is the importance level (1-5) reported by the LLM. Its
	// direction is undefined; it is carried through, never sorted on.
	Hierarchy int `json:"hierarchy"`
}

type LayoutPattern struct {
	Type      string `json:"type"`
	Structure string `json:"structure"`
}

// ColorUsage holds unordered, human-readable color descriptors.
type ColorUsage struct {
	Background []string `json:"background"`
	Text       []string `json:"text"`
	Accents    []string `json:"accents"`
}

// Save writes a as indented JSON, creating parent directories.
func Save(path string, a *StructuralAnalysis) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write analysis: %w", err)
	}
	return nil
}

// Load reads an analysis previously written by Save.
func Load(path string) (*StructuralAnalysis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis: %w", err)
	}
	var a StructuralAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse analysis %s: %w", path, err)
	}
	return &a, nil
}
