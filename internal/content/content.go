// Package content holds the portfolio data and its text renderings.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyContent is returned when a document has no name or no sections.
var ErrEmptyContent = errors.New("content: document is empty")

//go:embed content.yaml
var defaultYAML []byte

type Document struct {
	Profile    Profile      `yaml:"profile" json:"profile"`
	Experience []Experience `yaml:"experience" json:"experience"`
	Skills     []SkillGroup `yaml:"skills" json:"skills"`
	Education  []Education  `yaml:"education" json:"education"`
	Awards     []string     `yaml:"awards" json:"awards"`
	Links      []Link       `yaml:"links" json:"links"`
	Footer     Footer       `yaml:"footer" json:"footer"`
}

type Profile struct {
	Name     string   `yaml:"name" json:"name"`
	Mark     string   `yaml:"mark" json:"mark"`
	Status   string   `yaml:"status" json:"status"`
	Headline []string `yaml:"headline" json:"headline"`
	Summary  string   `yaml:"summary" json:"summary"`
	Phone    string   `yaml:"phone,omitempty" json:"phone,omitempty"`
	Email    string   `yaml:"email,omitempty" json:"email,omitempty"`
}

type Experience struct {
	ID      string   `yaml:"id,omitempty" json:"id"`
	Company string   `yaml:"company" json:"company"`
	Role    string   `yaml:"role" json:"role"`
	Period  string   `yaml:"period" json:"period"`
	Desc    string   `yaml:"desc" json:"desc"`
	Tags    []string `yaml:"tags" json:"tags"`
	History []string `yaml:"history" json:"history"`
}

type SkillGroup struct {
	Label string   `yaml:"label" json:"label"`
	Items []string `yaml:"items" json:"items"`
}

type Education struct {
	Institution string `yaml:"institution" json:"institution"`
	Degree      string `yaml:"degree" json:"degree"`
	Period      string `yaml:"period" json:"period"`
	Kind        string `yaml:"kind" json:"kind"`
}

type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

type Footer struct {
	Title     string `yaml:"title" json:"title"`
	Status    string `yaml:"status" json:"status"`
	Copyright string `yaml:"copyright" json:"copyright"`
}

// Default returns a fresh copy of the embedded document.
func Default() *Document {
	doc, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded content: %v", err))
	}
	return doc
}

// Load reads a YAML document from path. An empty path returns Default.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse content: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the document has a name and at least one section, and
// fills missing experience ids.
func (d *Document) Validate() error {
	if strings.TrimSpace(d.Profile.Name) == "" {
		return fmt.Errorf("%w: profile.name is required", ErrEmptyContent)
	}
	if len(d.Experience)+len(d.Skills)+len(d.Education)+len(d.Awards) == 0 {
		return fmt.Errorf("%w: no sections", ErrEmptyContent)
	}
	seen := make(map[string]bool)
	for i := range d.Experience {
		e := &d.Experience[i]
		if e.ID == "" {
			e.ID = fmt.Sprintf("exp-%d", i+1)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate experience id %q", e.ID)
		}
		seen[e.ID] = true
	}
	if d.Profile.Mark == "" {
		d.Profile.Mark = strings.ToUpper(string([]rune(d.Profile.Name)[:1]))
	}
	return nil
}

// Marshal encodes the document back to YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
