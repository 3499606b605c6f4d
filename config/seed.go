package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the startup content of the catalog and the patron directory.
//
//	items:
//	  - kind: physical
//	    title: Dune
//	    author: Frank Herbert
//	    year: 1965
//	    pages: 412
//	    condition: worn
//	patrons:
//	  - category: student
//	    name: Ana
//	    email: ana@example.com
//	    affiliation: Computer Science
type Seed struct {
	Items   []SeedItem   `yaml:"items"`
	Patrons []SeedPatron `yaml:"patrons"`
}

type SeedItem struct {
	Kind       string  `yaml:"kind"`
	Title      string  `yaml:"title"`
	Author     string  `yaml:"author"`
	Year       int     `yaml:"year"`
	Pages      int     `yaml:"pages"`
	Condition  string  `yaml:"condition"`
	FileSizeMB float64 `yaml:"file_size_mb"`
	Format     string  `yaml:"format"`
}

type SeedPatron struct {
	Category    string `yaml:"category"`
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Affiliation string `yaml:"affiliation"`
}

// LoadSeed reads a seed file. Entries are not validated here; the library
// factories reject bad tags when the seed is applied.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return &s, nil
}
