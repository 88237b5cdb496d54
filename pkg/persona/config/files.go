package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Taxonomy is the YAML form of the tag taxonomy. Categories are a sequence
// so declaration order, which decides ties, survives decoding.
type Taxonomy struct {
	Replace    bool           `yaml:"replace"` // drop the built-in categories
	Categories []CategorySpec `yaml:"categories"`
}

// CategorySpec is one taxonomy entry.
type CategorySpec struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// LoadTaxonomy loads a taxonomy from a YAML file
func LoadTaxonomy(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tax Taxonomy
	if err := yaml.Unmarshal(data, &tax); err != nil {
		return nil, err
	}

	return &tax, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}

// Lexicon is the sentiment word lists.
type Lexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// LoadLexicon loads sentiment word lists from a YAML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lx Lexicon
	if err := yaml.Unmarshal(data, &lx); err != nil {
		return nil, err
	}

	return &lx, nil
}
