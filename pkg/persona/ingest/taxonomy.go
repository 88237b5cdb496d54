package ingest

import "strings"

// CategoryOther is returned when no category keyword matches a tag.
const CategoryOther = "other"

// Category is one named bucket of keyword substrings.
type Category struct {
	Name     string
	Keywords []string // lowercase
}

// Taxonomy buckets topical tags into coarse categories. Categories are
// checked in the order they were added; the first match wins. This is a
// heuristic, misfiled tags are expected.
type Taxonomy struct {
	categories []Category
	index      map[string]int
}

// NewTaxonomy creates an empty taxonomy.
func NewTaxonomy() *Taxonomy {
	return &Taxonomy{index: make(map[string]int)}
}

// DefaultTaxonomy returns the built-in category table.
func DefaultTaxonomy() *Taxonomy {
	t := NewTaxonomy()
	t.AddCategory("technology", []string{"programming", "technology", "coding", "python", "javascript", "webdev"})
	t.AddCategory("gaming", []string{"gaming", "games", "nintendo", "xbox", "playstation", "steam"})
	t.AddCategory("lifestyle", []string{"food", "cooking", "fitness", "fashion", "relationships"})
	t.AddCategory("entertainment", []string{"movies", "music", "television", "books", "netflix"})
	t.AddCategory("news", []string{"news", "worldnews", "politics", "coronavirus"})
	t.AddCategory("educational", []string{"askreddit", "explainlikeimfive", "todayilearned", "science"})
	t.AddCategory("hobby", []string{"diy", "crafts", "gardening", "photography", "art"})
	t.AddCategory("sports", []string{"sports", "soccer", "basketball", "football", "baseball"})
	t.AddCategory("finance", []string{"personalfinance", "investing", "cryptocurrency", "stocks"})
	t.AddCategory("career", []string{"jobs", "career", "cscareerquestions", "resumes"})
	return t
}

// AddCategory appends a category. Adding an existing name replaces its
// keywords but keeps its original position.
func (t *Taxonomy) AddCategory(name string, keywords []string) {
	normalized := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			normalized = append(normalized, kw)
		}
	}
	if i, ok := t.index[name]; ok {
		t.categories[i].Keywords = normalized
		return
	}
	t.index[name] = len(t.categories)
	t.categories = append(t.categories, Category{Name: name, Keywords: normalized})
}

// Categories returns the categories in declaration order.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Categorize returns the first category with a keyword contained in tag.
func (t *Taxonomy) Categorize(tag string) string {
	lower := strings.ToLower(tag)
	if lower == "" {
		return CategoryOther
	}
	for _, cat := range t.categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat.Name
			}
		}
	}
	return CategoryOther
}
