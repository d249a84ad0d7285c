// Package taxonomy holds the skill vocabulary used to read job requirements:
// canonical skill names grouped by category, with aliases. A Table is
// immutable once loaded, so one value can be shared across goroutines.
package taxonomy

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artem13815/growth/pkg/nlp"
)

// Category classifies a skill.
type Category string

const (
	CategoryLanguage     Category = "language"
	CategoryFramework    Category = "framework"
	CategoryDatabase     Category = "database"
	CategoryCloud        Category = "cloud"
	CategoryDevOps       Category = "devops"
	CategorySystemDesign Category = "system-design"
	CategoryDSA          Category = "data-structures-algorithms"
	CategorySoftSkill    Category = "soft-skill"
	CategoryDomain       Category = "domain"
	CategoryTool         Category = "tool"
	CategoryOther        Category = "other"
)

var knownCategories = map[Category]struct{}{
	CategoryLanguage: {}, CategoryFramework: {}, CategoryDatabase: {}, CategoryCloud: {},
	CategoryDevOps: {}, CategorySystemDesign: {}, CategoryDSA: {}, CategorySoftSkill: {},
	CategoryDomain: {}, CategoryTool: {}, CategoryOther: {},
}

// ParseCategory validates a category name; empty input maps to CategoryOther.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryOther, nil
	}
	c := Category(s)
	if _, ok := knownCategories[c]; !ok {
		return "", fmt.Errorf("unknown skill category %q", s)
	}
	return c, nil
}

// Skill is one canonical taxonomy entry.
type Skill struct {
	Name     string
	Category Category
	Aliases  []string

	// WholeWord entries only match on word boundaries ("go" must not match "google").
	WholeWord bool
}

type keyword struct {
	folded     string
	normalized string
}

type entry struct {
	skill    Skill
	keywords []keyword
}

// Table is a loaded, read-only taxonomy.
type Table struct {
	entries []entry
}

type document struct {
	Categories []struct {
		Category string `yaml:"category"`
		Skills   []struct {
			Name      string   `yaml:"name"`
			Aliases   []string `yaml:"aliases"`
			WholeWord bool     `yaml:"wholeWord"`
		} `yaml:"skills"`
	} `yaml:"categories"`
}

//go:embed default.yaml
var defaultYAML string

// Default returns the embedded default taxonomy.
func Default() *Table {
	t, err := Load(strings.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("taxonomy: embedded default is invalid: %v", err))
	}
	return t
}

// LoadFile reads a YAML taxonomy from disk.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML taxonomy document.
func Load(r io.Reader) (*Table, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	seen := map[string]struct{}{}
	t := &Table{}
	for _, c := range doc.Categories {
		cat, err := ParseCategory(c.Category)
		if err != nil {
			return nil, err
		}
		for _, s := range c.Skills {
			name := strings.TrimSpace(s.Name)
			if name == "" {
				return nil, fmt.Errorf("taxonomy: empty skill name in category %q", cat)
			}
			key := nlp.Fold(name)
			if _, dup := seen[key]; dup {
				return nil, fmt.Errorf("taxonomy: duplicate skill %q", name)
			}
			seen[key] = struct{}{}
			e := entry{skill: Skill{Name: name, Category: cat, Aliases: append([]string(nil), s.Aliases...), WholeWord: s.WholeWord}}
			for _, k := range append([]string{name}, s.Aliases...) {
				if f := nlp.Fold(k); f != "" {
					e.keywords = append(e.keywords, keyword{folded: f, normalized: nlp.NormalizeText(k)})
				}
			}
			t.entries = append(t.entries, e)
		}
	}
	return t, nil
}

// Skills returns a copy of all entries in table order.
func (t *Table) Skills() []Skill {
	out := make([]Skill, 0, len(t.entries))
	for _, e := range t.entries {
		s := e.skill
		s.Aliases = append([]string(nil), e.skill.Aliases...)
		out = append(out, s)
	}
	return out
}

// Len reports the number of skills in the table.
func (t *Table) Len() int { return len(t.entries) }

// Match returns canonical names of every skill mentioned in text, in table order.
// Matching is case-insensitive substring containment of the name or an alias.
func (t *Table) Match(text string) []string {
	folded := nlp.Fold(text)
	if folded == "" {
		return nil
	}
	padded := " " + nlp.NormalizeText(text) + " "
	var out []string
	for _, e := range t.entries {
		for _, k := range e.keywords {
			if e.skill.WholeWord {
				if k.normalized != "" && strings.Contains(padded, " "+k.normalized+" ") {
					out = append(out, e.skill.Name)
					break
				}
				continue
			}
			if strings.Contains(folded, k.folded) {
				out = append(out, e.skill.Name)
				break
			}
		}
	}
	return out
}

// Categorize picks the category whose keyword is the longest one contained in
// the skill name. Ties go to the earlier table entry; no match is CategoryOther.
func (t *Table) Categorize(skill string) Category {
	folded := nlp.Fold(skill)
	if folded == "" {
		return CategoryOther
	}
	best, bestLen := CategoryOther, 0
	for _, e := range t.entries {
		for _, k := range e.keywords {
			if len(k.folded) > bestLen && strings.Contains(folded, k.folded) {
				best, bestLen = e.skill.Category, len(k.folded)
			}
		}
	}
	return best
}
