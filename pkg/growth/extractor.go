package growth

import (
	"regexp"
	"strings"

	"github.com/artem13815/growth/pkg/nlp"
	"github.com/artem13815/growth/pkg/taxonomy"
)

// Demand is the skill set a job description asks for. Required and Preferred are disjoint.
type Demand struct {
	Required  []string
	Preferred []string
}

// Total is the number of distinct skills demanded.
func (d Demand) Total() int { return len(d.Required) + len(d.Preferred) }

// RequirementExtractor turns free-text requirements into a Demand.
// Implementations are heuristics; callers must not rely on any semantic reading of the text.
type RequirementExtractor interface {
	Extract(text string) Demand
}

var (
	preferredMarkers = []string{"preferred", "nice to have", "bonus", "a plus", "is a plus", "plus", "desirable", "desired", "optional", "would be great", "advantage"}
	requiredMarkers  = []string{"required", "requirements", "require", "must", "qualifications", "responsibilities", "you have", "we expect"}

	// sentence ends on . ; ! ? followed by whitespace or end of line, so "node.js" stays whole
	reSentenceEnd = regexp.MustCompile(`[.;!?](\s+|$)`)
)

// a bare heading line longer than this is read as prose
const maxHeadingWords = 5

// KeywordExtractor matches requirement text against a taxonomy table.
type KeywordExtractor struct {
	table *taxonomy.Table
}

func NewKeywordExtractor(table *taxonomy.Table) *KeywordExtractor {
	return &KeywordExtractor{table: table}
}

// Extract reads the text line by line. A line whose label (the text before
// ':', or a short skill-free heading line) names a section switches it and
// the following lines to preferred or required context; a sentence that itself carries a preferred marker is
// preferred. Skills seen in both contexts are required.
func (e *KeywordExtractor) Extract(text string) Demand {
	var required, preferred []string
	seenReq := map[string]struct{}{}
	seenPref := map[string]struct{}{}
	preferredSection := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if head, ok := e.sectionLabel(line); ok {
			switch {
			case hasMarker(head, preferredMarkers):
				preferredSection = true
			case hasMarker(head, requiredMarkers):
				preferredSection = false
			}
		}
		for _, sentence := range reSentenceEnd.Split(line, -1) {
			isPreferred := preferredSection || hasMarker(sentence, preferredMarkers)
			for _, name := range e.table.Match(sentence) {
				if isPreferred {
					if _, ok := seenPref[name]; !ok {
						seenPref[name] = struct{}{}
						preferred = append(preferred, name)
					}
					continue
				}
				if _, ok := seenReq[name]; !ok {
					seenReq[name] = struct{}{}
					required = append(required, name)
				}
			}
		}
	}

	d := Demand{Required: required}
	for _, name := range preferred {
		if _, ok := seenReq[name]; !ok {
			d.Preferred = append(d.Preferred, name)
		}
	}
	return d
}

// sectionLabel returns the part of line that may name a section.
func (e *KeywordExtractor) sectionLabel(line string) (string, bool) {
	if head, _, ok := strings.Cut(line, ":"); ok {
		return head, true
	}
	words := strings.Fields(nlp.NormalizeText(line))
	if len(words) == 0 || len(words) > maxHeadingWords || len(e.table.Match(line)) > 0 {
		return "", false
	}
	return line, true
}

func hasMarker(s string, markers []string) bool {
	padded := " " + nlp.NormalizeText(s) + " "
	for _, m := range markers {
		if strings.Contains(padded, " "+m+" ") {
			return true
		}
	}
	return false
}
