package nlp

import "strings"

// skillAliases maps a folded skill spelling to the spellings considered equal to it.
var skillAliases = map[string][]string{
	"postgres":   {"postgresql"},
	"postgresql": {"postgres"},
	"k8s":        {"kubernetes"},
	"kubernetes": {"k8s"},
	"golang":     {"go"},
	"go":         {"golang"},
	"js":         {"javascript"},
	"javascript": {"js"},
	"ts":         {"typescript"},
	"typescript": {"ts"},
	"rest":       {"rest api"},
	"rest api":   {"rest"},
	"ci cd":      {"cicd", "ci/cd"},
	"cicd":       {"ci cd", "ci/cd"},
	"ci/cd":      {"ci cd", "cicd"},
	"gcp":        {"google cloud"},
	"aws":        {"amazon web services"},
}

// SkillVariants returns the folded skill plus its known aliases, without duplicates.
func SkillVariants(skill string) []string {
	base := Fold(skill)
	if base == "" {
		return []string{}
	}
	out := []string{base}
	seen := map[string]struct{}{base: {}}
	for _, a := range skillAliases[base] {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// SkillsEqual reports a case-insensitive exact match, aliases included.
func SkillsEqual(a, b string) bool {
	for _, va := range SkillVariants(a) {
		for _, vb := range SkillVariants(b) {
			if va == vb {
				return true
			}
		}
	}
	return false
}

// SkillsOverlap reports whether one skill name contains the other
// (case-insensitive, aliases included). Exact matches overlap too.
func SkillsOverlap(a, b string) bool {
	for _, va := range SkillVariants(a) {
		for _, vb := range SkillVariants(b) {
			if strings.Contains(va, vb) || strings.Contains(vb, va) {
				return true
			}
		}
	}
	return false
}
