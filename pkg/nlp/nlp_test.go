package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "rest api ci cd", NormalizeText("  REST-API,   CI/CD "))
	assert.Equal(t, "", NormalizeText("  ,. "))
}

func TestFoldKeepsPunctuation(t *testing.T) {
	assert.Equal(t, "node.js and c++", Fold("  Node.js   and\tC++ "))
}

func TestSkillVariants(t *testing.T) {
	assert.Equal(t, []string{"k8s", "kubernetes"}, SkillVariants("K8s"))
	assert.Equal(t, []string{"python"}, SkillVariants(" Python "))
	assert.Empty(t, SkillVariants("   "))
}

func TestSkillsEqualAndOverlap(t *testing.T) {
	assert.True(t, SkillsEqual("Postgres", "PostgreSQL"))
	assert.True(t, SkillsEqual("python", "PYTHON"))
	assert.False(t, SkillsEqual("Java", "JavaScript"))

	assert.True(t, SkillsOverlap("React", "React Native"))
	assert.True(t, SkillsOverlap("Golang", "Go"))
	assert.False(t, SkillsOverlap("Rust", "Python"))
}
