package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleSet_Match(t *testing.T) {
	rules := NewRuleSet(
		TargetRule{TargetDirectory: "/docs", FileTypes: []string{"txt", ".pdf", " doc "}},
		TargetRule{TargetDirectory: "/archives", FileTypes: []string{"tar.gz", "zip"}},
		TargetRule{TargetDirectory: "/other", FileTypes: []string{"gz", "txt"}},
	)

	testCases := []struct {
		name     string
		expected string
		matched  bool
	}{
		{"notes.txt", "/docs", true},
		{"paper.pdf", "/docs", true},
		{"letter.doc", "/docs", true},
		{"backup.tar.gz", "/archives", true},
		{"log.gz", "/other", true},
		{"photo.png", "", false},
		{"NOTES.TXT", "", false},
		{"notes.Txt", "", false},
		{"txt", "", false},
		{".txt", "", false},
		{"notestxt", "", false},
		{"notes.txt.bak", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, ok := rules.Match(tc.name)

			assert.Equal(t, tc.matched, ok)
			assert.Equal(t, tc.expected, target)
		})
	}
}

func TestRuleSet_MatchFileType(t *testing.T) {
	rules := NewRuleSet(
		TargetRule{TargetDirectory: "/archives", FileTypes: []string{".tar.gz"}},
		TargetRule{TargetDirectory: "/other", FileTypes: []string{"gz"}},
	)

	target, fileType, ok := rules.MatchFileType("backup.tar.gz")
	assert.True(t, ok)
	assert.Equal(t, "/archives", target)
	assert.Equal(t, "tar.gz", fileType)

	target, fileType, ok = rules.MatchFileType("log.gz")
	assert.True(t, ok)
	assert.Equal(t, "/other", target)
	assert.Equal(t, "gz", fileType)

	_, fileType, ok = rules.MatchFileType("photo.png")
	assert.False(t, ok)
	assert.Empty(t, fileType)
}

func TestRuleSet_Match_DeclarationOrder(t *testing.T) {
	first := NewRuleSet(
		TargetRule{TargetDirectory: "/a", FileTypes: []string{"txt"}},
		TargetRule{TargetDirectory: "/b", FileTypes: []string{"txt"}},
	)
	second := NewRuleSet(
		TargetRule{TargetDirectory: "/b", FileTypes: []string{"txt"}},
		TargetRule{TargetDirectory: "/a", FileTypes: []string{"txt"}},
	)

	for i := 0; i < 10; i++ {
		target, _ := first.Match("x.txt")
		assert.Equal(t, "/a", target)

		target, _ = second.Match("x.txt")
		assert.Equal(t, "/b", target)
	}
}

func TestRuleSet_NormalizesFileTypes(t *testing.T) {
	rules := NewRuleSet(TargetRule{TargetDirectory: "/docs", FileTypes: []string{".txt", "", "  ", "pdf"}})

	assert.Equal(t, []TargetRule{{TargetDirectory: "/docs", FileTypes: []string{"txt", "pdf"}}}, rules.Rules())
}

func TestRuleSet_Targets(t *testing.T) {
	rules := NewRuleSet(
		TargetRule{TargetDirectory: "/b", FileTypes: []string{"txt"}},
		TargetRule{TargetDirectory: "/a", FileTypes: []string{"png"}},
		TargetRule{TargetDirectory: "/b", FileTypes: []string{"pdf"}},
	)

	assert.Equal(t, []string{"/b", "/a"}, rules.Targets())
	assert.Equal(t, 3, rules.Len())
}

func TestRuleSet_Rules_ReturnsCopy(t *testing.T) {
	rules := NewRuleSet(TargetRule{TargetDirectory: "/docs", FileTypes: []string{"txt"}})

	copied := rules.Rules()
	copied[0].TargetDirectory = "/elsewhere"

	target, _ := rules.Match("a.txt")
	assert.Equal(t, "/docs", target)
}
