package domain

import "strings"

// TargetRule sends files whose name ends with one of FileTypes into
// TargetDirectory. File types are stored without a leading dot.
type TargetRule struct {
	TargetDirectory string
	FileTypes       []string
}

// RuleSet is an ordered list of target rules. The first rule declaring a
// matching file type wins.
type RuleSet struct {
	rules []TargetRule
}

func NewRuleSet(rules ...TargetRule) RuleSet {
	normalized := make([]TargetRule, 0, len(rules))

	for _, rule := range rules {
		types := make([]string, 0, len(rule.FileTypes))

		for _, ft := range rule.FileTypes {
			if ft = normalizeFileType(ft); ft != "" {
				types = append(types, ft)
			}
		}

		normalized = append(normalized, TargetRule{
			TargetDirectory: rule.TargetDirectory,
			FileTypes:       types,
		})
	}

	return RuleSet{rules: normalized}
}

func normalizeFileType(ft string) string {
	return strings.TrimPrefix(strings.TrimSpace(ft), ".")
}

// Match returns the target directory of the first rule matching name.
// Matching is case-sensitive: "report.TXT" does not match "txt".
func (s RuleSet) Match(name string) (string, bool) {
	target, _, ok := s.MatchFileType(name)
	return target, ok
}

// MatchFileType is Match that also reports the file type that matched,
// e.g. "tar.gz" for "backup.tar.gz".
func (s RuleSet) MatchFileType(name string) (string, string, bool) {
	for _, rule := range s.rules {
		for _, ft := range rule.FileTypes {
			suffix := "." + ft

			if len(name) > len(suffix) && strings.HasSuffix(name, suffix) {
				return rule.TargetDirectory, ft, true
			}
		}
	}

	return "", "", false
}

// Targets lists target directories in declaration order, without duplicates.
func (s RuleSet) Targets() []string {
	seen := make(map[string]struct{}, len(s.rules))
	targets := make([]string, 0, len(s.rules))

	for _, rule := range s.rules {
		if _, ok := seen[rule.TargetDirectory]; ok {
			continue
		}

		seen[rule.TargetDirectory] = struct{}{}
		targets = append(targets, rule.TargetDirectory)
	}

	return targets
}

func (s RuleSet) Rules() []TargetRule {
	result := make([]TargetRule, len(s.rules))
	copy(result, s.rules)

	return result
}

func (s RuleSet) Len() int {
	return len(s.rules)
}
