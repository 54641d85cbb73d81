package matching

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var tablesYAML []byte

type category struct {
	Name   string   `yaml:"name"`
	Skills []string `yaml:"skills"`
}

type tableFile struct {
	Aliases    [][]string `yaml:"aliases"`
	Categories []category `yaml:"categories"`
}

// aliasGroups maps a normalized name to the index of its alias group. Two
// names are aliases when they land in the same group. Loaded once at process
// start and never mutated afterward.
var (
	aliasGroups map[string]int
	categories  []category
)

func init() {
	if err := loadTables(tablesYAML); err != nil {
		panic(fmt.Sprintf("matching: bad embedded tables: %v", err))
	}
}

func loadTables(raw []byte) error {
	var parsed tableFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse tables yaml: %w", err)
	}
	groups := make(map[string]int)
	for i, group := range parsed.Aliases {
		for _, name := range group {
			groups[name] = i
		}
	}
	aliasGroups = groups
	categories = parsed.Categories
	return nil
}

// sameAliasGroup reports whether two normalized names belong to the same
// alias-table entry.
func sameAliasGroup(a, b string) bool {
	groupA, okA := aliasGroups[a]
	groupB, okB := aliasGroups[b]
	return okA && okB && groupA == groupB
}

// inCategory reports whether a normalized skill name falls under a category,
// by substring match against the category name or any of its phrases.
func inCategory(normalized string, c category) bool {
	if normalized == "" {
		return false
	}
	if containsEither(normalized, c.Name) {
		return true
	}
	for _, phrase := range c.Skills {
		if containsEither(normalized, phrase) {
			return true
		}
	}
	return false
}

// sharedCategory reports whether two normalized names independently fall
// under the same category.
func sharedCategory(a, b string) bool {
	for _, c := range categories {
		if inCategory(a, c) && inCategory(b, c) {
			return true
		}
	}
	return false
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
