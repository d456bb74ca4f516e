package grammar

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/npillmayer/ccgstar/cat"
)

// Resource file names inside a grammar directory. Every file is
// optional; missing files leave the corresponding table untouched.
const (
	UnariesFile    = "unaries.json"    // map child → list of parents
	SeenRulesFile  = "seen_rules.json" // list of [left, right] pairs
	CategoriesFile = "categories.json" // supertag inventory, column order
	CatDictFile    = "cat_dict.json"   // map word → list of categories
	RootsFile      = "roots.json"      // list of admissible root categories
)

// LoadDir populates a grammar's tables from the JSON resource files in
// dir. All category notation is parsed and interned eagerly, so after
// LoadDir the interning table covers the full model inventory.
func LoadDir(g *Grammar, dir string) error {
	if err := loadUnaries(g, filepath.Join(dir, UnariesFile)); err != nil {
		return err
	}
	if err := loadSeenRules(g, filepath.Join(dir, SeenRulesFile)); err != nil {
		return err
	}
	if err := loadCategories(g, filepath.Join(dir, CategoriesFile)); err != nil {
		return err
	}
	if err := loadCatDict(g, filepath.Join(dir, CatDictFile)); err != nil {
		return err
	}
	if err := loadRoots(g, filepath.Join(dir, RootsFile)); err != nil {
		return err
	}
	tracer().Infof("grammar %q loaded from %s: %d tags, %d seen rules, %d interned categories",
		g.Lang, dir, len(g.tagset), g.SeenRuleCount(), cat.Count())
	return nil
}

func readJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("resource %s: %w", path, err)
	}
	return true, nil
}

func loadUnaries(g *Grammar, path string) error {
	var table map[string][]string
	ok, err := readJSON(path, &table)
	if !ok || err != nil {
		return err
	}
	for child, parents := range table {
		c, err := cat.Parse(child)
		if err != nil {
			return fmt.Errorf("resource %s: %w", path, err)
		}
		for _, parent := range parents {
			p, err := cat.Parse(parent)
			if err != nil {
				return fmt.Errorf("resource %s: %w", path, err)
			}
			g.AddUnary(c, p)
		}
	}
	return nil
}

func loadSeenRules(g *Grammar, path string) error {
	var pairs [][2]string
	ok, err := readJSON(path, &pairs)
	if !ok || err != nil {
		return err
	}
	for _, pair := range pairs {
		l, err := cat.Parse(pair[0])
		if err != nil {
			return fmt.Errorf("resource %s: %w", path, err)
		}
		r, err := cat.Parse(pair[1])
		if err != nil {
			return fmt.Errorf("resource %s: %w", path, err)
		}
		g.AddSeenRule(l, r)
	}
	return nil
}

func loadCategories(g *Grammar, path string) error {
	var notations []string
	ok, err := readJSON(path, &notations)
	if !ok || err != nil {
		return err
	}
	tagset := make([]*cat.Category, len(notations))
	for i, n := range notations {
		c, err := cat.Parse(n)
		if err != nil {
			return fmt.Errorf("resource %s: %w", path, err)
		}
		tagset[i] = c
	}
	g.SetTagSet(tagset)
	return nil
}

func loadCatDict(g *Grammar, path string) error {
	var dict map[string][]string
	ok, err := readJSON(path, &dict)
	if !ok || err != nil {
		return err
	}
	for word, notations := range dict {
		cats := make([]*cat.Category, 0, len(notations))
		for _, n := range notations {
			c, err := cat.Parse(n)
			if err != nil {
				return fmt.Errorf("resource %s: %w", path, err)
			}
			cats = append(cats, c)
		}
		g.AddDictEntry(word, cats)
	}
	return nil
}

func loadRoots(g *Grammar, path string) error {
	var notations []string
	ok, err := readJSON(path, &notations)
	if !ok || err != nil {
		return err
	}
	roots := make([]*cat.Category, len(notations))
	for i, n := range notations {
		c, err := cat.Parse(n)
		if err != nil {
			return fmt.Errorf("resource %s: %w", path, err)
		}
		roots[i] = c
	}
	g.SetRoots(roots)
	return nil
}
