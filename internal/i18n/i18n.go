// Package i18n serves the UI string dictionaries.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultLocale is served for unknown locales.
const DefaultLocale = "pt-BR"

// Locales lists the supported locales.
var Locales = []string{"pt-BR", "en-US", "es-ES"}

//go:embed locales/*.yaml
var localeFS embed.FS

// Dictionary is a nested map of UI strings.
type Dictionary map[string]any

// Catalog holds the dictionaries of every supported locale.
type Catalog struct {
	dicts map[string]Dictionary
}

// Load parses the embedded locale files.
func Load() (*Catalog, error) {
	c := &Catalog{dicts: make(map[string]Dictionary, len(Locales))}
	for _, loc := range Locales {
		raw, err := localeFS.ReadFile("locales/" + loc + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", loc, err)
		}
		var d Dictionary
		if err := yaml.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", loc, err)
		}
		c.dicts[loc] = d
	}
	return c, nil
}

// Resolve returns the supported locale for loc, or DefaultLocale.
func (c *Catalog) Resolve(loc string) string {
	for _, l := range Locales {
		if strings.EqualFold(l, loc) {
			return l
		}
	}
	return DefaultLocale
}

// Dictionary returns the dictionary of loc, falling back to DefaultLocale.
func (c *Catalog) Dictionary(loc string) (string, Dictionary) {
	resolved := c.Resolve(loc)
	return resolved, c.dicts[resolved]
}

// Lookup resolves a dotted key such as "chat.send". A missing key returns the key itself.
func (c *Catalog) Lookup(loc, key string) string {
	_, d := c.Dictionary(loc)
	var node any = map[string]any(d)
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		if node, ok = m[part]; !ok {
			return key
		}
	}
	s, ok := node.(string)
	if !ok || s == "" {
		return key
	}
	return s
}
