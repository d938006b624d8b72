// Package i18n translates framework messages.
package i18n

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Translator turns a source message into the target language, substituting
// {name} placeholders from params.
type Translator interface {
	Translate(category, message string, params map[string]any, language string) string
}

// Format substitutes {name} tokens in message. A message with no params is
// returned unchanged.
func Format(message string, params map[string]any) string {
	if len(params) == 0 {
		return message
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(params[name]))
	}
	return strings.NewReplacer(pairs...).Replace(message)
}

var _ Translator = (*Catalog)(nil)

// Catalog is an in-memory Translator keyed by language, category and source
// message.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{messages: make(map[string]map[string]map[string]string)}
}

// Load merges a language → category → message table, as read from the
// bootstrap manifest.
func (c *Catalog) Load(messages map[string]map[string]map[string]string) {
	for lang, categories := range messages {
		for category, table := range categories {
			c.Add(lang, category, table)
		}
	}
}

// Add merges translations for one language and category.
func (c *Catalog) Add(language, category string, translations map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cats, ok := c.messages[language]
	if !ok {
		cats = make(map[string]map[string]string)
		c.messages[language] = cats
	}
	table, ok := cats[category]
	if !ok {
		table = make(map[string]string, len(translations))
		cats[category] = table
	}
	for src, dst := range translations {
		table[src] = dst
	}
}

// Translate looks the message up for language, falling back to the base
// language ("de" for "de-DE") and then to the source message itself.
func (c *Catalog) Translate(category, message string, params map[string]any, language string) string {
	if translated, ok := c.lookup(category, message, language); ok {
		return Format(translated, params)
	}
	if base, _, found := strings.Cut(language, "-"); found {
		if translated, ok := c.lookup(category, message, base); ok {
			return Format(translated, params)
		}
	}
	return Format(message, params)
}

// Languages lists the languages with at least one category, sorted.
func (c *Catalog) Languages() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.messages))
	for lang := range c.messages {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) lookup(category, message, language string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	translated, ok := c.messages[language][category][message]
	if !ok || translated == "" {
		return "", false
	}
	return translated, true
}
