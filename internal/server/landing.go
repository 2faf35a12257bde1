package server

import (
	_ "embed"
	"fmt"
	"html"
	"os"
	"sort"
	"strings"

	"langworker/internal/registry"
)

//go:embed index.html
var defaultLanding string

// renderLanding produces the root document: the embedded page (or the
// configured override) with an available-languages list spliced into the
// Endpoints section. Rendering happens once at startup; the registry is
// immutable afterwards.
func renderLanding(overridePath string, reg *registry.Registry) ([]byte, error) {
	page := defaultLanding
	if overridePath != "" {
		data, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, fmt.Errorf("read landing page: %w", err)
		}
		page = string(data)
	}
	return []byte(spliceLanguages(page, reg)), nil
}

// spliceLanguages inserts the generated language list before the closing
// tag of the Endpoints section. Pages without that section are served
// unchanged.
func spliceLanguages(page string, reg *registry.Registry) string {
	anchor := strings.Index(page, "<h2>Endpoints</h2>")
	if anchor < 0 {
		return page
	}
	closing := strings.Index(page[anchor:], "</section>")
	if closing < 0 {
		return page
	}
	insertAt := anchor + closing

	var b strings.Builder
	b.WriteString("\n            <div class=\"endpoint\" id=\"languages\">\n")
	b.WriteString("                <h3>Available languages</h3>\n")
	b.WriteString("                <ul>\n")
	for _, entry := range sortedEntries(reg) {
		fmt.Fprintf(&b,
			"                    <li><a href=\"/resources/%s\"><code>%s</code></a> - %s</li>\n",
			entry.Tag, entry.Tag, html.EscapeString(entry.Name))
	}
	b.WriteString("                </ul>\n")
	b.WriteString("            </div>\n")

	return page[:insertAt] + b.String() + page[insertAt:]
}

func sortedEntries(reg *registry.Registry) []*registry.Entry {
	entries := append([]*registry.Entry{}, reg.Entries()...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Tag < entries[j].Tag })
	return entries
}
