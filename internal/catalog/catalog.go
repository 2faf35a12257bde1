package catalog

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"langworker/internal/registry"
)

// Resource is one servable payload: the bytes as loaded at startup plus the
// content type negotiated from the source file. Body is shared across all
// requests and must be treated as immutable.
type Resource struct {
	Body        []byte
	ContentType string
	Path        string
}

// Catalog maps canonical language tags to their resources. Built once and
// read-only afterwards, so it needs no synchronization.
type Catalog struct {
	resources map[string]*Resource
}

// Build loads every resource the registry references. Failures here are
// startup-fatal: the loader already verified the files exist, so a read
// error means the environment changed underneath us.
func Build(reg *registry.Registry) (*Catalog, error) {
	resources := make(map[string]*Resource, reg.Len())
	for _, entry := range reg.Entries() {
		body, err := os.ReadFile(entry.Resource)
		if err != nil {
			return nil, fmt.Errorf("load resource for %s: %w", entry.Tag, err)
		}
		resources[entry.Tag] = &Resource{
			Body:        body,
			ContentType: contentType(entry.Resource, body),
			Path:        entry.Resource,
		}
	}
	return &Catalog{resources: resources}, nil
}

// Lookup returns the resource bound to entry. The boolean is false only for
// entries that did not come from the registry this catalog was built from.
func (c *Catalog) Lookup(entry *registry.Entry) (*Resource, bool) {
	if entry == nil {
		return nil, false
	}
	res, ok := c.resources[entry.Tag]
	return res, ok
}

// Len returns the number of loaded resources.
func (c *Catalog) Len() int {
	return len(c.resources)
}

func contentType(path string, body []byte) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return http.DetectContentType(body)
}
