package githubcli

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultTemplateCacheSizeConstant = 512
)

// TemplateCache keeps the gitignore catalog and template sources for the lifetime of the
// process. The catalog is held outside the bounded source cache so it is never evicted;
// the size bounds template sources only.
type TemplateCache struct {
	catalogMutex  sync.RWMutex
	catalog       []string
	catalogStored bool
	sources       *lru.Cache[string, string]
}

// NewTemplateCache builds a cache holding up to size template sources. Non-positive sizes use the default.
func NewTemplateCache(size int) (*TemplateCache, error) {
	if size <= 0 {
		size = defaultTemplateCacheSizeConstant
	}
	sources, creationError := lru.New[string, string](size)
	if creationError != nil {
		return nil, creationError
	}
	return &TemplateCache{sources: sources}, nil
}

// Catalog returns a copy of the cached template names.
func (cache *TemplateCache) Catalog() ([]string, bool) {
	cache.catalogMutex.RLock()
	defer cache.catalogMutex.RUnlock()
	if !cache.catalogStored {
		return nil, false
	}
	return append([]string{}, cache.catalog...), true
}

// StoreCatalog records the template names.
func (cache *TemplateCache) StoreCatalog(names []string) {
	cache.catalogMutex.Lock()
	defer cache.catalogMutex.Unlock()
	cache.catalog = append([]string{}, names...)
	cache.catalogStored = true
}

// Source returns the cached source text of a template.
func (cache *TemplateCache) Source(templateName string) (string, bool) {
	return cache.sources.Get(templateName)
}

// StoreSource records the source text of a template.
func (cache *TemplateCache) StoreSource(templateName string, source string) {
	cache.sources.Add(templateName, source)
}

// Len reports the number of cached entries, counting the catalog as one.
func (cache *TemplateCache) Len() int {
	cache.catalogMutex.RLock()
	defer cache.catalogMutex.RUnlock()
	entryCount := cache.sources.Len()
	if cache.catalogStored {
		entryCount++
	}
	return entryCount
}
