package cache

import (
	"strings"
	"time"
)

// DefaultTTL applies to regions without an explicit TTL
const DefaultTTL = time.Hour

// DefaultRegionTTLs are the TTLs of the report template regions
func DefaultRegionTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		"checklistTemplates": time.Hour,
		"jobTicketTemplates": 24 * time.Hour,
	}
}

// RegionTTLs resolves the TTL of a cache region
type RegionTTLs struct {
	defaultTTL time.Duration
	regions    map[string]time.Duration
}

// NewRegionTTLs creates a resolver. Non-positive values take the defaults.
func NewRegionTTLs(defaultTTL time.Duration, regions map[string]time.Duration) RegionTTLs {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	resolved := DefaultRegionTTLs()
	for region, ttl := range regions {
		if ttl > 0 {
			resolved[region] = ttl
		}
	}
	return RegionTTLs{defaultTTL: defaultTTL, regions: resolved}
}

// TTL returns the TTL of region
func (r RegionTTLs) TTL(region string) time.Duration {
	if ttl, ok := r.regions[region]; ok {
		return ttl
	}
	// viper lowercases map keys read from config files
	for name, ttl := range r.regions {
		if strings.EqualFold(name, region) {
			return ttl
		}
	}
	if r.defaultTTL <= 0 {
		return DefaultTTL
	}
	return r.defaultTTL
}

func regionKey(region, key string) string {
	return region + "::" + key
}
