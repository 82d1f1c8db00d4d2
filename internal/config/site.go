package config

// SiteConfig holds per-domain configuration overrides.
// This allows tuning crawl limits and the salience threshold for
// individual sites without changing the global flags.
type SiteConfig struct {
	// MaxPages overrides the global page limit for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Depth overrides the global crawl depth for this site.
	// If zero, the global MaxDepth is used.
	Depth int `yaml:"depth,omitempty"`

	// MinSalience overrides the global salience threshold for this site.
	// If zero, the global MinSalience is used.
	MinSalience float64 `yaml:"minSalience,omitempty"`

	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// File represents the structure of the .seoscan configuration file.
type File struct {
	// Sites maps domains to their site-specific configurations.
	// Keys are bare domains without the scheme (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific domain.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[domain]; ok {
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.Depth != 0 {
			result.Depth = siteConfig.Depth
		}
		if siteConfig.MinSalience != 0 {
			result.MinSalience = siteConfig.MinSalience
		}
		if siteConfig.UserAgent != "" {
			result.UserAgent = siteConfig.UserAgent
		}
	}

	return result
}

// ApplyTo overlays the site configuration onto a copy of the global
// config and returns it. Zero values leave the global setting in place.
func (sc SiteConfig) ApplyTo(c *Config) *Config {
	merged := *c
	if sc.MaxPages != 0 {
		merged.MaxPages = sc.MaxPages
	}
	if sc.Depth != 0 {
		merged.MaxDepth = sc.Depth
	}
	if sc.MinSalience != 0 {
		merged.MinSalience = sc.MinSalience
	}
	if sc.UserAgent != "" {
		merged.UserAgent = sc.UserAgent
	}
	return &merged
}
