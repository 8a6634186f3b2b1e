package ratelimit

import (
	"strings"
)

// unlimited is returned for exempt endpoints.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration governing a request, or nil when
// the default limit applies. Exact paths win over prefixes; among prefixes
// the longest wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &unlimited
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != "*" && cfg.Method != method {
			continue
		}
		if cfg.Path == path {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
