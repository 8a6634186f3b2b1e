package evidence

import "fmt"

// ConfigError reports an out-of-range matcher setting.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid matcher config: %s: %s", e.Field, e.Message)
}
