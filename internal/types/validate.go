package types

import "github.com/go-playground/validator/v10"

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New()
