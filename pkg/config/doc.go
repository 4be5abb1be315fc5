// Package config defines the deployment configuration model and its
// validation for openwrangle.
//
// # Overview
//
// The config package holds the structural contract for a deployment
// configuration: the worker identity, the caching tier, the database backend,
// optional bindings, and the per-environment observability settings. It
// rejects malformed input before it reaches the artifact compiler.
//
// # Components
//
// Validator: struct-tag driven validation (go-playground/validator) plus the
// range and pattern checks the tag language cannot express. Validation always
// returns the complete list of violations rather than stopping at the first.
//
// SchemaRegistry: CUE schemas providing a second, structural validation layer
// for strict mode. Built-in schemas cover the deployment root, environments,
// and observability blocks; callers can register their own.
//
// # Usage Example
//
//	v := config.NewValidator()
//	if errs := v.Validate(cfg); len(errs) > 0 {
//	    for _, e := range errs {
//	        fmt.Println(e.Error())
//	    }
//	}
package config
