package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	semverPattern  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Validator validates deployment configurations against the schema and value
// ranges. It always returns the complete set of violations so a caller can
// report them all at once.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the deployment-config rules installed.
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks cfg and returns every violation found, or nil when the
// configuration is valid. It has no side effects and never mutates cfg.
func (v *Validator) Validate(cfg *DeploymentConfig) []ValidationError {
	var errs []ValidationError

	if err := v.validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if ok := asFieldErrors(err, &fieldErrs); ok {
			for _, fe := range fieldErrs {
				errs = append(errs, ValidationError{
					Field:    fieldPath(fe),
					Message:  tagMessage(fe),
					Severity: "error",
				})
			}
		} else {
			errs = append(errs, ValidationError{
				Field:    "config",
				Message:  err.Error(),
				Severity: "error",
			})
		}
	}

	// Checks the tag language cannot express.
	if cfg.NextJsVersion != "" && !semverPattern.MatchString(cfg.NextJsVersion) {
		errs = append(errs, ValidationError{
			Field:    "nextJsVersion",
			Message:  fmt.Sprintf("%q is not a full semantic version (want MAJOR.MINOR.PATCH)", cfg.NextJsVersion),
			Severity: "error",
		})
	}
	if cfg.CompatibilityDate != "" && !isoDatePattern.MatchString(cfg.CompatibilityDate) {
		errs = append(errs, ValidationError{
			Field:    "compatibilityDate",
			Message:  fmt.Sprintf("%q is not an ISO date (want YYYY-MM-DD)", cfg.CompatibilityDate),
			Severity: "error",
		})
	}

	seen := make(map[string]int, len(cfg.Environments))
	for i, env := range cfg.Environments {
		if env.Name == "" {
			continue // already reported by the required tag
		}
		if first, dup := seen[env.Name]; dup {
			errs = append(errs, ValidationError{
				Field:    fmt.Sprintf("environments[%d].name", i),
				Message:  fmt.Sprintf("duplicate environment name %q (first defined at environments[%d])", env.Name, first),
				Severity: "error",
			})
			continue
		}
		seen[env.Name] = i
	}

	return errs
}

// asFieldErrors unwraps a validator error into its field error list.
func asFieldErrors(err error, target *validator.ValidationErrors) bool {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = fieldErrs
	return true
}

// fieldPath converts validator namespace notation into the configuration's
// JSON-ish path form: DeploymentConfig.Environments[0].Observability.Logs
// becomes environments[0].observability.logs.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		idx := ""
		if b := strings.Index(p, "["); b >= 0 {
			idx = p[b:]
			p = p[:b]
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:] + idx
	}
	return strings.Join(parts, ".")
}

// tagMessage renders a violation message for the failed validation tag.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required and must not be empty"
	case "min":
		return fmt.Sprintf("must contain at least %s entry", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
