package canvasform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// StringValidator validates a field's text.
type StringValidator func(string) error

// VRequired rejects empty strings.
func VRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

// VNumeric rejects strings that are not whole numbers. Empty passes;
// combine with VRequired.
func VNumeric(s string) error {
	if s == "" {
		return nil
	}
	if _, err := strconv.Atoi(s); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

// VMinLen rejects strings shorter than n.
func VMinLen(n int) StringValidator {
	return func(s string) error {
		if len(s) < n {
			return fmt.Errorf("min %d characters", n)
		}
		return nil
	}
}

// VMaxLen rejects strings longer than n.
func VMaxLen(n int) StringValidator {
	return func(s string) error {
		if len(s) > n {
			return fmt.Errorf("max %d characters", n)
		}
		return nil
	}
}

// VMatch rejects strings that don't match the given regex pattern.
func VMatch(pattern string) (StringValidator, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("match pattern: %w", err)
	}
	return func(s string) error {
		if s == "" {
			return nil
		}
		if !re.MatchString(s) {
			return fmt.Errorf("invalid format")
		}
		return nil
	}, nil
}

// ParseValidator turns a rule such as "required", "numeric", "min=3",
// "max=10" or "match=^[a-z]+$" into a validator.
func ParseValidator(rule string) (StringValidator, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(rule), "=")
	switch name {
	case "required":
		return VRequired, nil
	case "numeric":
		return VNumeric, nil
	case "min", "max":
		if !hasArg {
			return nil, fmt.Errorf("validator %q needs a length", name)
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("validator %q: bad length %q", name, arg)
		}
		if name == "min" {
			return VMinLen(n), nil
		}
		return VMaxLen(n), nil
	case "match":
		if !hasArg {
			return nil, fmt.Errorf("validator %q needs a pattern", name)
		}
		return VMatch(arg)
	}
	return nil, fmt.Errorf("unknown validator %q", rule)
}
