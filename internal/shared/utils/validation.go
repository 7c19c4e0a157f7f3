package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxJSONSize caps request bodies, enforced before binding. Operand
// arrays dominate payloads, so 4MB leaves ample headroom.
const MaxJSONSize = 4 * 1024 * 1024

// Domain limits
const (
	MaxIDLength         = 128
	MaxCategoryLength   = 64
	MaxExpressionLength = 1024      // Infix expression string
	MaxArrayElements    = 4_194_304 // 4M elements per operand
	MaxJSONDepth        = 20
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// ToolIDPattern allows alphanumeric, hyphens, underscores, and dots (for service.tool format)
	ToolIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

// ValidateJSONDepth checks if JSON nesting depth is within limits
func ValidateJSONDepth(data interface{}, maxDepth int) error {
	return checkDepth(data, 0, maxDepth)
}

func checkDepth(data interface{}, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("JSON nesting depth %d exceeds maximum %d", currentDepth, maxDepth)
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}

	return nil
}

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil // Optional field, empty is OK
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	// Check for null bytes (security issue)
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateToolID validates a tool ID field (allows dots for service.tool format)
func ValidateToolID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !ToolIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// ValidateCategory validates a service category filter
func ValidateCategory(category string, required bool) error {
	if err := ValidateString(category, "category", 0, MaxCategoryLength, required); err != nil {
		return err
	}

	// Category should only contain lowercase letters, numbers, and hyphens
	if category != "" && !regexp.MustCompile(`^[a-z0-9-]+$`).MatchString(category) {
		return fmt.Errorf("category must contain only lowercase letters, numbers, and hyphens")
	}

	return nil
}

// ValidateExpression bounds an infix expression string before parsing.
// A non-positive maxLen falls back to MaxExpressionLength. Emptiness is
// left to the parser so it reports a syntax error.
func ValidateExpression(expr string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = MaxExpressionLength
	}
	return ValidateString(expr, "expression", 0, maxLen, false)
}
