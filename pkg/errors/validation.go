package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a scene node identifier for safety and correctness.
// IDs come from LLM output and user-supplied scene files, so the rules are
// intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path-like sequences (.., //, backslash, null byte)
//   - Maximum length of 128 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidScene, "node id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidScene, "node id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidScene, "node id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidScene, "node id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// hexColorRegex matches #RGB and #RRGGBB hex color strings.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a hex color override like "#2B7DE9".
// Empty strings are allowed; they mean "use the theme color".
func ValidateHexColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorRegexMatch(color) {
		return New(ErrCodeInvalidScene, "invalid hex color: %q", color)
	}
	return nil
}

func hexColorRegexMatch(color string) bool {
	return hexColorRegex.MatchString(color)
}

// themeNameRegex matches valid theme names (lowercase identifiers).
var themeNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateThemeName validates a theme name like "whiteboard" or "dark_modern".
func ValidateThemeName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTheme, "theme name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidTheme, "theme name too long (max 64 characters)")
	}

	if !themeNameRegex.MatchString(name) {
		return New(ErrCodeInvalidTheme, "invalid theme name: %q", name)
	}

	return nil
}

// ValidatePath validates a user-supplied file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateCanvasSize validates requested canvas dimensions.
// Dimensions are capped to keep render memory bounded.
func ValidateCanvasSize(width, height int) error {
	const (
		minDim = 200
		maxDim = 8000
	)
	if width < minDim || height < minDim {
		return New(ErrCodeInvalidSize, "canvas too small: %dx%d (min %dx%d)", width, height, minDim, minDim)
	}
	if width > maxDim || height > maxDim {
		return New(ErrCodeInvalidSize, "canvas too large: %dx%d (max %dx%d)", width, height, maxDim, maxDim)
	}
	return nil
}
