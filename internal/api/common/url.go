package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetSObjectName extracts, decodes, and validates an SObject name URL parameter.
// Names must be non-empty and contain only letters, digits and underscores.
func GetSObjectName(r *http.Request, paramName string) (string, error) {
	decoded, err := url.PathUnescape(chi.URLParam(r, paramName))
	if err != nil {
		return "", fmt.Errorf("invalid URL encoding in %s", paramName)
	}

	if strings.TrimSpace(decoded) == "" {
		return "", fmt.Errorf("%s cannot be empty", paramName)
	}

	for _, c := range decoded {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'
		if !isLetter && !isDigit && c != '_' {
			return "", fmt.Errorf("%s must contain only letters, digits and underscores", paramName)
		}
	}

	return decoded, nil
}
