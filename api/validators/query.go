package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

// QueryString returns the trimmed value of key cut to at most maxRunes characters. Cutting by rune
// keeps multi-byte search terms valid UTF-8.
func QueryString(r *http.Request, key string, maxRunes int) string {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if maxRunes <= 0 || utf8.RuneCountInString(value) <= maxRunes {
		return value
	}
	return string([]rune(value)[:maxRunes])
}

// QueryFlag reads an optional boolean such as ?confirm=true. Absent means false; anything
// strconv.ParseBool rejects is a validation error.
func QueryFlag(r *http.Request, key string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false, nil
	}
	on, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be true or false", key).
			WithDetails(map[string]string{key: "must be a boolean"})
	}
	return on, nil
}
