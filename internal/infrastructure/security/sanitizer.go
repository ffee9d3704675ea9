package security

import (
	"net/url"
	"strings"
)

const maskRune = '*'

// Query parameters that carry personal data and must never be logged verbatim.
var sensitiveParams = map[string]bool{
	"numero_afiliado": true,
}

// MaskAffiliateNumber hides all but the last two characters of an affiliate number.
// Numbers of two characters or fewer are fully masked.
func MaskAffiliateNumber(numero string) string {
	runes := []rune(numero)
	if len(runes) <= 2 {
		return strings.Repeat(string(maskRune), len(runes))
	}
	visible := 2
	for i := 0; i < len(runes)-visible; i++ {
		runes[i] = maskRune
	}
	return string(runes)
}

// SanitizeQuery renders query parameters for logging with sensitive values masked.
func SanitizeQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	sanitized := make(url.Values, len(values))
	for key, vals := range values {
		if !sensitiveParams[strings.ToLower(key)] {
			sanitized[key] = vals
			continue
		}
		masked := make([]string, len(vals))
		for i, v := range vals {
			masked[i] = MaskAffiliateNumber(v)
		}
		sanitized[key] = masked
	}
	// Encode escapes the mask character; unescape for readability.
	out, err := url.QueryUnescape(sanitized.Encode())
	if err != nil {
		return sanitized.Encode()
	}
	return out
}
