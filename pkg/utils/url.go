package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
)

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.New()
	h.Write([]byte(rawURL))
	return hex.EncodeToString(h.Sum(nil))
}

// ToAbsoluteURL converts a relative URL to an absolute URL given a base URL.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(relURL).String(), nil
}

// ReviewPageURL fills the {id} and {page} placeholders of a review URL template.
func ReviewPageURL(template string, filmID, page int) string {
	return strings.NewReplacer(
		"{id}", strconv.Itoa(filmID),
		"{page}", strconv.Itoa(page),
	).Replace(template)
}
