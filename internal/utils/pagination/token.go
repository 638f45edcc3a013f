package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeCursor creates a base64 token from a row's creation time and ID.
// Listing endpoints use (created_at, id) keyset pagination so that pages stay
// stable while new rows arrive.
func EncodeCursor(createdAt time.Time, id string) string {
	tokenStr := fmt.Sprintf("%s|%s", createdAt.Format(timeFormat), id)
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeCursor parses a token produced by EncodeCursor.
func DecodeCursor(token string) (time.Time, string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (split)")
	}
	createdAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("invalid pagination token format (time parse): %w", err)
	}
	return createdAt, parts[1], nil
}
