package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// LinkState correlates an OAuth completion back to the user who initiated it
// and the city they had selected at that moment. It rides through the
// handshake's opaque "state" query parameter as "<chat_id>:<city_key>".
type LinkState struct {
	ChatID  int64
	CityKey string
}

// Encode serializes the state for the authorization URL.
func (s LinkState) Encode() string {
	return strconv.FormatInt(s.ChatID, 10) + ":" + s.CityKey
}

// ParseLinkState decodes a state string produced by Encode.
func ParseLinkState(raw string) (LinkState, error) {
	id, key, ok := strings.Cut(raw, ":")
	if !ok {
		return LinkState{}, fmt.Errorf("malformed state %q", raw)
	}
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return LinkState{}, fmt.Errorf("malformed state %q: %w", raw, err)
	}
	return LinkState{ChatID: chatID, CityKey: key}, nil
}
