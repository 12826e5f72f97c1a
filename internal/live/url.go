package live

import (
	"net/url"
	"strings"
)

// Location is the page (or backend) origin a socket URL is derived from.
// Protocol keeps the trailing colon, as in "https:".
type Location struct {
	Protocol string
	Host     string
}

func LocationFromURL(u *url.URL) Location {
	if u == nil {
		return Location{}
	}
	return Location{Protocol: u.Scheme + ":", Host: u.Host}
}

// BuildWebSocketURL returns {ws|wss}://{host}/ws/game/{tableId}?user_id=..&username=..
// The scheme is wss only when the page was served over https.
func BuildWebSocketURL(tableID, userID, username string, loc Location) string {
	scheme := "ws"
	if strings.EqualFold(strings.TrimSuffix(loc.Protocol, ":"), "https") {
		scheme = "wss"
	}
	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("username", username)
	return scheme + "://" + loc.Host + "/ws/game/" + url.PathEscape(tableID) + "?" + query.Encode()
}
