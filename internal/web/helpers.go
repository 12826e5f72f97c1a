package web

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

func itoa(value int) string {
	return strconv.Itoa(value)
}

func i64toa(value int64) string {
	return strconv.FormatInt(value, 10)
}

func ftoa(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func esc(value string) string {
	return templ.EscapeString(value)
}

// GameURL is where a successful join navigates to.
func GameURL(tableID, userID, username string) string {
	query := url.Values{}
	query.Set("table_id", tableID)
	query.Set("user_id", userID)
	query.Set("username", username)
	return "/game?" + query.Encode()
}

func LobbyURL(userID, username string) string {
	query := url.Values{}
	query.Set("user_id", userID)
	query.Set("username", username)
	return "/?" + query.Encode()
}
