// Package report renders store contents into the plain-text export formats
// the admin commands send as file attachments. Rendering is a pure
// transformation: same records in, byte-identical text out.
package report

import (
	"errors"
	"strconv"
	"strings"

	"github.com/SL-MGx03/userbase/internal/model"
)

// ErrNoUsers signals an empty store. Callers reply with a "no users yet"
// notice instead of attaching an empty file.
var ErrNoUsers = errors.New("no users in store")

// IDList renders all user IDs as a comma-separated line, e.g. "111, 222".
func IDList(users []model.User) (string, error) {
	if len(users) == 0 {
		return "", ErrNoUsers
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = strconv.FormatInt(u.TelegramID, 10)
	}
	return strings.Join(ids, ", "), nil
}

// Full renders one line per user in the form
// "<first last>, @username, <id>" with "N/A" standing in for a missing
// username. The record count is returned alongside the text so callers can
// caption the attachment without re-scanning.
func Full(users []model.User) (string, int, error) {
	if len(users) == 0 {
		return "", 0, ErrNoUsers
	}

	lines := make([]string, len(users))
	for i, u := range users {
		fullName := strings.TrimSpace(u.FirstName + " " + u.LastName)
		username := "N/A"
		if u.Username != "" {
			username = "@" + u.Username
		}
		lines[i] = fullName + ", " + username + ", " + strconv.FormatInt(u.TelegramID, 10)
	}
	return strings.Join(lines, "\n"), len(users), nil
}
