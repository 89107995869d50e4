package formatter

import "github.com/alexanderramin/attend/internal/domain"

// Directory resolves ids to display names. Reports render ids when no
// richer source is wired.
type Directory interface {
	UserName(groupID, userID string) string
	UserRole(groupID, userID string) string
	ChannelName(groupID, channelID string) string
}

// NoRole is shown when a user has no known role.
const NoRole = "—"

// IDDirectory renders raw ids.
type IDDirectory struct{}

func (IDDirectory) UserName(_, userID string) string { return userID }
func (IDDirectory) UserRole(_, _ string) string { return NoRole }
func (IDDirectory) ChannelName(_, channelID string) string { return channelID }

// MapDirectory looks names up in static maps and falls back to ids.
type MapDirectory struct {
	Users    map[string]string
	Roles    map[string]string
	Channels map[string]string
}

func (d MapDirectory) UserName(_, userID string) string {
	if n, ok := d.Users[userID]; ok && n != "" {
		return n
	}
	return userID
}

func (d MapDirectory) UserRole(_, userID string) string {
	if r, ok := d.Roles[userID]; ok && r != "" {
		return r
	}
	return NoRole
}

func (d MapDirectory) ChannelName(_, channelID string) string {
	if n, ok := d.Channels[channelID]; ok && n != "" {
		return n
	}
	return channelID
}

func directoryOrDefault(d Directory) Directory {
	if d == nil {
		return IDDirectory{}
	}
	return d
}

// channelLabel names a channel bucket. long selects the per-channel
// summary wording for the manual bucket.
func channelLabel(dir Directory, groupID, channelID string, long bool) string {
	if channelID == domain.ManualChannelKey {
		if long {
			return "Manual (checkin/checkout)"
		}
		return "Manual"
	}
	return dir.ChannelName(groupID, channelID)
}
