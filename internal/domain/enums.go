package domain

type SessionSource string

const (
	SourceAuto   SessionSource = "auto"
	SourceManual SessionSource = "manual"
)

// ValidSessionSources is the canonical set of accepted session source strings.
var ValidSessionSources = map[string]bool{
	"auto": true, "manual": true,
}

// ManualChannelKey is the channel bucket for sessions not tied to a channel.
const ManualChannelKey = "manual"
