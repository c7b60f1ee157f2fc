package catalog

import "strings"

// ReleaseType is the catalog's enumerated release classification. The codes
// are the Gazelle release type identifiers and must not be invented outside
// this table.
type ReleaseType int

const (
	Album            ReleaseType = 1
	Soundtrack       ReleaseType = 3
	EP               ReleaseType = 5
	Anthology        ReleaseType = 6
	Compilation      ReleaseType = 7
	Single           ReleaseType = 9
	LiveAlbum        ReleaseType = 11
	Remix            ReleaseType = 13
	Bootleg          ReleaseType = 14
	Interview        ReleaseType = 15
	Mixtape          ReleaseType = 16
	Demo             ReleaseType = 17
	ConcertRecording ReleaseType = 18
	DJMix            ReleaseType = 19
	Unknown          ReleaseType = 21
)

var releaseTypeLabels = map[ReleaseType]string{
	Album:            "Album",
	Soundtrack:       "Soundtrack",
	EP:               "EP",
	Anthology:        "Anthology",
	Compilation:      "Compilation",
	Single:           "Single",
	LiveAlbum:        "Live album",
	Remix:            "Remix",
	Bootleg:          "Bootleg",
	Interview:        "Interview",
	Mixtape:          "Mixtape",
	Demo:             "Demo",
	ConcertRecording: "Concert Recording",
	DJMix:            "DJ Mix",
	Unknown:          "Unknown",
}

// ReleaseTypes lists every valid release type in menu order.
var ReleaseTypes = []ReleaseType{
	Album, Soundtrack, EP, Anthology, Compilation, Single, LiveAlbum,
	Remix, Bootleg, Interview, Mixtape, Demo, ConcertRecording, DJMix, Unknown,
}

func (rt ReleaseType) String() string {
	if label, ok := releaseTypeLabels[rt]; ok {
		return label
	}
	return "Unknown"
}

// Valid reports whether rt is one of the fixed codes.
func (rt ReleaseType) Valid() bool {
	_, ok := releaseTypeLabels[rt]
	return ok
}

// GuessReleaseType applies the advisory classification heuristic: title
// substrings first, then track count. A track count of zero means the count
// could not be determined and defaults to Album. The result is always
// overridable by the user.
func GuessReleaseType(albumTitle string, trackCount int) ReleaseType {
	title := strings.ToLower(albumTitle)
	switch {
	case strings.Contains(title, "remix"):
		return Remix
	case strings.Contains(title, "live"):
		return LiveAlbum
	case strings.Contains(title, "soundtrack"), strings.Contains(title, "ost"):
		return Soundtrack
	case strings.Contains(title, "compilation"),
		strings.Contains(title, "best of"),
		strings.Contains(title, "greatest hits"):
		return Compilation
	}

	switch {
	case trackCount <= 0:
		return Album
	case trackCount <= 3:
		return Single
	case trackCount <= 6:
		return EP
	default:
		return Album
	}
}
