package catalog

// Submission is the complete upload record consumed exactly once by the
// publication client. Optional fields left empty are omitted from the posted
// form.
type Submission struct {
	// Category is the catalog section; 0 is Music.
	Category int
	Artist   string
	Title    string
	Year     string
	// ReleaseType holds one of the fixed enumerated codes.
	ReleaseType ReleaseType

	// Edition fields, all optional.
	RemasterYear      string
	RemasterTitle     string
	RemasterLabel     string
	RemasterCatalogue string

	Scene   bool
	Format  string
	Bitrate string
	Media   string

	Tags     string
	ImageURL string
	// AlbumDescription is the group body, typically the scraped tracklist.
	AlbumDescription string
	// ReleaseDescription is the per-torrent body describing this rip.
	ReleaseDescription string

	// GroupID attaches the upload to an existing torrent group when set.
	GroupID string
}
