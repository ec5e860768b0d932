package catalog

// Hashes holds the digests the catalog reports for a release file.
type Hashes struct {
	SHA1   string `json:"sha1"`
	SHA512 string `json:"sha512"`
}

// ReleaseFile is one downloadable artifact of a release.
type ReleaseFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
	Hashes   Hashes `json:"hashes"`
}

// Release is the upstream-reported metadata for one version of a project.
type Release struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"project_id"`
	VersionNumber string   `json:"version_number"`
	Loaders       []string `json:"loaders"`
	GameVersions  []string `json:"game_versions"`
	Files         []ReleaseFile `json:"files"`
}

// PrimaryFile returns the file flagged primary, or the first file when none
// is flagged. Nil when the release has no files.
func (r *Release) PrimaryFile() *ReleaseFile {
	for i := range r.Files {
		if r.Files[i].Primary {
			return &r.Files[i]
		}
	}
	if len(r.Files) > 0 {
		return &r.Files[0]
	}
	return nil
}

// Supports reports whether the release is compatible with the given game
// version and loader.
func (r *Release) Supports(gameVersion, loader string) bool {
	return contains(r.Loaders, loader) && contains(r.GameVersions, gameVersion)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
