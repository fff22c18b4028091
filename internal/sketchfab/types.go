package sketchfab

// ModelSummary is the search-result projection returned to callers. It is
// derived from the provider's raw model entry with every missing optional
// field degraded to an empty string or empty map.
type ModelSummary struct {
	UID            string           `json:"uid"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	ViewerURL      string           `json:"viewerUrl"`
	EmbedURL       string           `json:"embedUrl"`
	ThumbnailURL   string           `json:"thumbnailUrl"`
	User           string           `json:"user"`
	IsDownloadable bool             `json:"isDownloadable"`
	Formats        map[string]int64 `json:"formats"`
}

// ModelDetail is the subset of the provider's model detail needed for
// download resolution.
type ModelDetail struct {
	UID            string `json:"uid"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ViewerURL      string `json:"viewerUrl"`
	IsDownloadable bool   `json:"isDownloadable"`
}

// DownloadLink is one entry of the provider's download-link response,
// keyed by format name (e.g. "gltf", "usdz", "source").
type DownloadLink struct {
	URL     string `json:"url"`
	Size    int64  `json:"size"`
	Expires int64  `json:"expires"`
}

// GltfStatus tags the outcome of ResolveGltfURL.
type GltfStatus int

const (
	// GltfOK means a direct gltf download URL was resolved.
	GltfOK GltfStatus = iota
	// GltfNotDownloadable means the model does not permit downloads.
	GltfNotDownloadable
	// GltfFormatUnavailable means the model is downloadable but offers
	// no gltf archive.
	GltfFormatUnavailable
)

// GltfResolution is the tagged result of ResolveGltfURL. The two failure
// variants are expected outcomes, not errors: the tool boundary renders
// each to its own payload shape.
type GltfResolution struct {
	Status    GltfStatus
	ModelID   string
	ModelName string

	// URL is set only for GltfOK.
	URL string

	// AvailableFormats lists the format keys the provider actually
	// offers, sorted. Set only for GltfFormatUnavailable.
	AvailableFormats []string
}

// DownloadResult describes a completed retrieval. Ownership of the files
// transfers to the caller.
type DownloadResult struct {
	// LocalPath is where the payload was written.
	LocalPath string `json:"local_path"`

	// IsArchive reports whether the payload was ZIP data, detected from
	// its leading bytes only.
	IsArchive bool `json:"is_archive"`

	// ExtractedDir is the directory the archive was unpacked into.
	// Empty whenever IsArchive is false.
	ExtractedDir string `json:"extracted_dir,omitempty"`

	// ExtractedEntries lists the archive entry names in the order the
	// archive reader returned them.
	ExtractedEntries []string `json:"extracted_entries,omitempty"`
}

// Raw provider response shapes. Every field is optional; decoding tolerates
// absence and toSummary applies the defaults.

type searchResponse struct {
	Results struct {
		Models []rawModel `json:"models"`
	} `json:"results"`
}

type rawModel struct {
	UID            string                 `json:"uid"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	ViewerURL      string                 `json:"viewerUrl"`
	EmbedURL       string                 `json:"embedUrl"`
	IsDownloadable bool                   `json:"isDownloadable"`
	Thumbnails     *rawThumbnails         `json:"thumbnails"`
	User           *rawUser               `json:"user"`
	Archives       map[string]*rawArchive `json:"archives"`
}

type rawThumbnails struct {
	Images []rawImage `json:"images"`
}

type rawImage struct {
	URL string `json:"url"`
}

type rawUser struct {
	Username string `json:"username"`
}

type rawArchive struct {
	Size int64 `json:"size"`
}

// toSummary projects a raw provider entry onto ModelSummary, defaulting
// every absent field.
func (m rawModel) toSummary() ModelSummary {
	summary := ModelSummary{
		UID:            m.UID,
		Name:           m.Name,
		Description:    m.Description,
		ViewerURL:      m.ViewerURL,
		EmbedURL:       m.EmbedURL,
		IsDownloadable: m.IsDownloadable,
		Formats:        make(map[string]int64),
	}

	if m.Thumbnails != nil && len(m.Thumbnails.Images) > 0 {
		summary.ThumbnailURL = m.Thumbnails.Images[0].URL
	}
	if m.User != nil {
		summary.User = m.User.Username
	}
	for name, archive := range m.Archives {
		if archive == nil {
			continue
		}
		summary.Formats[name] = archive.Size
	}

	return summary
}
