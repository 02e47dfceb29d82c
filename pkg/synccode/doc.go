// Package synccode keeps a local directory in sync with repositories that
// were uploaded to an object store.
//
// Every uploaded repository has a marker object at
// `<prefix>/<user>/<repo>/_synccode_marker`. The uploader rewrites the marker
// whenever the repository changes, so the Monitor only needs to watch the
// markers to decide which repositories to download. Downloading itself is
// done by an external command (see Downloader).
//
// The set of repositories is discovered once, when the Monitor is created.
// Repositories uploaded afterwards are only picked up by a new Monitor.
package synccode

const (
	// MarkerName is the name of the marker object of each repository, both
	// remotely and in the downloaded copy.
	MarkerName = "_synccode_marker"

	// UploadedConfigName is the name of the uploader's config object, stored
	// directly under the user's prefix.
	UploadedConfigName = "_config"

	// UploaderConfigFile is where the uploader's config is copied to in the
	// local target path, so that scripts can read it without fetching it.
	UploaderConfigFile = "_uploader_config"

	// SubPathsFile lists, one per line, the directories of a repository that
	// should be added to the search path.
	SubPathsFile = ".synccode_sub_paths"
)
