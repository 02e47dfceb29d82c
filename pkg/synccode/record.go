package synccode

import "sort"

// SyncRecord tracks the marker revision that was observed right after each
// repository was last downloaded.
type SyncRecord map[string]string

// NewSyncRecord creates an empty SyncRecord.
func NewSyncRecord() SyncRecord {
	return SyncRecord{}
}

// Synced updates the record to reflect that `repo` was downloaded while its
// marker was at `revision`.
func (record SyncRecord) Synced(repo, revision string) {
	record[repo] = revision
}

// Revision returns the recorded revision of `repo`, if it was ever
// downloaded by this process.
func (record SyncRecord) Revision(repo string) (string, bool) {
	revision, ok := record[repo]
	return revision, ok
}

// Repos returns the repositories that have been downloaded, sorted by name.
func (record SyncRecord) Repos() (repos []string) {
	for repo := range record {
		repos = append(repos, repo)
	}
	sort.Strings(repos)
	return repos
}
