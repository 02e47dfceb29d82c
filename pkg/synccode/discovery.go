package synccode

import (
	"context"
	"strings"

	"github.com/sidkik/synccode/pkg/errors"
	"github.com/sidkik/synccode/pkg/objstore"
)

// DiscoverRepos returns the repositories uploaded by `user`, in the order
// the object store lists their markers.
//
// This lists every file of every repository, so it gets slower as the
// user's namespace grows.
func DiscoverRepos(ctx context.Context, client objstore.Client, prefix, user string) ([]string, error) {
	userPrefix := userKeyPrefix(prefix, user)
	objects, err := client.List(ctx, userPrefix)
	if err != nil {
		return nil, errors.WithContext(err, "list objects")
	}

	var repos []string
	for _, obj := range objects {
		if !strings.HasPrefix(obj.Key, userPrefix) {
			continue
		}

		// Only markers directly inside a repository count. Deeper markers
		// belong to files within a repository.
		subKey := strings.TrimPrefix(obj.Key, userPrefix)
		parts := strings.Split(subKey, "/")
		if len(parts) == 2 && parts[0] != "" && parts[1] == MarkerName {
			repos = append(repos, parts[0])
		}
	}
	return repos, nil
}

func userKeyPrefix(prefix, user string) string {
	return prefix + "/" + user + "/"
}

func markerKey(prefix, user, repo string) string {
	return userKeyPrefix(prefix, user) + repo + "/" + MarkerName
}

func uploadedConfigKey(prefix, user string) string {
	return userKeyPrefix(prefix, user) + UploadedConfigName
}
