package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/sidkik/synccode/pkg/errors"
)

// LocalConfigFile is the name of the config file at the root of the local
// sync directory.
const LocalConfigFile = "_config"

// Backends supported by the `backend` key.
const (
	BackendGCS   = "gcs"
	BackendS3    = "s3"
	BackendMinio = "minio"
	BackendLocal = "local"
)

// SyncCode is the contents of the local `_config` file, which says where the
// uploaded repositories live.
type SyncCode struct {
	// Bucket and Prefix are required.
	Bucket string
	Prefix string

	// Backend selects the object store. Defaults to BackendGCS.
	Backend string

	// Endpoint is the server for the minio backend, an optional custom
	// endpoint for the s3 backend, and the root directory for the local
	// backend.
	Endpoint string
	Region   string
	Insecure bool
}

// ParseSyncCode parses the `_config` file in `localTargetPath`.
func ParseSyncCode(localTargetPath string) (SyncCode, error) {
	return ReadSyncCode(fs, localTargetPath)
}

// ReadSyncCode parses the `_config` file in `localTargetPath` from `afs`. The
// file contains one `key=value` pair per line. Blank lines and unknown keys
// are ignored, and later lines override earlier ones. A required key with an
// empty value is reported as missing.
func ReadSyncCode(afs afero.Fs, localTargetPath string) (SyncCode, error) {
	path := filepath.Join(localTargetPath, LocalConfigFile)
	contents, err := afero.ReadFile(afs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return SyncCode{}, errors.FileNotFound{Path: path}
		}
		return SyncCode{}, errors.WithContext(err, "read")
	}

	cfg := SyncCode{Backend: BackendGCS}
	for _, line := range strings.Split(string(contents), "\n") {
		line = strings.TrimSuffix(line, "\r")
		kv := strings.SplitN(line, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key, value := kv[0], kv[1]
		switch key {
		case "bucket":
			cfg.Bucket = value
		case "prefix":
			cfg.Prefix = value
		case "backend":
			cfg.Backend = value
		case "endpoint":
			cfg.Endpoint = value
		case "region":
			cfg.Region = value
		case "insecure":
			cfg.Insecure, err = strconv.ParseBool(value)
			if err != nil {
				return SyncCode{}, errors.WithContext(err, "parse insecure")
			}
		}
	}

	if cfg.Bucket == "" {
		return SyncCode{}, errors.MissingFieldError{Field: "bucket"}
	}
	if cfg.Prefix == "" {
		return SyncCode{}, errors.MissingFieldError{Field: "prefix"}
	}

	switch cfg.Backend {
	case BackendGCS, BackendS3, BackendMinio, BackendLocal:
	default:
		return SyncCode{}, errors.Newf("unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

// WriteSyncCode writes `cfg` to the `_config` file in `localTargetPath`,
// creating the directory if needed.
func WriteSyncCode(localTargetPath string, cfg SyncCode) error {
	if err := fs.MkdirAll(localTargetPath, 0755); err != nil {
		return errors.WithContext(err, "create directory")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "bucket=%s\n", cfg.Bucket)
	fmt.Fprintf(&sb, "prefix=%s\n", cfg.Prefix)
	if cfg.Backend != "" && cfg.Backend != BackendGCS {
		fmt.Fprintf(&sb, "backend=%s\n", cfg.Backend)
	}
	if cfg.Endpoint != "" {
		fmt.Fprintf(&sb, "endpoint=%s\n", cfg.Endpoint)
	}
	if cfg.Region != "" {
		fmt.Fprintf(&sb, "region=%s\n", cfg.Region)
	}
	if cfg.Insecure {
		fmt.Fprintf(&sb, "insecure=true\n")
	}

	path := filepath.Join(localTargetPath, LocalConfigFile)
	if err := afero.WriteFile(fs, path, []byte(sb.String()), 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}
