package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/sidkik/synccode/pkg/errors"
)

// parseConfigErrTemplate is shown when the synccode user config isn't valid
// YAML or doesn't match the User schema. The parser's message has no line
// numbers, so it's passed through as is.
const parseConfigErrTemplate = "The synccode user config %q could not be parsed.\n" +
	"It may only set `version`, `user`, `path` and `downloadCommand`, " +
	"and each of them must be a string.\n" +
	"Fix the file, or run `synccode config` to rewrite it.\n\n" +
	"Parser error: %s"

type versionedConfig interface {
	getVersion() string
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The synccode user config %q has version %q, but this "+
		"release of synccode only reads version %q.\n"+
		"Run `synccode config` to rewrite it.", err.path, err.actual, err.exp)
}

// parseConfig decodes the YAML file at `path` into `cfg`. Unknown fields are
// rejected, but only after the version matched `expVersion`.
func parseConfig(path string, cfg versionedConfig, expVersion string) error {
	raw, err := afero.ReadFile(fs, path)
	switch {
	case os.IsNotExist(err):
		return errors.FileNotFound{Path: path}
	case err != nil:
		return errors.WithContext(err, "read file")
	}

	if err := decodeConfig(path, raw, cfg, false); err != nil {
		return err
	}
	if version := cfg.getVersion(); version != expVersion {
		return incompatibleVersionError{path: path, exp: expVersion, actual: version}
	}
	return decodeConfig(path, raw, cfg, true)
}

func decodeConfig(path string, raw []byte, cfg versionedConfig, strict bool) error {
	var err error
	if strict {
		err = yaml.UnmarshalStrict(raw, cfg, yaml.DisallowUnknownFields)
	} else {
		err = yaml.Unmarshal(raw, cfg)
	}

	if err != nil {
		return errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}
	return nil
}
