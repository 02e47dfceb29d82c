package synccode

import (
	"os"

	"github.com/spf13/afero"
)

// fs is the local filesystem. It's overridden by afero.NewMemMapFs() in the
// tests.
var fs = afero.NewOsFs()

// osExecutable is mocked in the tests.
var osExecutable = os.Executable
