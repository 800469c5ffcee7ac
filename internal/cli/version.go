package cli

import (
	"fmt"

	"github.com/reviewdesk/reviewkit/version"
)

func versionString() string {
	return fmt.Sprintf("keyring-tool %s", version.Version)
}
