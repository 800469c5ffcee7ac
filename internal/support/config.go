package support

import (
	"fmt"

	"github.com/reviewdesk/reviewkit/pkg/config"
	"github.com/reviewdesk/reviewkit/pkg/logging"
)

var logger = logging.Component("support")

// LoadMergedConfig overlays env on top of the values read from path. An
// empty path or a missing file contributes nothing.
func LoadMergedConfig(env config.Config, path string) (config.Config, error) {
	if path == "" {
		return config.MergeConfigs(env), nil
	}
	fileCfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	logger.Debugf("Loaded %d value(s) from %s", len(fileCfg), path)
	return config.MergeConfigs(env, fileCfg), nil
}
