package gocatorlog

import (
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// GetDataFolder resolves the output folder for a capture run, falling
// back to defaultDataFolder, and makes sure it exists.
func GetDataFolder(dataFolder, defaultDataFolder string, logger golog.Logger) (string, error) {
	if dataFolder == "" {
		logger.Debugf("using default data folder '%s'", defaultDataFolder)
		dataFolder = defaultDataFolder
	} else {
		logger.Debugf("using user defined data folder %s", dataFolder)
	}

	if err := os.MkdirAll(dataFolder, os.ModePerm); err != nil {
		return "", errors.Wrapf(err, "can not create a new directory named: %s", dataFolder)
	}
	return dataFolder, nil
}
