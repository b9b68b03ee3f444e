package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Uninstall stops the service and removes its unit file.
func Uninstall() error {
	logrus.Infof("stopping numwiz daemon")

	if err := systemctl("disable", "--now", unitName); err != nil {
		// The unit may never have been loaded; keep removing the file.
		logrus.WithError(err).Warn("failed to disable service")
	}

	dir, err := unitDir()
	if err != nil {
		return fmt.Errorf("failed to find systemd user unit directory: %w", err)
	}
	unitPath := filepath.Join(dir, unitName)

	logrus.Infof("removing %s", unitPath)
	err = os.Remove(unitPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", unitPath, err)
	}

	return systemctl("daemon-reload")
}
