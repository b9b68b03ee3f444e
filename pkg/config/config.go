package config

import "github.com/sirupsen/logrus"

type Config interface {
	HighlightMillis() int
	ShowFacts() bool
	ScientificUnlockBadges() int
	ResetCron() string
	AllowNonRootAccess() bool

	SetHighlightMillis(int)
	SetShowFacts(bool)
	SetScientificUnlockBadges(int)
	SetResetCron(string)
	SetAllowNonRootAccess(bool)

	LogrusFields() logrus.Fields

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
