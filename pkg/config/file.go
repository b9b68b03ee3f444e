package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/numwiz/numwiz/pkg/utils/ptr"
)

var (
	defaultFileConfig = &RawFileConfig{
		HighlightMillis:        ptr.To(1500),
		ShowFacts:              ptr.To(true),
		ScientificUnlockBadges: ptr.To(5),
		// Empty means sessions are never reset automatically.
		ResetCron:          ptr.To(""),
		AllowNonRootAccess: ptr.To(false),
	}
)

var _ Config = &File{}

type File struct {
	c        *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	HighlightMillis        *int    `json:"highlightMillis,omitempty"`
	ShowFacts              *bool   `json:"showFacts,omitempty"`
	ScientificUnlockBadges *int    `json:"scientificUnlockBadges,omitempty"`
	ResetCron              *string `json:"resetCron,omitempty"`
	AllowNonRootAccess     *bool   `json:"allowNonRootAccess,omitempty"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	rawConfig := &RawFileConfig{
		HighlightMillis:        ptr.To(c.HighlightMillis()),
		ShowFacts:              ptr.To(c.ShowFacts()),
		ScientificUnlockBadges: ptr.To(c.ScientificUnlockBadges()),
		ResetCron:              ptr.To(c.ResetCron()),
		AllowNonRootAccess:     ptr.To(c.AllowNonRootAccess()),
	}

	return rawConfig, nil
}

// get reads one field under the read lock, falling back to the default.
func get[T any](f *File, field func(*RawFileConfig) *T) T {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if v := field(f.c); v != nil {
		return *v
	}
	return *field(defaultFileConfig)
}

func set[T any](f *File, field func(*RawFileConfig) **T, v T) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	*field(f.c) = &v
}

func (f *File) HighlightMillis() int {
	return get(f, func(c *RawFileConfig) *int { return c.HighlightMillis })
}

func (f *File) ShowFacts() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.ShowFacts })
}

func (f *File) ScientificUnlockBadges() int {
	return get(f, func(c *RawFileConfig) *int { return c.ScientificUnlockBadges })
}

func (f *File) ResetCron() string {
	return get(f, func(c *RawFileConfig) *string { return c.ResetCron })
}

func (f *File) AllowNonRootAccess() bool {
	return get(f, func(c *RawFileConfig) *bool { return c.AllowNonRootAccess })
}

func (f *File) SetHighlightMillis(i int) {
	if i < 0 {
		panic("highlight duration must not be negative")
	}
	set(f, func(c *RawFileConfig) **int { return &c.HighlightMillis }, i)
}

func (f *File) SetShowFacts(b bool) {
	set(f, func(c *RawFileConfig) **bool { return &c.ShowFacts }, b)
}

func (f *File) SetScientificUnlockBadges(i int) {
	if i < 1 {
		panic("at least one badge is required to unlock scientific mode")
	}
	set(f, func(c *RawFileConfig) **int { return &c.ScientificUnlockBadges }, i)
}

func (f *File) SetResetCron(s string) {
	set(f, func(c *RawFileConfig) **string { return &c.ResetCron }, s)
}

func (f *File) SetAllowNonRootAccess(b bool) {
	set(f, func(c *RawFileConfig) **bool { return &c.AllowNonRootAccess }, b)
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	return logrus.Fields{
		"highlightMillis":        f.HighlightMillis(),
		"showFacts":              f.ShowFacts(),
		"scientificUnlockBadges": f.ScientificUnlockBadges(),
		"resetCron":              f.ResetCron(),
		"allowNonRootAccess":     f.AllowNonRootAccess(),
	}
}
