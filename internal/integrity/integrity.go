// Package integrity fingerprints the loaded model artifacts and reports when
// the files on disk no longer match what the process is serving.
package integrity

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
)

// Fingerprint returns the hex BLAKE2b-256 digest of a file.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create hash: %w", err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Drift describes an artifact whose file no longer matches the loaded copy.
type Drift struct {
	Path     string
	Expected string
	Actual   string // empty when the file could not be read
	Err      error
}

// Checker holds the fingerprints taken at load time.
type Checker struct {
	log       *logrus.Logger
	paths     []string
	loaded    map[string]string
	mu        sync.Mutex
	reported  map[string]string
	scheduler *cron.Cron
}

// NewChecker fingerprints every path. It fails if any artifact is unreadable.
func NewChecker(log *logrus.Logger, paths ...string) (*Checker, error) {
	c := &Checker{
		log:      log,
		paths:    paths,
		loaded:   make(map[string]string, len(paths)),
		reported: make(map[string]string),
	}
	for _, p := range paths {
		sum, err := Fingerprint(p)
		if err != nil {
			return nil, err
		}
		c.loaded[p] = sum
		log.WithFields(logrus.Fields{"artifact": p, "blake2b": sum}).Info("Artifact fingerprinted")
	}
	return c, nil
}

// Loaded returns the fingerprint recorded for path at load time.
func (c *Checker) Loaded(path string) string {
	return c.loaded[path]
}

// Check re-fingerprints every artifact and returns those that changed.
func (c *Checker) Check() []Drift {
	var drifts []Drift
	for _, p := range c.paths {
		sum, err := Fingerprint(p)
		if err == nil && sum == c.loaded[p] {
			continue
		}
		drifts = append(drifts, Drift{Path: p, Expected: c.loaded[p], Actual: sum, Err: err})
	}
	return drifts
}

// run logs each drift once per distinct on-disk state.
func (c *Checker) run() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.Check() {
		state := d.Actual
		if d.Err != nil {
			state = "unreadable"
		}
		if c.reported[d.Path] == state {
			continue
		}
		c.reported[d.Path] = state

		entry := c.log.WithFields(logrus.Fields{
			"artifact": d.Path,
			"loaded":   d.Expected,
			"on_disk":  d.Actual,
		})
		if d.Err != nil {
			entry = entry.WithError(d.Err)
		}
		entry.Warn("Artifact on disk differs from the loaded copy; restart to serve it")
	}
}

// Start schedules periodic checks using a cron spec such as "@every 5m".
func (c *Checker) Start(spec string) error {
	c.scheduler = cron.New()
	if _, err := c.scheduler.AddFunc(spec, c.run); err != nil {
		return fmt.Errorf("invalid artifact check schedule %q: %w", spec, err)
	}
	c.scheduler.Start()
	c.log.Infof("Artifact integrity checks scheduled: %s", spec)
	return nil
}

// Stop halts the scheduler and waits for a running check to finish.
func (c *Checker) Stop() {
	if c.scheduler == nil {
		return
	}
	<-c.scheduler.Stop().Done()
}
