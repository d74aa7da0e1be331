package streams

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

const imageSequenceDir = "image_sequence"

var ErrOutputDir = errors.New("output directory unusable")

// InitOutputDir creates dir and its image sequence folder and checks that
// both are writable.
func InitOutputDir(dir string) error {
	seqDir := ImageSequenceDir(dir)

	_, err := os.Stat(seqDir)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		logrus.WithFields(logrus.Fields{
			"function": "InitOutputDir",
			"dir":      seqDir,
		}).Info("Creating output directory")
		if err := os.MkdirAll(seqDir, os.FileMode(0744)); err != nil {
			return fmt.Errorf("%w: create %s: %v", ErrOutputDir, seqDir, err)
		}
	case os.IsPermission(err):
		return fmt.Errorf("%w: no read access to %s: %v", ErrOutputDir, seqDir, err)
	default:
		return fmt.Errorf("%w: stat %s: %v", ErrOutputDir, seqDir, err)
	}

	// test write permission
	probe, err := os.CreateTemp(seqDir, ".write-probe-*")
	if err != nil {
		return fmt.Errorf("%w: no write access to %s: %v", ErrOutputDir, seqDir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

func ImageSequenceDir(dir string) string {
	return filepath.Join(dir, imageSequenceDir)
}

func stillPath(dir string, index int) string {
	return filepath.Join(ImageSequenceDir(dir), fmt.Sprintf("output_image_%d.webp", index))
}
