package localfs

import "os"

// Artifacts answers existence checks for training output directories.
type Artifacts struct{}

func (Artifacts) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
