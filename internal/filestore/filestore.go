// Package filestore places document attachments: small files are embedded
// in the database, large ones land in a user-linked workspace directory.
package filestore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"orga/internal/domain"
)

// DefaultEmbedLimitMB is the threshold below which files are embedded.
const DefaultEmbedLimitMB = 20

// ErrNotLinked is returned when a workspace operation runs without a
// linked directory.
var ErrNotLinked = errors.New("workspace not linked")

// Workspace is the capability to read and write the linked attachment
// directory. The zero value is unlinked; callers receive it explicitly
// rather than reaching for shared state.
type Workspace struct {
	Dir string
}

// Link returns a workspace rooted at dir, creating it if missing.
func Link(dir string) (Workspace, error) {
	if dir == "" {
		return Workspace{}, ErrNotLinked
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Workspace{}, fmt.Errorf("link workspace: %w", err)
	}
	return Workspace{Dir: dir}, nil
}

func (w Workspace) Linked() bool {
	return w.Dir != ""
}

// Save writes data as "<docID>-<fileName>" and returns that name.
func (w Workspace) Save(docID, fileName string, data []byte) (string, error) {
	if !w.Linked() {
		return "", ErrNotLinked
	}
	name := docID + "-" + fileName
	if err := os.WriteFile(filepath.Join(w.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save to workspace: %w", err)
	}
	return name, nil
}

func (w Workspace) Load(fileName string) ([]byte, error) {
	if !w.Linked() {
		return nil, ErrNotLinked
	}
	data, err := os.ReadFile(filepath.Join(w.Dir, fileName))
	if err != nil {
		return nil, fmt.Errorf("load from workspace: %w", err)
	}
	return data, nil
}

func (w Workspace) Remove(fileName string) error {
	if !w.Linked() {
		return ErrNotLinked
	}
	err := os.Remove(filepath.Join(w.Dir, fileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove from workspace: %w", err)
	}
	return nil
}

// Mode selects the storage backend for a file of the given size. A zero
// limit embeds nothing; negative values fall back to the default threshold.
func Mode(sizeBytes int64, limitMB float64) string {
	if limitMB < 0 {
		limitMB = DefaultEmbedLimitMB
	}
	if float64(sizeBytes)/(1024*1024) < limitMB {
		return domain.StorageEmbedded
	}
	return domain.StorageWorkspace
}

// Checksum returns the hex sha256 of data, stored alongside embedded blobs.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
