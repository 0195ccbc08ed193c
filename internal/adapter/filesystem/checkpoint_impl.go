package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CheckpointRepoImpl keeps the checkpoint as a one-line text file.
type CheckpointRepoImpl struct {
	path string
}

// NewCheckpointRepo creates a new instance of CheckpointRepoImpl.
func NewCheckpointRepo(path string) *CheckpointRepoImpl {
	return &CheckpointRepoImpl{path: path}
}

// Load returns ok=false when the file is absent or blank.
func (r *CheckpointRepoImpl) Load(_ context.Context) (int, bool, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read checkpoint %s: %w", r.path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return 0, false, nil
	}
	id, err := strconv.Atoi(text)
	if err != nil {
		return 0, false, fmt.Errorf("checkpoint %s holds %q: %w", r.path, text, err)
	}
	return id, true, nil
}

// Save overwrites the checkpoint file atomically.
func (r *CheckpointRepoImpl) Save(_ context.Context, filmID int) error {
	err := writeFileAtomic(r.path, func(f *os.File) error {
		_, err := f.WriteString(strconv.Itoa(filmID) + "\n")
		return err
	})
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", r.path, err)
	}
	return nil
}
