package cmd

import (
	"io"
	"os"
	"path/filepath"

	wmerrors "github.com/wexinc/workmarks/internal/errors"
	"github.com/wexinc/workmarks/internal/logging"
)

const (
	stdinPath  = "-"
	stdoutPath = "-"
)

// writeOutput writes data to path, or to stdout when path is "-".
// Files are written atomically (temp file in the same directory, then
// rename), so a failed run never leaves a partial bookmarks file behind.
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == stdoutPath {
		if _, err := stdout.Write(data); err != nil {
			return wmerrors.OutputNotWritable("stdout", err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return wmerrors.OutputNotWritable(path, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return wmerrors.OutputNotWritable(path, err)
	}

	logging.Debug("wrote bookmarks file", "path", path, "bytes", len(data))
	return nil
}
