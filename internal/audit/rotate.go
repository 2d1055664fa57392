package audit

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/shellgate/shellgate/internal/constants"
	"github.com/shellgate/shellgate/internal/logger"
)

// rotateTimestamp names rotated archives; second precision is enough since
// rotation happens at most once per hook invocation.
const rotateTimestamp = "20060102T150405Z"

// rotateIfNeeded archives the audit log to a timestamped gzip file and
// removes the original once it exceeds maxBytes. Caller holds mu.
func rotateIfNeeded(path string, maxBytes int64) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() < maxBytes {
		return nil
	}

	archive := fmt.Sprintf("%s.%s.gz", path, time.Now().UTC().Format(rotateTimestamp))
	if err := compressFile(path, archive); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	logger.Debug("rotated audit log", "archive", archive, "size", info.Size())
	return nil
}

// compressFile gzips src into dst.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, constants.FileMode)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, in); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
