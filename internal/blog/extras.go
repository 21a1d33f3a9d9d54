package blog

import (
	"io"
	"os"
	"path/filepath"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
)

// CopyExtras copies the extras directory src into dst verbatim and returns the
// number of files copied. A missing src is not an error.
func CopyExtras(src, dst string) (int, error) {
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, extrasError(err, src)
	}
	if !info.IsDir() {
		return 0, ferrors.FileSystemError("extras path is not a directory").
			WithContext("path", src).
			Build()
	}
	return copyDir(src, dst)
}

func copyDir(src, dst string) (int, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return 0, extrasError(err, src)
	}
	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return 0, extrasError(err, dst)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return 0, extrasError(err, src)
	}

	copied := 0
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			n, err := copyDir(srcPath, dstPath)
			copied += n
			if err != nil {
				return copied, err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return copied, extrasError(err, srcPath)
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	info, err := srcFile.Stat()
	if err != nil {
		return err
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return err
	}
	return dstFile.Close()
}

func extrasError(err error, path string) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to copy blog extras").
		WithContext("path", path).
		Build()
}
