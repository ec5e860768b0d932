package utils

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileNameFromURL extracts the file name from a download URL. Percent
// escapes are decoded so "Some%20Mod.jar" becomes "Some Mod.jar".
func FileNameFromURL(rawURL string) string {
	segments := strings.Split(rawURL, "/")
	name := segments[len(segments)-1]
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	return name
}

// RelativePath converts a path inside the working tree to the slash
// separated form stored in the manifest (e.g. "mods/file.jar").
func RelativePath(path, baseDir string) string {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

// CopyTree recursively copies the directory tree rooted at src to dst.
// dst must not exist yet. Symlinks are not followed.
func CopyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}
