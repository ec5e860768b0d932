package updater

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"
)

// writeArchive produces the release archive: a zip named after the new
// version, with the persisted index at its root and the overrides tree
// under the overrides/ prefix. Entries are written in sorted order with a
// fixed timestamp so identical inputs produce identical archives.
func writeArchive(outputDir, version, manifestPath, overridesDir string, ts time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", outputDir, err)
	}

	archivePath := filepath.Join(outputDir, version+".mrpack")
	out, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	// archive name -> source file on disk
	members := map[string]string{}
	if _, err := os.Stat(manifestPath); err != nil {
		return "", fmt.Errorf("missing index for archive: %w", err)
	}
	members[filepath.Base(manifestPath)] = manifestPath

	if _, err := os.Stat(overridesDir); err == nil {
		walkErr := filepath.Walk(overridesDir, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(overridesDir, p)
			if err != nil {
				return err
			}
			members[path.Join("overrides", filepath.ToSlash(rel))] = p
			return nil
		})
		if walkErr != nil {
			return "", fmt.Errorf("failed to walk overrides: %w", walkErr)
		}
	}

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := addArchiveMember(zw, name, members[name], ts); err != nil {
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to finish archive: %w", err)
	}
	return archivePath, nil
}

func addArchiveMember(zw *zip.Writer, name, source string, ts time.Time) error {
	header := &zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: ts,
	}
	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}

	f, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}
	return nil
}
