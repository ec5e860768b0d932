package updater

import (
	"path/filepath"

	"modpack-manager/feature/manifest"
)

// Config holds the working tree layout for the packaging workflow.
type Config struct {
	// WorkDir is the pack working tree; the index and mod files live here.
	WorkDir string `mapstructure:"work_dir" default:"current"`
	// ModsDir is where fetched artifacts land, relative to WorkDir.
	ModsDir string `mapstructure:"mods_dir" default:"mods"`
	// BackupsDir receives timestamped copies of the working tree.
	BackupsDir string `mapstructure:"backups_dir" default:"backups"`
	// OverridesDir is packed verbatim into the archive under overrides/.
	OverridesDir string `mapstructure:"overrides_dir" default:"overrides"`
	// LogsDir receives the per-run update logs.
	LogsDir string `mapstructure:"logs_dir" default:"logs"`
	// OutputDir is where built archives are written.
	OutputDir string `mapstructure:"output_dir" default:"."`
}

// ManifestPath is the canonical location of the persisted index.
func (c Config) ManifestPath() string {
	return filepath.Join(c.WorkDir, manifest.IndexFileName)
}

// ModsPath is the absolute mods directory.
func (c Config) ModsPath() string {
	return filepath.Join(c.WorkDir, c.ModsDir)
}
