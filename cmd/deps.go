package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"modpack-manager/core/config"
	"modpack-manager/core/database"
	"modpack-manager/core/fetch"
	"modpack-manager/core/logger"
	"modpack-manager/feature/catalog"
	"modpack-manager/feature/manifest"
	"modpack-manager/feature/versions"

	"go.uber.org/zap"
)

// runtime bundles the collaborators every pack command needs.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *versions.Store
	catalog catalog.Client
	fetcher fetch.Fetcher
}

// newRuntime loads configuration and wires the shared collaborators.
func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to version cache: %w", err)
	}
	store, err := versions.NewStore(db)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:     cfg,
		log:     l,
		store:   store,
		catalog: catalog.NewHTTPClient(cfg.Catalog),
		fetcher: fetch.NewHTTPFetcher(cfg.Fetch, nil),
	}, nil
}

// loadManifest reads the pack index from the working tree.
func (r *runtime) loadManifest() (*manifest.Manifest, error) {
	path := r.cfg.Pack.ManifestPath()
	m, err := manifest.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load pack index %s: %w", path, err)
	}
	return m, nil
}

// overridesNonEmpty reports whether the overrides directory has content that
// the next archive would pack verbatim.
func (r *runtime) overridesNonEmpty() bool {
	entries, err := os.ReadDir(r.cfg.Pack.OverridesDir)
	return err == nil && len(entries) > 0
}

// confirmOverrides prompts the user to acknowledge a non-empty overrides
// directory, or auto-confirms via the --yes flag.
func confirmOverrides(autoConfirm bool, dir string) bool {
	if autoConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Printf("\n⚠️  The overrides directory %s is not empty and will be packed verbatim.\nType 'yes' to continue: ", dir)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
