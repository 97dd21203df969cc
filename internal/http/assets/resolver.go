// Package assets maps logical static asset names to their fingerprinted paths.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
)

// StaticPrefix is the URL prefix static assets are served under.
const StaticPrefix = "/static/"

// AssetResolver resolves logical asset names via a manifest.json of
// logical -> hashed filename pairs. A missing manifest is not an error;
// names then resolve to themselves.
type AssetResolver struct {
	mu           sync.RWMutex
	fsys         fs.FS
	manifestPath string
	manifest     map[string]string
	logger       *slog.Logger
}

// NewAssetResolverFromFS reads manifestPath from fsys.
func NewAssetResolverFromFS(fsys fs.FS, manifestPath string) (*AssetResolver, error) {
	if fsys == nil {
		return nil, errors.New("asset filesystem is required")
	}
	ar := &AssetResolver{
		fsys:         fsys,
		manifestPath: manifestPath,
		manifest:     map[string]string{},
	}
	return ar, ar.Reload()
}

// Reload re-reads the manifest.
func (ar *AssetResolver) Reload() error {
	data, err := fs.ReadFile(ar.fsys, ar.manifestPath)
	if errors.Is(err, fs.ErrNotExist) {
		ar.set(map[string]string{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("read asset manifest: %w", err)
	}

	manifest := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &manifest); err != nil {
			return fmt.Errorf("parse asset manifest %s: %w", ar.manifestPath, err)
		}
	}
	ar.set(manifest)
	return nil
}

func (ar *AssetResolver) set(m map[string]string) {
	ar.mu.Lock()
	ar.manifest = m
	ar.mu.Unlock()
}

// Resolve returns the served path for logicalName.
func (ar *AssetResolver) Resolve(logicalName string) string {
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	if hashed, ok := ar.manifest[logicalName]; ok {
		return StaticPrefix + hashed
	}
	return StaticPrefix + logicalName
}

// SetLogger sets the logger used for reload failures.
func (ar *AssetResolver) SetLogger(logger *slog.Logger) {
	ar.mu.Lock()
	defer ar.mu.Unlock()
	ar.logger = logger
}

func (ar *AssetResolver) loggerOrDefault() *slog.Logger {
	ar.mu.RLock()
	defer ar.mu.RUnlock()
	if ar.logger != nil {
		return ar.logger
	}
	return slog.Default()
}

// ResolveAsset resolves logicalName with an optional resolver. In dev mode the
// manifest is re-read first so rebuilt assets are picked up without a restart.
func ResolveAsset(resolver *AssetResolver, logicalName string, devMode bool) string {
	if resolver == nil {
		return StaticPrefix + logicalName
	}
	if devMode {
		if err := resolver.Reload(); err != nil {
			resolver.loggerOrDefault().Error("failed to reload asset manifest",
				slog.String("manifest", resolver.manifestPath),
				slog.Any("error", err),
			)
		}
	}
	return resolver.Resolve(logicalName)
}
