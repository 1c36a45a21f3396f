package config

import (
	"path/filepath"
)

// AppName names the accmeta directories and is sent to NCBI as the
// default tool parameter.
var AppName = "accmeta"

const (
	configFile = "config.yaml"
	fieldsFile = "fields.yaml"
	cacheFile  = "records.sqlite"
)

// ConfigDir is ~/.config/accmeta. It keeps config.yaml and fields.yaml.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir is ~/.cache/accmeta. It keeps the record cache.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir is ~/.local/share/accmeta/logs.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath is the location of config.yaml.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), configFile)
}

// FieldsFilePath is the location of fields.yaml with extraction rules.
func FieldsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), fieldsFile)
}

// CacheFilePath is the location of the SQLite record cache.
func CacheFilePath(homeDir string) string {
	return filepath.Join(CacheDir(homeDir), cacheFile)
}
