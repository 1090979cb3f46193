package helper

import (
	"os"
	"path/filepath"
)

// SystemConfigDir is the last place GetCfgPath looks for a configuration file
const SystemConfigDir = "/etc/tourdesk"

// GetCfgPath resolves a configuration file name.
//
// Absolute paths are returned unchanged. Relative names are looked up in the
// working directory, then in ./configs, and finally under SystemConfigDir.
func GetCfgPath(filename string) string {
	if filename == "" {
		panic("filename cannot be empty")
	}
	if filepath.IsAbs(filename) {
		return filename
	}

	if found := lookupLocal(filename); found != "" {
		return found
	}
	return filepath.Join(SystemConfigDir, filename)
}

func lookupLocal(filename string) string {
	wd, err := os.Getwd()
	if err != nil || wd == "" {
		return ""
	}

	for _, candidate := range []string{
		filepath.Join(wd, filename),
		filepath.Join(wd, "configs", filename),
	} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			return abs
		}
	}
	return ""
}
