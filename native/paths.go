package native

import (
	"os"
	"path/filepath"
	"runtime"
)

// EnvLibraryPath overrides vendor library resolution when set. It must
// point at the shared library file itself.
const EnvLibraryPath = "STEAMWORKS_LIB"

// libraryName returns the vendor library filename for a target.
func libraryName(goos, goarch string) string {
	switch goos {
	case "windows":
		if goarch == "386" {
			return "steam_api.dll"
		}
		return "steam_api64.dll"
	case "darwin":
		return "libsteam_api.dylib"
	default:
		return "libsteam_api.so"
	}
}

// libraryCandidates returns the ordered paths Open tries: an explicit
// path wins, then the environment override, then the executable's
// directory, the working directory, and finally the bare filename so the
// system loader's own search path applies.
func libraryCandidates(explicit string) []string {
	if explicit != "" {
		return []string{explicit}
	}
	if env := os.Getenv(EnvLibraryPath); env != "" {
		return []string{env}
	}

	name := libraryName(runtime.GOOS, runtime.GOARCH)
	var candidates []string
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), name))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, name))
	}
	return append(candidates, name)
}
