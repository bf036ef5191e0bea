// internal/engine/dynamic/chrome.go
package dynamic

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog/log"
)

// ChromePathEnv overrides browser discovery
const ChromePathEnv = "BOARDID_CHROME_PATH"

// FindChrome returns the configured browser, then $BOARDID_CHROME_PATH, then
// the first Chromium-family browser found in standard locations or $PATH.
// An empty result lets chromedp use its own default.
func FindChrome(configured string) string {
	for _, path := range []string{configured, os.Getenv(ChromePathEnv)} {
		if path == "" {
			continue
		}
		if isExecutable(path) {
			return path
		}
		log.Warn().Str("path", path).Msg("Configured Chrome path is not executable")
	}

	for _, path := range candidatePaths() {
		if isExecutable(path) {
			log.Debug().Str("path", path).Msg("Chrome found at standard location")
			return path
		}
	}

	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser", "chrome", "msedge", "brave-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	log.Debug().Str("os", runtime.GOOS).Msg("Chrome not found, using chromedp default")
	return ""
}

func candidatePaths() []string {
	home := os.Getenv("HOME")

	switch runtime.GOOS {
	case "darwin":
		paths := []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, "Applications/Google Chrome.app/Contents/MacOS/Google Chrome"))
		}
		return paths

	case "windows":
		var paths []string
		for _, base := range []string{os.Getenv("ProgramFiles"), os.Getenv("ProgramFiles(x86)"), os.Getenv("LocalAppData")} {
			if base == "" {
				continue
			}
			paths = append(paths,
				filepath.Join(base, "Google", "Chrome", "Application", "chrome.exe"),
				filepath.Join(base, "Microsoft", "Edge", "Application", "msedge.exe"),
			)
		}
		return paths

	default:
		paths := []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
		if home != "" {
			paths = append(paths, filepath.Join(home, ".local/share/flatpak/exports/bin/org.chromium.Chromium"))
		}
		return paths
	}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}
