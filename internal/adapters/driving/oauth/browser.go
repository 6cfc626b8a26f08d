package oauth

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// browserCommand picks the program that opens url. $BROWSER, a
// colon-separated list as on most Unix desktops, wins over the OS default.
func browserCommand(goos, browserEnv, url string) (string, []string, error) {
	for _, candidate := range strings.Split(browserEnv, string(os.PathListSeparator)) {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			return fields[0], append(fields[1:], url), nil
		}
	}
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{url}, nil
	}
	return "", nil, fmt.Errorf("unsupported platform: %s", goos)
}

// OpenBrowser starts the user's browser at url without waiting for it.
func OpenBrowser(url string) error {
	name, args, err := browserCommand(runtime.GOOS, os.Getenv("BROWSER"), url)
	if err != nil {
		return err
	}
	return exec.Command(name, args...).Start()
}
