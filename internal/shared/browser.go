package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// startCommand launches the opener; replaced in tests.
var startCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenBrowser opens the default system browser to the specified URL.
//
// Supports macOS, Linux, and Windows platforms.
func OpenBrowser(url string) error {
	var name string
	var args []string
	rt := getRuntime()
	switch rt {
	case "darwin":
		name, args = "open", []string{url}
	case "linux":
		name, args = "xdg-open", []string{url}
	case "windows":
		name, args = "cmd", []string{"/c", "start", url}
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

// PlayVideo opens the embeddable player for a video URL.
//
// Returns [ErrInvalidVideoURL] without launching anything when no video token can be extracted.
func PlayVideo(videoURL string) (string, error) {
	embed, ok := EmbedURL(videoURL)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidVideoURL, videoURL)
	}
	return embed, OpenBrowser(embed)
}
