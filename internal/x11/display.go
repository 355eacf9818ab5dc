package x11

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// SocketDir is where local X servers listen.
const SocketDir = "/tmp/.X11-unix"

// ResolveDisplay picks the display to connect to: the explicit name, then
// $DISPLAY, then the highest-numbered local server socket. It returns an
// empty string when none is found.
func ResolveDisplay(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if env := strings.TrimSpace(os.Getenv("DISPLAY")); env != "" {
		return env
	}
	return displayFromSockets(SocketDir)
}

func displayFromSockets(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}

	var displays []int
	for _, entry := range entries {
		name := entry.Name()
		if len(name) < 2 || name[0] != 'X' {
			continue
		}
		n, err := strconv.Atoi(name[1:])
		if err != nil {
			continue
		}
		displays = append(displays, n)
	}

	if len(displays) == 0 {
		return ""
	}
	sort.Ints(displays)
	return fmt.Sprintf(":%d", displays[len(displays)-1])
}
