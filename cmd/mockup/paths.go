package main

import (
	"fmt"
	"path/filepath"
	"strings"
)

// thumbPath turns "out/mockup.png" into "out/mockup_256.png".
func thumbPath(out string, size int) string {
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(out, ext), size, ext)
}
