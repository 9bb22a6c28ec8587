package app

import (
	"os"
	"path"
	"time"

	devicons "github.com/epilande/go-devicons"
)

type iconFileInfo struct {
	name string
}

func (i iconFileInfo) Name() string       { return i.name }
func (i iconFileInfo) Size() int64        { return 0 }
func (i iconFileInfo) Mode() os.FileMode  { return 0 }
func (i iconFileInfo) ModTime() time.Time { return time.Time{} }
func (i iconFileInfo) IsDir() bool        { return false }
func (i iconFileInfo) Sys() any           { return nil }

// fileIcon returns the nerd font glyph for a changed path, followed by a
// space, or "" when icons are off.
func (m *Model) fileIcon(p string) string {
	if !m.config.ShowIcons || p == "" {
		return ""
	}
	icon := devicons.IconForInfo(iconFileInfo{name: path.Base(p)}).Icon
	if icon == "" {
		return ""
	}
	return icon + " "
}
