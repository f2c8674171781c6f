package tui

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

func osFileResolver(path string) (orderstatus.FileHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return orderstatus.FileHandle{}, fmt.Errorf("tui: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return orderstatus.FileHandle{}, fmt.Errorf("tui: %s is a directory", path)
	}
	return orderstatus.FileHandle{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}
