package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/burrow/internal/model"
)

// FileInfo describes one entry for the info overlay
type FileInfo struct {
	Path     string
	Size     int64
	IsDir    bool
	Mode     os.FileMode
	ModTime  string
	MimeType string
	Ext      string
}

// InspectEntry gathers the details shown in the info overlay. Detection
// reads the file's leading bytes, so it runs off the UI loop.
func InspectEntry(e model.Entry) (FileInfo, error) {
	info := FileInfo{
		Path:  e.Path,
		Size:  e.Size,
		IsDir: e.IsDir,
	}

	st, err := os.Lstat(e.Path)
	if err != nil {
		return info, err
	}
	info.Mode = st.Mode()
	info.ModTime = st.ModTime().Format("2006-01-02 15:04:05")

	if !e.IsDir && st.Mode().IsRegular() {
		if mtype, err := mimetype.DetectFile(e.Path); err == nil {
			info.MimeType = mtype.String()
			info.Ext = mtype.Extension()
		}
	}

	return info, nil
}

// View renders the overlay box
func (f FileInfo) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(f.Path))
	b.WriteString("\n\n")

	kind := "file"
	if f.IsDir {
		kind = "directory"
	}
	fmt.Fprintf(&b, "type      %s\n", kind)
	fmt.Fprintf(&b, "size      %s\n", FormatSize(f.Size))
	fmt.Fprintf(&b, "mode      %s\n", f.Mode)
	fmt.Fprintf(&b, "modified  %s", f.ModTime)
	if f.MimeType != "" {
		fmt.Fprintf(&b, "\nmime      %s", f.MimeType)
	}
	if f.Ext != "" {
		fmt.Fprintf(&b, "\next       %s", f.Ext)
	}

	return OverlayBoxStyle.Render(b.String())
}
