package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kubev2v/assessment-report-agent/internal/models"
)

// DirSink writes exported documents straight into a folder, keeping their names.
type DirSink struct {
	dir     string
	written []string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

func (s *DirSink) Download(ctx context.Context, file models.ExportFile) error {
	base := filepath.Base(file.Name)
	if base == "." || base == string(filepath.Separator) || strings.HasPrefix(base, "..") {
		return fmt.Errorf("invalid export file name %q", file.Name)
	}

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return err
	}

	path := filepath.Join(s.dir, base)
	if err := os.WriteFile(path, file.Data, 0640); err != nil {
		return err
	}

	zap.S().Named("download").Debugw("export written", "path", path, "size", len(file.Data))
	s.written = append(s.written, path)
	return nil
}

// Written returns the paths of the files written so far.
func (s *DirSink) Written() []string {
	return s.written
}
