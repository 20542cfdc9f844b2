package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"go.uber.org/zap"
)

// SaveToTemp writes uploaded files into a per-session temp directory under
// unique names. It returns a map of unique filename to the path it was saved
// at. The unique name keeps the original stem and extension so display names
// survive the round trip.
func SaveToTemp(files map[string][]byte, sessionID string) (map[string]string, error) {
	dirPath := filepath.Join(os.TempDir(), sessionID)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session temp dir: %w", err)
	}

	saved := make(map[string]string, len(files))
	for fileName, content := range files {
		uniqueName := uniqueFilename(fileName)
		path := filepath.Join(dirPath, uniqueName)

		if err := os.WriteFile(path, content, 0o644); err != nil {
			return nil, fmt.Errorf("failed to save %q: %w", fileName, err)
		}

		saved[uniqueName] = path
		logger.Info("Saved uploaded file", zap.String("fileName", uniqueName), zap.String("path", path))
	}

	return saved, nil
}

// The upload date suffix is what docname.StripDate later removes to recover
// the display name.
func uniqueFilename(fileName string) string {
	base := filepath.Base(fileName)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return fmt.Sprintf("%s_%s%s", stem, time.Now().Format("2006-01-02"), ext)
}
