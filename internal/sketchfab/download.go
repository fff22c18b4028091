package sketchfab

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"threejs-mcp/pkg/logging"
)

// DownloadTimeout bounds a single file retrieval, independent of any
// deadline already on the caller's context.
const DownloadTimeout = 300 * time.Second

// zipMagic is the ZIP local-file-header signature. Archive detection relies
// on these bytes alone: providers may omit or mislabel filenames and
// content types.
var zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}

// Download retrieves the payload at downloadURL and writes it to
// destination, or to a fresh temp file when destination is empty (with a
// .zip suffix iff the payload is an archive). ZIP payloads are extracted
// into a sibling directory named <destination>_extracted, which is created
// even when the archive is empty.
//
// Transport or extraction failures return ErrDownloadFailed; partially
// written files are cleaned up best-effort and never referenced by a
// result.
func (c *Client) Download(ctx context.Context, downloadURL, destination string) (*DownloadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, DownloadTimeout)
	defer cancel()

	logging.Info("Download", "Downloading model from %s", downloadURL)

	content, err := c.fetch(ctx, downloadURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}

	isArchive := bytes.HasPrefix(content, zipMagic)

	if destination == "" {
		destination, err = tempDestination(isArchive)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
		}
	}

	if err := os.WriteFile(destination, content, 0644); err != nil {
		return nil, fmt.Errorf("%w: failed to write %s: %v", ErrDownloadFailed, destination, err)
	}

	result := &DownloadResult{
		LocalPath: destination,
		IsArchive: isArchive,
	}

	if isArchive {
		extractDir := destination + "_extracted"
		entries, err := extractZip(content, extractDir)
		if err != nil {
			cleanupDownload(destination, extractDir)
			return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
		}
		result.ExtractedDir = extractDir
		result.ExtractedEntries = entries
		logging.Info("Download", "Extracted %d entries to %s", len(entries), extractDir)
	}

	return result, nil
}

// fetch retrieves the full response body.
func (c *Client) fetch(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.downloadClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	logging.Debug("Download", "Response status %d, content type %q, content length %d",
		resp.StatusCode, resp.Header.Get("Content-Type"), resp.ContentLength)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// tempDestination allocates a temp file path for the payload.
func tempDestination(isArchive bool) (string, error) {
	pattern := "sketchfab-model-*"
	if isArchive {
		pattern += ".zip"
	}
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	return path, nil
}

// extractZip unpacks ZIP content into extractDir and returns the entry
// names in the order the archive reader yields them. The directory is
// created even for an empty archive.
func extractZip(content []byte, extractDir string) ([]string, error) {
	if err := os.MkdirAll(extractDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create extraction directory: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %v", err)
	}

	entries := make([]string, 0, len(reader.File))
	for _, file := range reader.File {
		if err := extractEntry(file, extractDir); err != nil {
			return nil, err
		}
		entries = append(entries, file.Name)
	}

	return entries, nil
}

// extractEntry writes one archive entry below extractDir, rejecting paths
// that would escape it.
func extractEntry(file *zip.File, extractDir string) error {
	target := filepath.Join(extractDir, file.Name)

	// Guard against archive entries traversing out of the extraction dir.
	if !strings.HasPrefix(target, filepath.Clean(extractDir)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %q escapes extraction directory", file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %v", file.Name, err)
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %v", file.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to extract %s: %v", file.Name, err)
	}
	return dst.Close()
}

// cleanupDownload removes partial artifacts after a failed retrieval.
// Failures are logged, not returned: recovering disk space is best effort.
func cleanupDownload(destination, extractDir string) {
	if err := os.Remove(destination); err != nil && !os.IsNotExist(err) {
		logging.Warn("Download", "Failed to remove partial download %s: %v", destination, err)
	}
	if err := os.RemoveAll(extractDir); err != nil {
		logging.Warn("Download", "Failed to remove extraction directory %s: %v", extractDir, err)
	}
}
