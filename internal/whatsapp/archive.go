package whatsapp

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kiddomusic/riyaz/internal/model"
)

// ErrNoTranscript indicates a zip archive contains no chat transcript entry.
var ErrNoTranscript = errors.New("archive has no chat .txt entry")

// ParseExport reads a chat export from path and parses it into messages.
// A .zip is searched for its transcript entry; any other path is read as a
// bare transcript. Errors here are fatal for this archive only.
func ParseExport(path string) ([]model.Message, error) {
	text, err := readTranscript(path)
	if err != nil {
		return nil, err
	}
	return ParseText(text), nil
}

// readTranscript returns the transcript text behind path.
func readTranscript(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return readZipTranscript(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read transcript: %w", err)
	}
	return string(data), nil
}

// readZipTranscript finds and reads the transcript entry inside a zip export.
// WhatsApp names it "_chat.txt"; older exports may carry any .txt name.
func readZipTranscript(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	var entry *zip.File
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, "_chat.txt") {
			entry = f
			break
		}
	}
	if entry == nil {
		for _, f := range zr.File {
			if strings.EqualFold(filepath.Ext(f.Name), ".txt") {
				entry = f
				break
			}
		}
	}
	if entry == nil {
		return "", fmt.Errorf("%w: %s", ErrNoTranscript, filepath.Base(path))
	}

	rc, err := entry.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", entry.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", entry.Name, err)
	}
	return string(data), nil
}
