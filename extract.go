package main

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
)

const maxToolExecutableBytes int64 = 256 << 20 // 256 MiB

// extractToolExecutable scans the tar.gz at archivePath for a regular file
// named toolName (at any depth) and writes it to outputPath with the
// executable bit set.
func extractToolExecutable(archivePath, toolName, outputPath string) error {
	archive, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive %q: %w", archivePath, err)
	}
	defer archive.Close()

	gzipReader, err := gzip.NewReader(archive)
	if err != nil {
		return fmt.Errorf("failed to read archive %q as tar.gz: %w", archivePath, err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read tar entry in %q: %w", archivePath, err)
		}

		if !header.FileInfo().Mode().IsRegular() {
			continue
		}
		// Archive entry names use "/" separators regardless of host OS.
		if path.Base(header.Name) != toolName {
			continue
		}
		if err := validateToolExecutableSize(header.Size, toolName); err != nil {
			return err
		}

		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
		if err != nil {
			return fmt.Errorf("failed to create extracted tool: %w", err)
		}

		if err := copyToolExecutableWithLimit(file, tarReader, toolName); err != nil {
			_ = file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close extracted tool: %w", err)
		}

		// The file mode at creation can be narrowed by the umask.
		if err := os.Chmod(outputPath, 0o755); err != nil {
			return fmt.Errorf("failed to mark %q executable: %w", outputPath, err)
		}

		return nil
	}

	return fmt.Errorf("%w: executable=%q archive=%s", ErrToolNotFound, toolName, archivePath)
}

func copyToolExecutableWithLimit(dst io.Writer, src io.Reader, toolName string) error {
	copied, err := io.Copy(dst, io.LimitReader(src, maxToolExecutableBytes+1))
	if err != nil {
		return fmt.Errorf("failed to extract tool executable: %w", err)
	}
	if copied > maxToolExecutableBytes {
		return fmt.Errorf(
			"%w: executable=%q limit=%d",
			ErrToolTooLarge,
			toolName,
			maxToolExecutableBytes,
		)
	}

	return nil
}

func validateToolExecutableSize(size int64, toolName string) error {
	if size < 0 || size > maxToolExecutableBytes {
		return fmt.Errorf(
			"%w: executable=%q size=%d allowed=0-%d",
			ErrToolInvalidSize,
			toolName,
			size,
			maxToolExecutableBytes,
		)
	}

	return nil
}
