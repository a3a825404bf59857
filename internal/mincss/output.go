package im

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

func (c *Config) writeOutput(out io.Writer, content string) error {
	if c.OutFile == "" {
		if _, err := io.WriteString(out, content); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
		return nil
	}

	path, err := c.writeOutFile(content)
	if err != nil {
		return err
	}
	c.log().Info().Str("path", path).Int("bytes", len(content)).Msg("wrote output")

	if c.HashOutFile {
		if _, err := fmt.Fprintln(out, path); err != nil {
			return fmt.Errorf("error writing output path: %w", err)
		}
	}
	return nil
}

func (c *Config) writeOutFile(content string) (string, error) {
	outputPath := filepath.Clean(c.OutFile)
	dir := filepath.Dir(outputPath)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}

	if c.HashOutFile {
		base := filepath.Base(outputPath)

		// first, delete the old hashed file(s)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf("error finding old output files: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isHashedName(entry.Name(), base) {
				continue
			}
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return "", fmt.Errorf("error removing old output file: %w", err)
			}
		}

		outputPath = filepath.Join(dir, GetHashedFilename([]byte(content), base))
	}

	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("error writing output file: %w", err)
	}
	return outputPath, nil
}

func GetHashedFilename(content []byte, originalFileName string) string {
	hash := sha256.Sum256(content)
	hashedSuffix := fmt.Sprintf("%x", hash)[:12] // Short hash
	ext := filepath.Ext(originalFileName)
	return fmt.Sprintf("%s_%s%s", strings.TrimSuffix(originalFileName, ext), hashedSuffix, ext)
}

// isHashedName reports whether name is what GetHashedFilename produces for
// originalFileName, for any content.
func isHashedName(name, originalFileName string) bool {
	ext := filepath.Ext(originalFileName)
	stem := strings.TrimSuffix(originalFileName, ext)
	re := regexp.MustCompile("^" + regexp.QuoteMeta(stem) + "_[0-9a-f]{12}" + regexp.QuoteMeta(ext) + "$")
	return re.MatchString(name)
}

// isOutputPath reports whether path is OutFile or, when hashing, one of its
// hashed variants.
func (c *Config) isOutputPath(path string) bool {
	if c.OutFile == "" {
		return false
	}
	out := absPath(c.OutFile)
	p := absPath(path)
	if p == out {
		return true
	}
	return c.HashOutFile && filepath.Dir(p) == filepath.Dir(out) && isHashedName(filepath.Base(p), filepath.Base(out))
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
