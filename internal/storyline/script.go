package storyline

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultScriptName is the per-folder script file looked up by the pipeline.
const DefaultScriptName = "Storyline.txt"

// ReadScript returns the trimmed, non-blank lines of the script at path. A
// missing file is not an error: it returns nil lines. The text is decoded
// as UTF-8 unless a byte order mark says UTF-16.
func ReadScript(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	lines, err := ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("read script %s: %w", path, err)
	}
	return lines, nil
}

// ParseScript reads script lines from r. See [ReadScript].
func ParseScript(r io.Reader) ([]string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	sc := bufio.NewScanner(transform.NewReader(r, dec))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
