// Package report turns completed sweeps and artifact directories into
// comparison reports.
package report

// ply.go extracts the vertex count from a PLY header. The header is
// ASCII even for binary PLY bodies, so a bounded line scan is enough.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxHeaderBytes bounds the header scan so a corrupt file cannot make
// us read the whole body.
const maxHeaderBytes = 10 * 1024

// VertexCount scans a PLY header and returns the vertex element count.
func VertexCount(r io.Reader) (int, error) {
	br := bufio.NewReader(io.LimitReader(r, maxHeaderBytes))
	for {
		line, err := br.ReadString('\n')
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "element vertex") {
			fields := strings.Fields(trimmed)
			if len(fields) != 3 {
				return 0, fmt.Errorf("malformed element vertex line: %q", trimmed)
			}
			n, convErr := strconv.Atoi(fields[2])
			if convErr != nil {
				return 0, fmt.Errorf("malformed vertex count %q: %w", fields[2], convErr)
			}
			return n, nil
		}
		if trimmed == "end_header" {
			return 0, errors.New("ply header has no vertex element")
		}
		if err != nil {
			return 0, errors.New("ply header truncated before end_header")
		}
	}
}

// VertexCountFile is VertexCount over a file path.
func VertexCountFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return VertexCount(f)
}
