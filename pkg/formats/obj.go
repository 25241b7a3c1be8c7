package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/MetisArom/Sputterer/pkg/math"
)

// OBJ format errors.
var (
	ErrFileNotFound   = errors.New("OBJ file not found")
	ErrMalformedField = errors.New("malformed OBJ field")
)

// maxOBJLineSize bounds a single line; exporters put one directive per line.
const maxOBJLineSize = 1 << 20

// FieldError reports a recognized directive whose fields could not be parsed.
type FieldError struct {
	Line   int    // 1-based line number
	Text   string // raw line as read
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Unwrap makes errors.Is(err, ErrMalformedField) hold.
func (e *FieldError) Unwrap() error {
	return ErrMalformedField
}

// RawTriangle holds three vertex references already shifted to 0-based.
// The values come straight from the file and are not range checked here.
type RawTriangle [3]int

// OBJOptions controls optional parser behavior.
type OBJOptions struct {
	// Triangulate fan-splits faces with more than three corners into
	// (0, i, i+1) triangles. When false only the first three corners are used.
	Triangulate bool
}

// OBJ holds the raw geometry read from an OBJ file.
type OBJ struct {
	Positions []math.Vec3
	Triangles []RawTriangle
	// Smooth is the value of the last "s" directive, false if there was none.
	Smooth bool

	Lines   int // lines read
	Skipped int // blank, unrecognized or ignored (vt/vn) lines
}

// ParseOBJFile parses an OBJ file from disk. A missing path is reported as
// ErrFileNotFound before anything is read.
func ParseOBJFile(path string, opts OBJOptions) (*OBJ, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("stat OBJ file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	obj, err := ParseOBJ(f, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return obj, nil
}

// ParseOBJ parses OBJ text from r.
//
// Each line is classified by its first byte:
//
//	v<space>  vertex position, three floats
//	f         face, three compound index fields, 1-based
//	s         smoothing flag, last occurrence wins
//
// Everything else, including vt and vn, is ignored.
func ParseOBJ(r io.Reader, opts OBJOptions) (*OBJ, error) {
	obj := &OBJ{}
	smooth := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if line == "" {
			obj.Skipped++
			continue
		}

		var err error
		switch line[0] {
		case 'v':
			// Only a plain "v" followed by whitespace is a position;
			// vt/vn/vp lines are skipped without touching their fields.
			if len(line) < 2 || !isSpace(line[1]) {
				obj.Skipped++
				continue
			}
			var p math.Vec3
			p, err = parsePosition(line[1:])
			if err == nil {
				obj.Positions = append(obj.Positions, p)
			}

		case 'f':
			var tris []RawTriangle
			tris, err = parseFace(line[1:], opts.Triangulate)
			if err == nil {
				obj.Triangles = append(obj.Triangles, tris...)
			}

		case 's':
			smooth, err = parseSmooth(line[1:])

		default:
			obj.Skipped++
		}

		if err != nil {
			return nil, &FieldError{Line: lineNum, Text: line, Reason: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ after line %d: %w", lineNum, err)
	}

	obj.Smooth = smooth
	obj.Lines = lineNum
	return obj, nil
}

// parsePosition reads "x y z" from the remainder of a v line.
// A fourth (w) component is accepted and ignored.
func parsePosition(rest string) (math.Vec3, error) {
	fields := Fields(rest)
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields))
	}

	var c [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("invalid coordinate %q", fields[i])
		}
		c[i] = float32(f)
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseFace reads the compound index fields of an f line.
func parseFace(rest string, triangulate bool) ([]RawTriangle, error) {
	fields := Fields(rest)
	if len(fields) < 3 {
		return nil, fmt.Errorf("face needs 3 vertices, got %d", len(fields))
	}
	if !triangulate {
		fields = fields[:3]
	}

	idx := make([]int, len(fields))
	for i, field := range fields {
		first, err := SplitField(field)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex reference %q", field)
		}
		n, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("invalid vertex index %q", first)
		}
		// OBJ indices count from 1
		idx[i] = n - 1
	}

	tris := make([]RawTriangle, 0, len(idx)-2)
	for i := 1; i+1 < len(idx); i++ {
		tris = append(tris, RawTriangle{idx[0], idx[i], idx[i+1]})
	}
	return tris, nil
}

// parseSmooth reads the value of an s line. Smoothing groups are collapsed
// to on/off: 0 and "off" disable, any other group number or "on" enables.
func parseSmooth(rest string) (bool, error) {
	fields := Fields(rest)
	if len(fields) == 0 {
		return false, errors.New("smoothing directive without value")
	}

	switch strings.ToLower(fields[0]) {
	case "on", "true":
		return true, nil
	case "off", "false":
		return false, nil
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return false, fmt.Errorf("invalid smoothing value %q", fields[0])
	}
	return n != 0, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
