// Package export persists datasets as NumPy .npy arrays next to a JSON manifest.
package export

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-chaser-swarm/pkg/topology"
)

const (
	descrFloat64 = "<f8"
	descrInt64   = "<i8"
)

var npyMagic = []byte("\x93NUMPY")

// Paths lists the files written by Save. Edges is empty when no matrix was saved.
type Paths struct {
	Positions  string `json:"positions"`
	Velocities string `json:"velocities"`
	Edges      string `json:"edges,omitempty"`
	Manifest   string `json:"-"`
}

// Manifest describes a saved dataset.
type Manifest struct {
	RunID           string            `json:"runId"`
	CreatedAt       time.Time         `json:"createdAt"`
	Elapsed         string            `json:"elapsed"`
	TrajectoryShape []int             `json:"trajectoryShape"`
	EdgeShape       []int             `json:"edgeShape,omitempty"`
	Files           Paths             `json:"files"`
	Stats           simulation.Stats  `json:"stats"`
	Config          simulation.Config `json:"config"`
}

// Save writes <prefix>_position.npy, <prefix>_velocity.npy, <prefix>_edge.npy
// when the dataset carries edges, and <prefix>_manifest.json into dir.
func Save(dir, prefix string, ds *simulation.Dataset) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("failed to create save dir: %w", err)
	}

	paths := Paths{
		Positions:  filepath.Join(dir, prefix+"_position.npy"),
		Velocities: filepath.Join(dir, prefix+"_velocity.npy"),
		Manifest:   filepath.Join(dir, prefix+"_manifest.json"),
	}
	shape := ds.TrajectoryShape()

	if err := WriteFloat64(paths.Positions, shape, ds.FlatPositions()); err != nil {
		return Paths{}, err
	}
	if err := WriteFloat64(paths.Velocities, shape, ds.FlatVelocities()); err != nil {
		return Paths{}, err
	}

	manifest := Manifest{
		RunID:           ds.RunID.String(),
		CreatedAt:       time.Now().UTC(),
		Elapsed:         ds.Elapsed.String(),
		TrajectoryShape: shape,
		Stats:           ds.Stats,
		Config:          ds.Config,
	}

	if ds.Edges != nil {
		paths.Edges = filepath.Join(dir, prefix+"_edge.npy")
		manifest.EdgeShape = ds.EdgeShape()
		if err := WriteInt(paths.Edges, manifest.EdgeShape, ds.FlatEdges()); err != nil {
			return Paths{}, err
		}
	}
	manifest.Files = paths

	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return Paths{}, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(paths.Manifest, b, 0o644); err != nil {
		return Paths{}, fmt.Errorf("failed to write manifest: %w", err)
	}
	return paths, nil
}

// SaveMatrix writes m replicated instances times as an (instances, N, N) int64 array.
func SaveMatrix(path string, m topology.InfluenceMatrix, instances int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create save dir: %w", err)
	}
	shape := []int{max(instances, 0), m.N, m.N}
	return WriteInt(path, shape, topology.Replicate(m, instances))
}

// WriteFloat64 writes a row-major float64 array of the given shape.
func WriteFloat64(path string, shape []int, data []float64) error {
	return writeFile(path, descrFloat64, shape, len(data), func(w io.Writer) error {
		return binary.Write(w, binary.LittleEndian, data)
	})
}

// WriteInt writes a row-major int array of the given shape as int64.
func WriteInt(path string, shape []int, data []int) error {
	return writeFile(path, descrInt64, shape, len(data), func(w io.Writer) error {
		wide := make([]int64, len(data))
		for i, v := range data {
			wide[i] = int64(v)
		}
		return binary.Write(w, binary.LittleEndian, wide)
	})
}

func writeFile(path, descr string, shape []int, n int, body func(io.Writer) error) error {
	if err := checkShape(shape, n); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(header(descr, shape)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := body(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// header encodes a version 1.0 preamble padded so the data starts on a 64 byte boundary.
func header(descr string, shape []int) []byte {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, tuple)

	const preamble = 10 // magic(6) + version(2) + header length(2)
	pad := 64 - (preamble+len(dict)+1)%64
	if pad == 64 {
		pad = 0
	}
	dict += strings.Repeat(" ", pad) + "\n"

	out := make([]byte, 0, preamble+len(dict))
	out = append(out, npyMagic...)
	out = append(out, 1, 0)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(dict)))
	return append(out, dict...)
}

func checkShape(shape []int, n int) error {
	size := 1
	for _, d := range shape {
		size *= d
	}
	if size != n {
		return fmt.Errorf("shape %v holds %d values, got %d", shape, size, n)
	}
	return nil
}

// Array is a decoded .npy file. Exactly one of Float64 and Int64 is set.
type Array struct {
	Descr   string
	Shape   []int
	Float64 []float64
	Int64   []int64
}

var (
	descrRe = regexp.MustCompile(`'descr':\s*'([^']+)'`)
	shapeRe = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)
)

// ErrUnsupported is returned by Read for arrays this package does not write.
var ErrUnsupported = errors.New("unsupported npy array")

// Read loads a little-endian float64 or int64 C-ordered array written by this package.
func Read(path string) (*Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	pre := make([]byte, 10)
	if _, err := io.ReadFull(r, pre); err != nil {
		return nil, fmt.Errorf("%s: short preamble: %w", path, err)
	}
	if string(pre[:6]) != string(npyMagic) || pre[6] != 1 {
		return nil, fmt.Errorf("%s: %w: bad magic or version", path, ErrUnsupported)
	}
	dict := make([]byte, binary.LittleEndian.Uint16(pre[8:]))
	if _, err := io.ReadFull(r, dict); err != nil {
		return nil, fmt.Errorf("%s: short header: %w", path, err)
	}
	if strings.Contains(string(dict), "'fortran_order': True") {
		return nil, fmt.Errorf("%s: %w: fortran order", path, ErrUnsupported)
	}

	arr := &Array{}
	if m := descrRe.FindSubmatch(dict); m != nil {
		arr.Descr = string(m[1])
	}
	m := shapeRe.FindSubmatch(dict)
	if m == nil {
		return nil, fmt.Errorf("%s: %w: no shape", path, ErrUnsupported)
	}
	size := 1
	for _, part := range strings.Split(string(m[1]), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%s: bad shape %q: %w", path, m[1], err)
		}
		arr.Shape = append(arr.Shape, d)
		size *= d
	}

	switch arr.Descr {
	case descrFloat64:
		arr.Float64 = make([]float64, size)
		err = binary.Read(r, binary.LittleEndian, arr.Float64)
	case descrInt64:
		arr.Int64 = make([]int64, size)
		err = binary.Read(r, binary.LittleEndian, arr.Int64)
	default:
		return nil, fmt.Errorf("%s: %w: dtype %q", path, ErrUnsupported, arr.Descr)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: short data: %w", path, err)
	}
	return arr, nil
}
