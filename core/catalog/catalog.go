// Package catalog reads blueprint catalogues. Catalogues come either in the
// puzzle text format ("Blueprint 1: Each ore robot costs 4 ore. ...") or as
// YAML/JSON documents listing cost tables.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/geodeplan/core/model"
)

// ErrUnsupportedFormat is returned for unknown catalogue formats.
var ErrUnsupportedFormat = errors.New("unsupported catalogue format")

var (
	headerRe = regexp.MustCompile(`Blueprint\s+(\d+)\s*:`)
	recipeRe = regexp.MustCompile(`Each\s+(\w+)\s+robot\s+costs\s+([^.]+)\.`)
	amountRe = regexp.MustCompile(`^(\d+)\s+(\w+)$`)
)

// Load reads the catalogue at path. The format is picked from the file
// extension: .yaml/.yml, .json, or anything else for the text format.
func Load(path string) ([]model.Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return Decode(f, "yaml")
	case ".json":
		return Decode(f, "json")
	default:
		return Parse(f)
	}
}

// Parse reads blueprints in the puzzle text format. A blueprint may be
// wrapped over several lines; every blueprint must define a recipe for all
// four producer kinds.
func Parse(r io.Reader) ([]model.Blueprint, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.Join(strings.Fields(string(data)), " ")
	headers := headerRe.FindAllStringSubmatchIndex(text, -1)
	out := make([]model.Blueprint, 0, len(headers))
	for i, h := range headers {
		id, err := strconv.Atoi(text[h[2]:h[3]])
		if err != nil {
			return nil, fmt.Errorf("blueprint id %q: %w", text[h[2]:h[3]], err)
		}
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		bp, err := parseBody(id, text[h[1]:end])
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

func parseBody(id int, body string) (model.Blueprint, error) {
	costs := make([][]int, model.MaxKinds)
	for k := range costs {
		costs[k] = make([]int, model.MaxKinds)
	}
	var seen [model.MaxKinds]bool
	for _, m := range recipeRe.FindAllStringSubmatch(body, -1) {
		kind, err := model.ParseResourceKind(m[1])
		if err != nil {
			return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
		}
		for _, part := range strings.Split(m[2], " and ") {
			am := amountRe.FindStringSubmatch(strings.TrimSpace(part))
			if am == nil {
				return model.Blueprint{}, fmt.Errorf("blueprint %d: bad cost %q for %s robot", id, part, kind)
			}
			n, err := strconv.Atoi(am[1])
			if err != nil {
				return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
			}
			res, err := model.ParseResourceKind(am[2])
			if err != nil {
				return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
			}
			costs[kind][res] += n
		}
		seen[kind] = true
	}
	for k, ok := range seen {
		if !ok {
			return model.Blueprint{}, fmt.Errorf("blueprint %d: missing %s robot recipe", id, model.ResourceKind(k))
		}
	}
	bp, err := model.NewBlueprint(id, costs)
	if err != nil {
		return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
	}
	return bp, nil
}

// Document is the YAML/JSON catalogue layout.
type Document struct {
	Blueprints []Entry `json:"blueprints" yaml:"blueprints"`
}

// Entry describes one blueprint either by named costs or by a raw matrix.
// Named costs always use the four canonical kinds; a matrix may declare
// fewer kinds, in which case its last row is the terminal kind.
type Entry struct {
	ID     int                       `json:"id" yaml:"id"`
	Costs  map[string]map[string]int `json:"costs,omitempty" yaml:"costs,omitempty"`
	Matrix [][]int                   `json:"matrix,omitempty" yaml:"matrix,omitempty"`
}

// Decode reads a YAML or JSON catalogue from r.
func Decode(r io.Reader, format string) ([]model.Blueprint, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case "json":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, err
		}
	case "text", "txt":
		return Parse(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	out := make([]model.Blueprint, 0, len(doc.Blueprints))
	for i, e := range doc.Blueprints {
		id := e.ID
		if id == 0 {
			id = i + 1
		}
		bp, err := e.blueprint(id)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	return out, nil
}

func (e Entry) blueprint(id int) (model.Blueprint, error) {
	switch {
	case len(e.Matrix) > 0 && len(e.Costs) > 0:
		return model.Blueprint{}, fmt.Errorf("blueprint %d: costs and matrix are mutually exclusive", id)
	case len(e.Matrix) > 0:
		bp, err := model.NewBlueprint(id, e.Matrix)
		if err != nil {
			return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
		}
		return bp, nil
	}
	costs := make([][]int, model.MaxKinds)
	for k := range costs {
		costs[k] = make([]int, model.MaxKinds)
	}
	for robot, row := range e.Costs {
		kind, err := model.ParseResourceKind(robot)
		if err != nil {
			return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
		}
		for res, n := range row {
			r, err := model.ParseResourceKind(res)
			if err != nil {
				return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
			}
			costs[kind][r] = n
		}
	}
	bp, err := model.NewBlueprint(id, costs)
	if err != nil {
		return model.Blueprint{}, fmt.Errorf("blueprint %d: %w", id, err)
	}
	return bp, nil
}

// SortByID orders blueprints by ascending ID.
func SortByID(bps []model.Blueprint) {
	sort.SliceStable(bps, func(i, j int) bool { return bps[i].ID < bps[j].ID })
}
