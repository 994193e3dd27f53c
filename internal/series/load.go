package series

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/wandb/simplejsonext"
	"golang.org/x/sync/errgroup"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor JSON.
var ErrUnsupportedFormat = errors.New("series: unsupported file format")

// dateLayouts are tried in order for textual timestamps.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// maxConcurrentLoads bounds the number of files read at once.
const maxConcurrentLoads = 8

// File is the content of one or more data files.
type File struct {
	Series         []*Series
	Markers        []Marker
	NonTradingDays []NonTradingDay
}

// Load reads a CSV or JSON data file.
//
// CSV files have a header row; the first column is the timestamp and every
// other column is a series. JSON files hold an object with "series",
// "markers" and "non_trading_days" arrays.
func Load(fs afero.Fs, path string) (*File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("series: reading %s: %w", path, err)
	}

	var f *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err = parseCSV(data)
	case ".json":
		f, err = parseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("series: parsing %s: %w", path, err)
	}

	for _, sr := range f.Series {
		sr.Sort()
	}
	return f, nil
}

// LoadAll loads files concurrently and merges them in argument order.
func LoadAll(ctx context.Context, fs afero.Fs, paths []string) (*File, error) {
	files := make([]*File, len(paths))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := Load(fs, path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged := &File{}
	for _, f := range files {
		merged.Series = append(merged.Series, f.Series...)
		merged.Markers = append(merged.Markers, f.Markers...)
		merged.NonTradingDays = append(merged.NonTradingDays, f.NonTradingDays...)
	}
	return merged, nil
}

func parseCSV(data []byte) (*File, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comment = '#'

	header, err := r.Read()
	if err == io.EOF {
		return &File{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("header needs a time column and at least one series, got %d columns", len(header))
	}

	series := make([]*Series, len(header)-1)
	for i, name := range header[1:] {
		series[i] = &Series{Name: strings.TrimSpace(name)}
	}

	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}

		x, err := parseTime(record[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for i, cell := range record[1:] {
			if i >= len(series) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			y, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, series[i].Name, err)
			}
			series[i].Points = append(series[i].Points, Point{X: x, Y: y})
		}
	}

	return &File{Series: series}, nil
}

// parseTime accepts unix seconds or one of dateLayouts (UTC).
func parseTime(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.Unix()), nil
		}
	}
	return 0, fmt.Errorf("invalid timestamp %q", s)
}

func parseJSON(data []byte) (*File, error) {
	root, err := simplejsonext.UnmarshalObject(data)
	if err != nil {
		return nil, err
	}

	f := &File{}

	rawSeries, err := optionalArray(root, "series")
	if err != nil {
		return nil, err
	}
	for i, raw := range rawSeries {
		sr, err := parseJSONSeries(raw)
		if err != nil {
			return nil, fmt.Errorf("series[%d]: %w", i, err)
		}
		f.Series = append(f.Series, sr)
	}

	rawMarkers, err := optionalArray(root, "markers")
	if err != nil {
		return nil, err
	}
	for i, raw := range rawMarkers {
		m, err := parseJSONMarker(raw)
		if err != nil {
			return nil, fmt.Errorf("markers[%d]: %w", i, err)
		}
		f.Markers = append(f.Markers, m)
	}

	rawDays, err := optionalArray(root, "non_trading_days")
	if err != nil {
		return nil, err
	}
	for i, raw := range rawDays {
		d, err := parseJSONNonTradingDay(raw)
		if err != nil {
			return nil, fmt.Errorf("non_trading_days[%d]: %w", i, err)
		}
		f.NonTradingDays = append(f.NonTradingDays, d)
	}

	return f, nil
}

func parseJSONSeries(raw any) (*Series, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", raw)
	}

	sr := &Series{}
	sr.Name, _ = obj["name"].(string)
	if sr.Name == "" {
		return nil, errors.New("missing name")
	}
	sr.Color, _ = obj["color"].(string)
	sr.Disabled, _ = obj["disabled"].(bool)

	kind, _ := obj["kind"].(string)
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}
	sr.Kind = k

	points, err := optionalArray(obj, "points")
	if err != nil {
		return nil, err
	}
	for j, rawPoint := range points {
		pair, ok := rawPoint.([]any)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("points[%d]: expected [x, y]", j)
		}
		x, err := jsonTime(pair[0])
		if err != nil {
			return nil, fmt.Errorf("points[%d]: %w", j, err)
		}
		y, ok := jsonNumber(pair[1])
		if !ok {
			return nil, fmt.Errorf("points[%d]: y is not a number", j)
		}
		sr.Points = append(sr.Points, Point{X: x, Y: y})
	}
	return sr, nil
}

func parseJSONMarker(raw any) (Marker, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Marker{}, fmt.Errorf("expected an object, got %T", raw)
	}

	x, err := jsonTime(obj["x"])
	if err != nil {
		return Marker{}, err
	}
	m := Marker{X: x}
	m.Label, _ = obj["label"].(string)
	m.Color, _ = obj["color"].(string)
	if v, ok := jsonNumber(obj["value"]); ok {
		m.Value = &v
	}
	return m, nil
}

// parseJSONNonTradingDay accepts a date or an object with "date" and
// "color".
func parseJSONNonTradingDay(raw any) (NonTradingDay, error) {
	if obj, ok := raw.(map[string]any); ok {
		x, err := jsonTime(obj["date"])
		if err != nil {
			return NonTradingDay{}, err
		}
		d := NonTradingDay{Day: DayStart(x)}
		d.Color, _ = obj["color"].(string)
		return d, nil
	}

	x, err := jsonTime(raw)
	if err != nil {
		return NonTradingDay{}, err
	}
	return NonTradingDay{Day: DayStart(x)}, nil
}

func optionalArray(obj map[string]any, key string) ([]any, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%q: expected an array, got %T", key, raw)
	}
	return arr, nil
}

func jsonTime(v any) (float64, error) {
	if s, ok := v.(string); ok {
		return parseTime(s)
	}
	if f, ok := jsonNumber(v); ok {
		return f, nil
	}
	return 0, fmt.Errorf("invalid timestamp %v", v)
}

func jsonNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
