// Package loader reads decoded AIS reports from CSV files into the
// in-memory collections the search agent consumes. It is a reference
// collaborator, not part of the reconstruction core: the core only depends
// on receiving frame-restricted reports with timezone-normalized, non-null
// timestamps.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nikpau/ais-targetship-searcher/internal/ais"
	"github.com/nikpau/ais-targetship-searcher/internal/geo"
)

// timestampLayout is the fallback layout for timestamps that are neither
// RFC 3339 nor unix seconds.
const timestampLayout = "2006-01-02 15:04:05"

// LoadDynamicFiles reads dynamic reports (message types 1, 2, 3 and 18)
// from the given CSV files, one chunk per file in argument order. Reports
// outside the frame are skipped.
func LoadDynamicFiles(paths []string, frame geo.BoundingBox) ([][]ais.Message, error) {
	chunks := make([][]ais.Message, 0, len(paths))
	for _, path := range paths {
		chunk, err := LoadDynamic(path, frame)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// LoadDynamic reads one dynamic report file.
func LoadDynamic(path string, frame geo.BoundingBox) ([]ais.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading dynamic reports: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	cols, err := dynamicColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var msgs []ais.Message
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s line %d: %w", path, line+1, err)
		}
		line++

		msg, err := cols.decode(record)
		if err != nil {
			return nil, fmt.Errorf("decoding %s line %d: %w", path, line, err)
		}
		if !frame.Contains(msg.Lat, msg.Lon) {
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// LoadStatic reads static reports (message type 5) from the given CSV
// files into a StaticPool.
func LoadStatic(paths []string) (*ais.StaticPool, error) {
	var records []ais.StaticRecord
	for _, path := range paths {
		fileRecords, err := loadStaticFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, fileRecords...)
	}
	return ais.NewStaticPool(records), nil
}

func loadStaticFile(path string) ([]ais.StaticRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading static reports: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	idx := indexHeader(header)
	mmsiCol, ok := idx["mmsi"]
	if !ok {
		return nil, fmt.Errorf("%s: no mmsi column", path)
	}
	typeCol, ok := idx["ship_type"]
	if !ok {
		return nil, fmt.Errorf("%s: no ship_type column", path)
	}
	bowCol, ok := idx["to_bow"]
	if !ok {
		return nil, fmt.Errorf("%s: no to_bow column", path)
	}
	sternCol, ok := idx["to_stern"]
	if !ok {
		return nil, fmt.Errorf("%s: no to_stern column", path)
	}

	var records []ais.StaticRecord
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s line %d: %w", path, line+1, err)
		}
		line++

		mmsi, err := strconv.Atoi(record[mmsiCol])
		if err != nil {
			return nil, fmt.Errorf("decoding %s line %d: bad mmsi: %w", path, line, err)
		}
		shipType, err := strconv.Atoi(record[typeCol])
		if err != nil {
			return nil, fmt.Errorf("decoding %s line %d: bad ship_type: %w", path, line, err)
		}
		toBow, err := strconv.ParseFloat(record[bowCol], 64)
		if err != nil {
			return nil, fmt.Errorf("decoding %s line %d: bad to_bow: %w", path, line, err)
		}
		toStern, err := strconv.ParseFloat(record[sternCol], 64)
		if err != nil {
			return nil, fmt.Errorf("decoding %s line %d: bad to_stern: %w", path, line, err)
		}
		records = append(records, ais.StaticRecord{
			MMSI:     ais.MMSI(mmsi),
			ShipType: shipType,
			ToBow:    toBow,
			ToStern:  toStern,
		})
	}
	return records, nil
}

// dynamicCols maps the dynamic report fields to column indices.
type dynamicCols struct {
	timestamp int
	mmsi      int
	lat       int
	lon       int
	sog       int
	cog       int
	rot       int // -1 when the file carries no rate of turn
}

func dynamicColumns(header []string) (dynamicCols, error) {
	idx := indexHeader(header)
	cols := dynamicCols{rot: -1}

	var ok bool
	if cols.timestamp, ok = idx["timestamp"]; !ok {
		return cols, fmt.Errorf("no timestamp column")
	}
	if cols.mmsi, ok = idx["mmsi"]; !ok {
		return cols, fmt.Errorf("no mmsi column")
	}
	if cols.lat, ok = idx["lat"]; !ok {
		return cols, fmt.Errorf("no lat column")
	}
	if cols.lon, ok = idx["lon"]; !ok {
		return cols, fmt.Errorf("no lon column")
	}
	if cols.sog, ok = idx["speed"]; !ok {
		if cols.sog, ok = idx["sog"]; !ok {
			return cols, fmt.Errorf("no speed column")
		}
	}
	if cols.cog, ok = idx["course"]; !ok {
		if cols.cog, ok = idx["cog"]; !ok {
			return cols, fmt.Errorf("no course column")
		}
	}
	if rot, ok := idx["rot"]; ok {
		cols.rot = rot
	}
	return cols, nil
}

func (c dynamicCols) decode(record []string) (ais.Message, error) {
	ts, err := parseTimestamp(record[c.timestamp])
	if err != nil {
		return ais.Message{}, err
	}
	mmsi, err := strconv.Atoi(record[c.mmsi])
	if err != nil {
		return ais.Message{}, fmt.Errorf("bad mmsi: %w", err)
	}
	lat, err := strconv.ParseFloat(record[c.lat], 64)
	if err != nil {
		return ais.Message{}, fmt.Errorf("bad lat: %w", err)
	}
	lon, err := strconv.ParseFloat(record[c.lon], 64)
	if err != nil {
		return ais.Message{}, fmt.Errorf("bad lon: %w", err)
	}
	sog, err := strconv.ParseFloat(record[c.sog], 64)
	if err != nil {
		return ais.Message{}, fmt.Errorf("bad speed: %w", err)
	}
	cog, err := strconv.ParseFloat(record[c.cog], 64)
	if err != nil {
		return ais.Message{}, fmt.Errorf("bad course: %w", err)
	}
	rawROT := math.NaN()
	if c.rot >= 0 && record[c.rot] != "" {
		rawROT, err = strconv.ParseFloat(record[c.rot], 64)
		if err != nil {
			return ais.Message{}, fmt.Errorf("bad rot: %w", err)
		}
	}
	return ais.NewMessage(ais.MMSI(mmsi), ts, lat, lon, sog, cog, rawROT), nil
}

// parseTimestamp accepts RFC 3339, "YYYY-MM-DD HH:MM:SS" (read as UTC) or
// unix seconds, and normalizes to unix seconds UTC.
func parseTimestamp(field string) (int64, error) {
	field = strings.TrimSpace(field)
	if t, err := time.Parse(time.RFC3339, field); err == nil {
		return t.Unix(), nil
	}
	if t, err := time.ParseInLocation(timestampLayout, field, time.UTC); err == nil {
		return t.Unix(), nil
	}
	if unix, err := strconv.ParseInt(field, 10, 64); err == nil {
		return unix, nil
	}
	return 0, fmt.Errorf("unparseable timestamp %q", field)
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}
