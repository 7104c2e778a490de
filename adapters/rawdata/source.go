package rawdata

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"

	"github.com/kshedden/datareader"
)

// DefaultChunkSize is the number of records decoded per read call.
const DefaultChunkSize = 10000

// Source reads PNAD microdata laid out as <dataDir>/<year>/<pes|dom><year>.<ext>.
type Source struct {
	dataDir   string
	chunkSize int
}

// NewSource creates a raw data source rooted at dataDir.
func NewSource(dataDir string, chunkSize int) *Source {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Source{dataDir: dataDir, chunkSize: chunkSize}
}

// DataDir returns the root directory of the raw files.
func (s *Source) DataDir() string {
	return s.dataDir
}

// Years lists the editions with a raw file for kind.
func (s *Source) Years(ctx context.Context, kind survey.Kind) ([]int, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list data directory: %w", err)
	}

	var years []int
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		year, err := strconv.Atoi(e.Name())
		if err != nil || year <= 0 {
			continue
		}
		if _, _, err := Locate(s.dataDir, kind, year); err == nil {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}

// Variables lists the variable names stored in one edition's raw file.
func (s *Source) Variables(ctx context.Context, kind survey.Kind, year int) ([]string, error) {
	path, format, err := Locate(s.dataDir, kind, year)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatStata, FormatSAS:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open raw file: %w", err)
		}
		defer f.Close()
		rdr, err := openStat(f, format)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), rdr.ColumnNames()...), nil
	case FormatCSV, FormatCSVGz:
		r, closeFn, err := openText(path, format)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		header, err := csv.NewReader(r).Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV header: %w", err)
		}
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
		return header, nil
	case FormatXLSX:
		return excelHeader(path)
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedInput, format)
}

// ReadVariables decodes the named variables. Names are matched without
// regard to case; the result uses the requested spelling. The returned table
// carries the file's row count even when no variable matched.
func (s *Source) ReadVariables(ctx context.Context, kind survey.Kind, year int, names []string) (*table.Table, error) {
	path, format, err := Locate(s.dataDir, kind, year)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	sink := newSink(names)

	switch format {
	case FormatStata, FormatSAS:
		err = s.readStat(ctx, path, format, sink)
	case FormatCSV, FormatCSVGz:
		err = readCSV(path, format, sink)
	case FormatXLSX:
		err = readExcel(ctx, path, sink)
	default:
		err = fmt.Errorf("%w: %s", core.ErrUnsupportedInput, format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	tbl, err := sink.table()
	if err != nil {
		return nil, err
	}
	log.Printf("[RawReader] %s read in %.2fms (%d rows, %d/%d variables)",
		filepath.Base(path), float64(time.Since(startTime).Nanoseconds())/1e6,
		tbl.NumRows(), tbl.NumColumns(), len(names))
	return tbl, nil
}

// chunkReader is the subset of the datareader readers used here.
type chunkReader interface {
	ColumnNames() []string
	Read(int) ([]*datareader.Series, error)
}

func openStat(f io.ReadSeeker, format Format) (chunkReader, error) {
	switch format {
	case FormatStata:
		rdr, err := datareader.NewStataReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open Stata file: %w", err)
		}
		// Raw codes are wanted, not their value labels.
		rdr.InsertCategoryLabels = false
		rdr.ConvertDates = false
		return rdr, nil
	case FormatSAS:
		rdr, err := datareader.NewSAS7BDATReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to open SAS file: %w", err)
		}
		rdr.TrimStrings = true
		rdr.ConvertDates = false
		return rdr, nil
	}
	return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedInput, format)
}

func (s *Source) readStat(ctx context.Context, path string, format Format, sink *sink) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rdr, err := openStat(f, format)
	if err != nil {
		return err
	}
	columns := rdr.ColumnNames()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := rdr.Read(s.chunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(chunk) == 0 || chunk[0] == nil || chunk[0].Length() == 0 {
			break
		}
		sink.addRows(chunk[0].Length())
		for j, ser := range chunk {
			if j < len(columns) {
				sink.offer(columns[j], func() []float64 { return seriesFloats(ser) })
			}
		}
	}
	return nil
}

func openText(path string, format Format) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if format != FormatCSVGz {
		return f, f.Close, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to open gzip stream: %w", err)
	}
	return gz, func() error {
		gz.Close()
		return f.Close()
	}, nil
}

func readCSV(path string, format Format, sink *sink) error {
	r, closeFn, err := openText(path, format)
	if err != nil {
		return err
	}
	defer closeFn()

	// CSVReader counts rows across calls, so the file is decoded in one call.
	rdr := datareader.NewCSVReader(r)
	series, err := rdr.Read(-1)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return nil
	}
	sink.addRows(series[0].Length())
	for j, ser := range series {
		name := ser.Name
		if j < len(rdr.ColumnNames) {
			name = rdr.ColumnNames[j]
		}
		sink.offer(strings.TrimSpace(name), func() []float64 { return seriesFloats(ser) })
	}
	return nil
}

// sink accumulates the wanted variables across chunks.
type sink struct {
	want  map[string]string
	order []string
	cols  map[string][]float64
	rows  int
}

func newSink(names []string) *sink {
	s := &sink{want: make(map[string]string, len(names)), cols: make(map[string][]float64, len(names))}
	for _, n := range names {
		key := strings.ToUpper(n)
		if _, dup := s.want[key]; dup {
			continue
		}
		s.want[key] = n
		s.order = append(s.order, n)
	}
	return s
}

func (s *sink) addRows(n int) {
	s.rows += n
}

// offer appends a chunk of a file column when it is wanted. The values are
// only converted when needed.
func (s *sink) offer(fileColumn string, values func() []float64) {
	name, ok := s.want[strings.ToUpper(fileColumn)]
	if !ok {
		return
	}
	s.cols[name] = append(s.cols[name], values()...)
}

func (s *sink) table() (*table.Table, error) {
	tbl := table.Empty(s.rows)
	for _, name := range s.order {
		values, ok := s.cols[name]
		if !ok {
			continue
		}
		if err := tbl.Add(table.NewNumeric(name, values)); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
