package rawdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopnad/domain/core"
	"gopnad/domain/survey"
)

// Format is the encoding of a raw microdata file.
type Format string

const (
	FormatStata Format = "dta"
	FormatSAS   Format = "sas7bdat"
	FormatCSV   Format = "csv"
	FormatCSVGz Format = "csv.gz"
	FormatXLSX  Format = "xlsx"
)

// formats lists the extensions tried for each edition, in priority order.
var formats = []Format{FormatStata, FormatSAS, FormatCSV, FormatCSVGz, FormatXLSX}

// FileName returns the IBGE-style base name of an edition, e.g. pes2001.
func FileName(kind survey.Kind, year int) string {
	return fmt.Sprintf("%s%d", kind.FilePrefix(), year)
}

// Locate finds the raw file of an edition under dataDir/<year>/.
func Locate(dataDir string, kind survey.Kind, year int) (string, Format, error) {
	dir := filepath.Join(dataDir, fmt.Sprint(year))
	base := FileName(kind, year)
	for _, f := range formats {
		for _, name := range []string{base + "." + string(f), strings.ToUpper(base) + "." + string(f)} {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, f, nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: %s under %s", core.ErrRawFileNotFound, base, dir)
}

// FormatOf infers the format from a file name.
func FormatOf(path string) (Format, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".csv.gz") {
		return FormatCSVGz, nil
	}
	switch strings.TrimPrefix(filepath.Ext(lower), ".") {
	case "dta":
		return FormatStata, nil
	case "sas7bdat":
		return FormatSAS, nil
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s", core.ErrUnsupportedInput, filepath.Base(path))
}
