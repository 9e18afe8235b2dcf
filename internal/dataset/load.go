package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Extensions lists the file extensions Load understands.
var Extensions = []string{".csv", ".geojson", ".json"}

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads path as CSV or GeoJSON depending on its extension.
func Load(path string, b Binding) (DataView, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path, b)
	case ".geojson", ".json":
		return LoadGeoJSON(path, b)
	}
	return DataView{}, fmt.Errorf("unsupported file %s (want .csv, .geojson or .json)", filepath.Base(path))
}
