package tablegrid

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/output"
	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/parser"
	"github.com/xuri/excelize/v2"
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("component", "tablegrid"))
}

// Schema returns the schema shared by every document this package loads.
var Schema = sync.OnceValue(models.NewSchema)

// Format is a document file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// FormatOf returns the format for path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Load reads a document from path, choosing the importer by extension.
// Unless opts disables it, tables are repaired after loading.
func Load(path string, opts Options) (*models.Node, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	doc, err := read(path, format, opts)
	if err != nil {
		return nil, NewLoadError(path, string(format), err)
	}
	logger().Info("loaded document", slog.String("path", path), slog.String("format", string(format)))
	if !opts.ShouldRepairOnLoad() {
		return doc, nil
	}
	fixed, passes, err := Repair(doc, opts.RepairPasses())
	if err != nil {
		return fixed, NewLoadError(path, "repair", err)
	}
	if passes > 0 {
		logger().Info("repaired tables", slog.String("path", path), slog.Int("passes", passes))
	}
	return fixed, nil
}

func read(path string, format Format, opts Options) (*models.Node, error) {
	switch format {
	case FormatXLSX:
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parser.ImportWorkbook(f, Schema(), opts.ImportOptions())
	case FormatHTML:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return parser.ParseHTML(f, Schema())
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return Schema().NodeFromJSON(data)
	}
}

// Save writes doc to path, choosing the exporter by extension.
func Save(path string, doc *models.Node, pretty bool) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	var data []byte
	switch format {
	case FormatXLSX:
		f, err := parser.ExportWorkbook(doc)
		if err != nil {
			return NewLoadError(path, string(format), err)
		}
		defer f.Close()
		if err := f.SaveAs(path); err != nil {
			return NewLoadError(path, string(format), err)
		}
		logger().Info("wrote document", slog.String("path", path))
		return nil
	case FormatHTML:
		var buf bytes.Buffer
		if err := parser.RenderHTML(&buf, doc); err != nil {
			return NewLoadError(path, string(format), err)
		}
		data = buf.Bytes()
	default:
		if data, err = output.ToJSON(doc, pretty); err != nil {
			return NewLoadError(path, string(format), err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	logger().Info("wrote document", slog.String("path", path))
	return nil
}
