package simpleexcel

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// SheetTemplate describes one streamed sheet: an optional title row, a
// header row and one row per item.
type SheetTemplate struct {
	Name        string         `yaml:"name"`
	Title       string         `yaml:"title"`
	ShowHeader  bool           `yaml:"show_header"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column. FieldName matches a struct field name, its
// json tag or a map key.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"`
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
	// Format is a Go time layout applied to time.Time values.
	Format string `yaml:"format"`
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // Hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // Hex color
}

// LoadTemplate decodes and checks a YAML sheet template.
func LoadTemplate(r io.Reader) (*SheetTemplate, error) {
	var tmpl SheetTemplate
	if err := yaml.NewDecoder(r).Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if tmpl.Name == "" {
		tmpl.Name = "Sheet1"
	}
	if len(tmpl.Columns) == 0 {
		return nil, fmt.Errorf("template %q has no columns", tmpl.Name)
	}
	return &tmpl, nil
}

// LoadTemplateFile reads a YAML sheet template from disk.
func LoadTemplateFile(path string) (*SheetTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	defer f.Close()
	return LoadTemplate(f)
}

// StreamExporter writes rows through excelize's stream writer, so memory
// stays flat regardless of the row count.
type StreamExporter struct {
	tmpl   *SheetTemplate
	file   *excelize.File
	sw     *excelize.StreamWriter
	rowNum int
}

// NewStreamExporter prepares the sheet and writes the title and header rows.
func NewStreamExporter(tmpl *SheetTemplate) (*StreamExporter, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", tmpl.Name)
	sw, err := f.NewStreamWriter(tmpl.Name)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	e := &StreamExporter{tmpl: tmpl, file: f, sw: sw, rowNum: 1}
	if err := e.writePreamble(); err != nil {
		f.Close()
		return nil, err
	}
	return e, nil
}

func (e *StreamExporter) writePreamble() error {
	// column widths must be set before the first row
	for i, col := range e.tmpl.Columns {
		if col.Width > 0 {
			if err := e.sw.SetColWidth(i+1, i+1, col.Width); err != nil {
				return fmt.Errorf("failed to set width of %s: %w", col.Header, err)
			}
		}
	}

	if e.tmpl.Title != "" {
		style, err := createStyle(e.file, e.tmpl.TitleStyle)
		if err != nil {
			return err
		}
		if err := e.setRow([]interface{}{e.tmpl.Title}, style); err != nil {
			return err
		}
	}

	if e.tmpl.ShowHeader {
		style, err := createStyle(e.file, e.tmpl.HeaderStyle)
		if err != nil {
			return err
		}
		headers := make([]interface{}, len(e.tmpl.Columns))
		for i, col := range e.tmpl.Columns {
			headers[i] = col.Header
		}
		if err := e.setRow(headers, style); err != nil {
			return err
		}
	}
	return nil
}

// WriteRow appends one item, a struct, pointer to struct or map.
func (e *StreamExporter) WriteRow(item interface{}) error {
	v := reflect.ValueOf(item)
	for v.Kind() == reflect.Ptr && !v.IsNil() {
		v = v.Elem()
	}
	row := make([]interface{}, len(e.tmpl.Columns))
	for i, col := range e.tmpl.Columns {
		row[i] = formatValue(extractValue(v, col.FieldName), col.Format)
	}
	return e.setRow(row, 0)
}

// Rows returns the number of rows written so far, title and header included.
func (e *StreamExporter) Rows() int {
	return e.rowNum - 1
}

// WriteTo flushes the stream and writes the workbook to w. The exporter
// cannot be used afterwards.
func (e *StreamExporter) WriteTo(w io.Writer) (int64, error) {
	defer e.file.Close()
	if err := e.sw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush stream: %w", err)
	}
	return e.file.WriteTo(w)
}

// Close releases the workbook without writing it.
func (e *StreamExporter) Close() error {
	return e.file.Close()
}

func (e *StreamExporter) setRow(values []interface{}, styleID int) error {
	cell, err := excelize.CoordinatesToCellName(1, e.rowNum)
	if err != nil {
		return err
	}
	opts := []excelize.RowOpts{}
	if styleID != 0 {
		opts = append(opts, excelize.RowOpts{StyleID: styleID})
	}
	if err := e.sw.SetRow(cell, values, opts...); err != nil {
		return fmt.Errorf("error writing row %d: %w", e.rowNum, err)
	}
	e.rowNum++
	return nil
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	switch item.Kind() {
	case reflect.Struct:
		if f := item.FieldByName(fieldName); f.IsValid() {
			return f.Interface()
		}
		t := item.Type()
		for i := 0; i < t.NumField(); i++ {
			tag, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
			if tag == fieldName {
				return item.Field(i).Interface()
			}
		}
	case reflect.Map:
		if item.Type().Key().Kind() == reflect.String {
			if v := item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key())); v.IsValid() {
				return v.Interface()
			}
		}
	}
	return ""
}

func formatValue(v interface{}, layout string) interface{} {
	switch val := v.(type) {
	case time.Time:
		if layout == "" {
			layout = time.RFC3339
		}
		return val.Format(layout)
	case []string:
		return strings.Join(val, ", ")
	default:
		return v
	}
}

// createStyle returns 0, the default style, for a nil template.
func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	if tmpl == nil {
		return 0, nil
	}
	style := &excelize.Style{}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	return id, nil
}
