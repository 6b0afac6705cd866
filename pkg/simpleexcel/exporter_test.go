package simpleexcel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testTemplate = `
name: People
title: Staff
show_header: true
header_style:
  font: {bold: true, color: "#FFFFFF"}
  fill: {color: "#4472C4"}
columns:
  - {field_name: id, header: ID, width: 10}
  - {field_name: Name, header: Name}
  - {field_name: joined, header: Joined, format: "2006-01-02"}
  - {field_name: tags, header: Tags}
`

type person struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Joined time.Time `json:"joined"`
	Tags   []string  `json:"tags"`
}

func readBack(t *testing.T, buf *bytes.Buffer, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestStreamExporter(t *testing.T) {
	tmpl, err := LoadTemplate(strings.NewReader(testTemplate))
	require.NoError(t, err)

	exp, err := NewStreamExporter(tmpl)
	require.NoError(t, err)

	joined := time.Date(2021, 3, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, exp.WriteRow(person{ID: "E1", Name: "Alice", Joined: joined, Tags: []string{"Go", "SQL"}}))
	require.NoError(t, exp.WriteRow(&person{ID: "E2", Name: "Bob", Joined: joined}))
	require.NoError(t, exp.WriteRow(map[string]interface{}{"id": "E3", "Name": "Carol"}))
	assert.Equal(t, 5, exp.Rows())

	var buf bytes.Buffer
	_, err = exp.WriteTo(&buf)
	require.NoError(t, err)

	rows := readBack(t, &buf, "People")
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Staff"}, rows[0])
	assert.Equal(t, []string{"ID", "Name", "Joined", "Tags"}, rows[1])
	assert.Equal(t, []string{"E1", "Alice", "2021-03-01", "Go, SQL"}, rows[2])
	assert.Equal(t, []string{"E2", "Bob", "2021-03-01"}, rows[3])
	assert.Equal(t, []string{"E3", "Carol"}, rows[4])
}

func TestLoadTemplate(t *testing.T) {
	t.Run("default sheet name", func(t *testing.T) {
		tmpl, err := LoadTemplate(strings.NewReader("columns:\n  - {field_name: a, header: A}\n"))
		require.NoError(t, err)
		assert.Equal(t, "Sheet1", tmpl.Name)
	})

	t.Run("no columns", func(t *testing.T) {
		_, err := LoadTemplate(strings.NewReader("name: Empty\n"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadTemplate(strings.NewReader("columns: [\n"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTemplateFile("does-not-exist.yaml")
		assert.Error(t, err)
	})
}
