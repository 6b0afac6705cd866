package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type datastoreIndexFile struct {
	Indexes []struct {
		Kind       string `yaml:"kind"`
		Properties []struct {
			Name      string `yaml:"name"`
			Direction string `yaml:"direction"`
		} `yaml:"properties"`
	} `yaml:"indexes"`
}

func TestDatastoreIndexesCoverQueries(t *testing.T) {
	raw, err := os.ReadFile("index.yaml")
	require.NoError(t, err)

	var file datastoreIndexFile
	require.NoError(t, yaml.Unmarshal(raw, &file))

	var got [][]string
	for _, idx := range file.Indexes {
		assert.Equal(t, "Employee", idx.Kind)
		var props []string
		for _, p := range idx.Properties {
			name := p.Name
			if p.Direction == "desc" {
				name = "-" + name
			}
			props = append(props, name)
		}
		got = append(got, props)
	}

	assert.ElementsMatch(t, [][]string{
		{"-joining_date", "employee_id"},
		{"department", "-joining_date", "employee_id"},
		{"skills", "-joining_date", "employee_id"},
	}, got)
}

func TestNewDatastoreClientRequiresProject(t *testing.T) {
	_, err := NewDatastoreClient(context.Background(), "")
	assert.Error(t, err)
}
