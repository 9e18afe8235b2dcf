package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routemap/internal/export"
	"routemap/internal/geom"
)

const routesCSV = `origin,origin_lat,origin_lng,destination,dest_lat,dest_lng,category,magnitude
A,10,10,B,20,20,X,5
A,10,10,C,30,40,Y,50
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRenderCommand(t *testing.T) {
	path := writeFile(t, "routes.csv", routesCSV)
	out, err := run(t, "render", path, "--select", "row/1")
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Routes, 2)
	assert.Equal(t, "dimmed", doc.Routes[0].Display)
	assert.Equal(t, "emphasized", doc.Routes[1].Display)
	assert.Len(t, doc.Routes[0].Path, geom.CurveSteps+1)
}

func TestRenderCommandFlags(t *testing.T) {
	path := writeFile(t, "routes.csv", routesCSV)
	out, err := run(t, "render", path, "--straight", "--format", "wkt")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "row/0\tline\tLINESTRING(10 10,20 20)", lines[0])
}

func TestRenderCommandConfig(t *testing.T) {
	path := writeFile(t, "routes.csv", routesCSV)
	cfg := writeFile(t, "settings.toml", "[legend]\nposition = \"Right\"\ntitleText = \"Mode\"\n")
	target := filepath.Join(t.TempDir(), "frame.yaml")

	out, err := run(t, "--config", cfg, "render", path, "-f", "yaml", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "position: Right")
	assert.Contains(t, string(data), "title: Mode")
}

func TestRenderCommandErrors(t *testing.T) {
	path := writeFile(t, "routes.csv", routesCSV)

	_, err := run(t, "render", path, "--format", "kml")
	assert.ErrorContains(t, err, "unknown format")

	_, err = run(t, "render", path, "--select", "row/9")
	assert.ErrorContains(t, err, "unknown key")

	_, err = run(t, "render", path, "--select", "9")
	assert.ErrorContains(t, err, "missing row/ prefix")

	_, err = run(t, "render", filepath.Join(t.TempDir(), "routes.shp"))
	assert.ErrorContains(t, err, "unsupported file")

	_, err = run(t, "render")
	assert.Error(t, err)
}
