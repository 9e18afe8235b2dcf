package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"routemap/internal/dataset"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !dataset.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no route files in current directory"
	}
}

// loadPath loads a CSV or GeoJSON route file. A failed load keeps the current data.
func (m *Model) loadPath(p string) {
	dv, err := dataset.Load(p, m.settings.Binding())
	if err != nil {
		m.logger.Error("load failed", "path", p, "err", err)
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.setData(dv, filepath.Base(p))
}

// loadPasted parses pasted CSV text.
func (m *Model) loadPasted(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		m.status = "paste: empty"
		return false
	}
	dv, err := dataset.ReadCSV(strings.NewReader(text), m.settings.Binding())
	if err != nil {
		m.status = "csv error: " + err.Error()
		return false
	}
	m.selPath = ""
	m.setData(dv, "pasted csv")
	return true
}
