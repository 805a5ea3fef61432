package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/sirupsen/logrus"

	"geomap/internal/edit"
	"geomap/internal/loader"
	"geomap/internal/logger"
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
		if e.IsDir() || !loader.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath replaces the registry content with the features of p.
func (m *Model) loadPath(p string) {
	log := logger.L().WithField("path", p)
	d, err := loader.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		log.WithError(err).Warn("load failed")
		return
	}
	m.selPath = p
	m.reg.Clear()
	m.props = make(map[string]map[string]any, len(d.Features))
	m.selected = nil
	m.hoverID = ""
	m.inspectPopup = ""
	skipped := 0
	for _, f := range d.Features {
		if f.Geometry.SRID() == 0 {
			f.Geometry.SetSRID(m.homeSRID)
		}
		if err := m.reg.Add(edit.ID(f.ID), f.Geometry); err != nil {
			skipped++
			log.WithError(err).WithField("id", f.ID).Warn("feature skipped")
			continue
		}
		m.props[f.ID] = f.Properties
	}
	m.resetView()
	m.status = fmt.Sprintf("loaded: %s  features=%d", filepath.Base(p), m.reg.Len())
	if skipped > 0 {
		m.status += fmt.Sprintf(" skipped=%d", skipped)
	}
	log.WithFields(logrus.Fields{"features": m.reg.Len(), "skipped": skipped, "srid": m.reg.SRID()}).Info("loaded")
	if m.showAttrs {
		m.refreshAttrs()
	}
}
