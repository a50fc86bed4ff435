// Package dashboard renders Grafana dashboards over the GreptimeDB tables
// written by the simulator.
package dashboard

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"netintel-sim/internal/telemetry"
)

//go:embed templates/*.json.tmpl
var templates embed.FS

// Params are the values substituted into every dashboard.
type Params struct {
	RegionTable    string
	ComponentTable string
}

// DefaultParams uses the table names the GreptimeDB writer targets.
func DefaultParams() Params {
	return Params{RegionTable: telemetry.RegionTableName, ComponentTable: telemetry.ComponentTableName}
}

// Render writes one dashboard per embedded template to outDir. Datasource
// uids are read from the environment through the env template function.
func Render(outDir string, p Params) error {
	funcMap := template.FuncMap{
		"env": func(key string) (string, error) {
			v := os.Getenv(key)
			if v == "" {
				return "", fmt.Errorf("environment variable %s not set", key)
			}
			return v, nil
		},
	}

	t, err := template.New("dashboards").Funcs(funcMap).ParseFS(templates, "templates/*.json.tmpl")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, tpl := range t.Templates() {
		name := tpl.Name()
		if !strings.HasSuffix(name, ".tmpl") {
			continue
		}
		outPath := filepath.Join(outDir, strings.TrimSuffix(name, ".tmpl"))
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := tpl.Execute(f, p); err != nil {
			f.Close()
			return fmt.Errorf("render %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
