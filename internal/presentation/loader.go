package presentation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// declarationFile: формат файла с объявлениями коллекций.
type declarationFile struct {
	Collections []Declaration `yaml:"collections"`
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

// LoadDeclarations читает все *.yaml/*.yml из папки (без рекурсии) в порядке имён файлов.
func LoadDeclarations(dir string) ([]Declaration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isYAML(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out []Declaration
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var f declarationFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		out = append(out, f.Collections...)
	}
	return out, nil
}

// LoadOverrides читает файл overrides. Пустой путь или отсутствующий файл дают пустой набор.
func LoadOverrides(path string) (Overrides, error) {
	if strings.TrimSpace(path) == "" {
		return Overrides{}, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Overrides{}, nil
	}
	if err != nil {
		return nil, err
	}
	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if o == nil {
		o = Overrides{}
	}
	return o, nil
}

// Load читает объявления и overrides и строит реестр.
func Load(dir, overridesPath string) (*Registry, error) {
	ov, err := LoadOverrides(overridesPath)
	if err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}
	decls, err := LoadDeclarations(dir)
	if err != nil {
		return nil, fmt.Errorf("declarations: %w", err)
	}
	reg := NewRegistry(ov)
	if err := reg.RegisterAll(decls); err != nil {
		return nil, err
	}
	return reg, nil
}
