// Package nuts содержит справочник территориальных кодов NUTS.
package nuts

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

// Region - территориальная единица NUTS.
type Region struct {
	Code  string `yaml:"code" json:"code"`
	Name  string `yaml:"name" json:"name"`
	Level int    `yaml:"-" json:"level"`
}

type table struct {
	names   map[string]string
	regions []Region
}

var load = sync.OnceValues(func() (*table, error) {
	return parse(regionsYAML)
})

func parse(data []byte) (*table, error) {
	var doc struct {
		Regions []Region `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode nuts table: %w", err)
	}

	t := &table{names: make(map[string]string, len(doc.Regions))}
	for _, r := range doc.Regions {
		code := strings.ToUpper(strings.TrimSpace(r.Code))
		if code == "" {
			continue
		}
		t.names[code] = r.Name
	}

	t.regions = make([]Region, 0, len(t.names))
	for code, name := range t.names {
		t.regions = append(t.regions, Region{Code: code, Name: name, Level: Level(code)})
	}
	sort.Slice(t.regions, func(i, j int) bool {
		return t.regions[i].Code < t.regions[j].Code
	})
	return t, nil
}

// Level возвращает уровень NUTS по длине кода: "ES" - 0, "ES523" - 3.
func Level(code string) int {
	if len(code) <= 2 {
		return 0
	}
	return len(code) - 2
}

// Describe возвращает название региона. Если код неизвестен, берётся
// ближайший известный предок; если нет и его, возвращается сам код.
func Describe(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	t, err := load()
	if err != nil {
		return code
	}
	for n := len(code); n >= 2; n-- {
		if name, ok := t.names[code[:n]]; ok {
			return name
		}
	}
	return code
}

// List возвращает все регионы, отсортированные по коду.
func List() []Region {
	t, err := load()
	if err != nil {
		return []Region{}
	}
	out := make([]Region, len(t.regions))
	copy(out, t.regions)
	return out
}
