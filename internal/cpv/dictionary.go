// Package cpv разрешает коды классификатора CPV в текстовые описания.
package cpv

import (
	"fmt"
	"sort"
	"strings"
)

const codeLength = 8

// Entry - запись статического справочника CPV.
type Entry struct {
	Code  string `json:"CPV"`
	Label string `json:"DESCRIPCION"`
}

// Dictionary отображает нормализованный 8-значный код в описание.
// После построения доступен только для чтения.
type Dictionary struct {
	labels map[string]string
	folded map[string]string
	codes  []string
}

// Normalize приводит код к каноническому 8-значному виду.
// Возвращает пустую строку, если во входе нет цифр.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < len(raw) && b.Len() < codeLength; i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	for b.Len() < codeLength {
		b.WriteByte('0')
	}
	return b.String()
}

// Build строит словарь из записей справочника. При совпадении
// нормализованных кодов побеждает последняя запись.
func Build(entries []Entry) *Dictionary {
	d := &Dictionary{
		labels: make(map[string]string, len(entries)),
		folded: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		base, _, _ := strings.Cut(e.Code, "-")
		code := Normalize(base)
		if code == "" || e.Label == "" {
			continue
		}
		d.labels[code] = e.Label
		d.folded[code] = fold(e.Label)
	}

	d.codes = make([]string, 0, len(d.labels))
	for code := range d.labels {
		d.codes = append(d.codes, code)
	}
	sort.Strings(d.codes)
	return d
}

// Len возвращает количество кодов в словаре.
func (d *Dictionary) Len() int {
	return len(d.labels)
}

// Lookup ищет точное совпадение по нормализованному коду.
func (d *Dictionary) Lookup(code string) (string, bool) {
	label, ok := d.labels[code]
	return label, ok
}

// Describe возвращает описание кода, поднимаясь по иерархии
// класс -> группа -> раздел, если точного совпадения нет.
func (d *Dictionary) Describe(raw string) string {
	if raw == "" {
		return "No classification code"
	}

	code := Normalize(raw)
	if code == "" {
		return "Invalid classification code"
	}

	if label, ok := d.Lookup(code); ok {
		return label
	}

	for _, digits := range []int{6, 4, 2} {
		parent := code[:digits] + strings.Repeat("0", codeLength-digits)
		if label, ok := d.Lookup(parent); ok {
			return label
		}
	}

	return fmt.Sprintf("No description (unrecognized code: %s)", raw)
}
