// Package query переводит фильтр в типизированный набор предикатов и
// сортировку, которые интерпретирует адаптер хранилища.
package query

// Field - логическое имя колонки выдачи.
type Field string

const (
	FieldID               Field = "id"
	FieldProjectName      Field = "project_name"
	FieldContractingParty Field = "contracting_party_name"
	FieldCPVCode          Field = "cpv_code"
	FieldCPVDescription   Field = "cpv_description"
	FieldNUTSCode         Field = "nuts_code"
	FieldTerritoryName    Field = "territory_name"
	FieldClosingDate      Field = "fecha_fin_presentacion"
	FieldAmount           Field = "importe"
)

// Predicate - условие отбора. Реализации: Eq, Prefix, Contains,
// AtLeast, AtMost и Or.
type Predicate interface {
	predicate()
}

// Eq - точное равенство.
type Eq struct {
	Field Field
	Value string
}

// Prefix - значение начинается с Value (с учётом регистра).
type Prefix struct {
	Field Field
	Value string
}

// Contains - подстрока без учёта регистра.
type Contains struct {
	Field Field
	Value string
}

// AtLeast - нижняя граница включительно.
type AtLeast struct {
	Field Field
	Value string
}

// AtMost - верхняя граница включительно.
type AtMost struct {
	Field Field
	Value string
}

// Or - дизъюнкция вложенных условий. Пустая дизъюнкция ложна.
type Or []Predicate

func (Eq) predicate()       {}
func (Prefix) predicate()   {}
func (Contains) predicate() {}
func (AtLeast) predicate()  {}
func (AtMost) predicate()   {}
func (Or) predicate()       {}

// Sort задаёт порядок выдачи.
type Sort struct {
	Field      Field
	Descending bool
}

// Plan - полный набор операций для одной выборки. Подсчёт и выборка
// страницы строятся из одного и того же плана.
type Plan struct {
	Predicates []Predicate
	Sort       Sort
}
