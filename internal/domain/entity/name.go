package entity

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldName normaliza un nombre de producto a su clave canónica: recortado y
// case-folded. Es la clave de agrupación de la analítica y del backfill de
// renombrado ("Batata", " batata " y "BATATA" son el mismo producto).
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
