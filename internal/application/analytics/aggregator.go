package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dalvarezq/frescura-api/internal/domain/entity"
)

// Códigos de sugerencia de pedido (contrato estable para la UI y los tests;
// el texto es solo presentación).
const (
	SuggestionNoHistory        = "no_history"        // sin entradas en el período
	SuggestionDrasticReduction = "drastic_reduction" // merma >= pedido
	SuggestionKeep             = "keep"              // sin merma
	SuggestionReduce           = "reduce"            // merma alta (>= 30%)
	SuggestionConsider         = "consider"          // merma baja/moderada
)

// highWastePct umbral a partir del cual la sugerencia usa el encuadre de merma
// alta ("reducir a"). A exactamente 30% ya aplica.
var highWastePct = decimal.NewFromInt(30)

// anomalyPct por encima de 200% el porcentaje se considera anómalo (datos
// corruptos o merma de stock viejo) y no se reporta, en vez de mostrar un
// ratio sin sentido.
var anomalyPct = decimal.NewFromInt(200)

var hundred = decimal.NewFromInt(100)

// Suggestion es la recomendación determinista de pedido para un producto.
type Suggestion struct {
	Code string          `json:"code"`
	Text string          `json:"text"`
	Base decimal.Decimal `json:"base"` // cantidad de referencia para el próximo pedido
}

// ProductSummary totales de un producto+unidad en el mes.
type ProductSummary struct {
	Name       string           `json:"name"` // primera grafía no vacía vista
	Unit       string           `json:"unit"`
	Ordered    decimal.Decimal  `json:"ordered"`
	Wasted     decimal.Decimal  `json:"wasted"`
	WastePct   *decimal.Decimal `json:"waste_pct,omitempty"` // nil: sin entradas o anomalía
	Anomalous  bool             `json:"anomalous,omitempty"`
	Suggestion Suggestion       `json:"suggestion"`
}

// UnitTotal totales del mes para una unidad. Los totales jamás se suman entre
// unidades distintas (kg con un no se mezclan).
type UnitTotal struct {
	Unit     string           `json:"unit"`
	Ordered  decimal.Decimal  `json:"ordered"`
	Wasted   decimal.Decimal  `json:"wasted"`
	WastePct *decimal.Decimal `json:"waste_pct,omitempty"`
}

// MonthlyReport reporte mensual de merma y pedidos.
type MonthlyReport struct {
	Month            string           `json:"month"` // YYYY-MM
	WithEntryData    []ProductSummary `json:"with_entry_data"`
	WithoutEntryData []ProductSummary `json:"without_entry_data"` // merma de stock viejo, sin entradas
	TotalsByUnit     []UnitTotal      `json:"totals_by_unit"`
	HasMixedUnits    bool             `json:"has_mixed_units"`
	MonthWastePct    *decimal.Decimal `json:"month_waste_pct,omitempty"` // solo con una única unidad en el mes
}

type groupKey struct {
	name string // entity.FoldName
	unit string
}

type group struct {
	displayName string
	unit        string
	ordered     decimal.Decimal
	wasted      decimal.Decimal
}

// Aggregate construye el reporte mensual a partir de los eventos del período.
// Función pura: el orden de los eventos solo afecta qué grafía del nombre se
// muestra (la primera no vacía), nunca los totales.
func Aggregate(month string, events []*entity.Event) *MonthlyReport {
	groups := make(map[groupKey]*group)
	var order []groupKey // orden de aparición, para elegir grafía determinista

	for _, ev := range events {
		key := groupKey{name: entity.FoldName(ev.ProductName), unit: ev.Unit}
		g, ok := groups[key]
		if !ok {
			g = &group{unit: ev.Unit}
			groups[key] = g
			order = append(order, key)
		}
		if g.displayName == "" {
			// Primera grafía no vacía vista: sin votación por mayoría.
			g.displayName = strings.TrimSpace(ev.ProductName)
		}
		switch ev.Type {
		case entity.EventTypeEntry:
			g.ordered = g.ordered.Add(ev.Quantity)
		case entity.EventTypeWaste:
			g.wasted = g.wasted.Add(ev.Quantity)
		}
	}

	report := &MonthlyReport{Month: month}
	unitTotals := make(map[string]*UnitTotal)
	var unitOrder []string

	for _, key := range order {
		g := groups[key]
		summary := summarize(g)
		if g.ordered.IsPositive() {
			report.WithEntryData = append(report.WithEntryData, summary)
		} else {
			report.WithoutEntryData = append(report.WithoutEntryData, summary)
		}

		ut, ok := unitTotals[g.unit]
		if !ok {
			ut = &UnitTotal{Unit: g.unit}
			unitTotals[g.unit] = ut
			unitOrder = append(unitOrder, g.unit)
		}
		ut.Ordered = ut.Ordered.Add(g.ordered)
		ut.Wasted = ut.Wasted.Add(g.wasted)
	}

	sortWithEntry(report.WithEntryData)
	sort.Slice(report.WithoutEntryData, func(i, j int) bool {
		return report.WithoutEntryData[i].Name < report.WithoutEntryData[j].Name
	})

	sort.Strings(unitOrder)
	for _, unit := range unitOrder {
		ut := unitTotals[unit]
		ut.WastePct = wastePercentage(ut.Ordered, ut.Wasted)
		report.TotalsByUnit = append(report.TotalsByUnit, *ut)
	}
	report.HasMixedUnits = len(unitOrder) > 1
	if len(unitOrder) == 1 {
		// Una sola unidad en todo el mes: el porcentaje global sí tiene sentido.
		report.MonthWastePct = report.TotalsByUnit[0].WastePct
	}
	return report
}

func summarize(g *group) ProductSummary {
	s := ProductSummary{
		Name:    g.displayName,
		Unit:    g.unit,
		Ordered: g.ordered,
		Wasted:  g.wasted,
	}
	if g.ordered.IsPositive() {
		pct := g.wasted.Div(g.ordered).Mul(hundred)
		if pct.GreaterThan(anomalyPct) {
			s.Anomalous = true // porcentaje indefinido, no cero
		} else {
			rounded := pct.Round(2)
			s.WastePct = &rounded
		}
	}
	s.Suggestion = suggest(g)
	return s
}

// suggest aplica la heurística determinista de pedido.
func suggest(g *group) Suggestion {
	qty := func(v decimal.Decimal) string {
		out := v.String()
		if g.unit != "" {
			out += " " + g.unit
		}
		return out
	}

	if !g.ordered.IsPositive() {
		return Suggestion{Code: SuggestionNoHistory, Text: "sin historial de pedidos este período"}
	}
	if g.wasted.GreaterThanOrEqual(g.ordered) {
		return Suggestion{
			Code: SuggestionDrasticReduction,
			Text: "casi todo terminó en merma; reducir el pedido drásticamente",
		}
	}
	if g.wasted.IsZero() {
		return Suggestion{
			Code: SuggestionKeep,
			Text: "sin merma; mantener pedido de ~" + qty(g.ordered),
			Base: g.ordered,
		}
	}
	base := g.ordered.Sub(g.wasted)
	pct := g.wasted.Div(g.ordered).Mul(hundred)
	if pct.GreaterThanOrEqual(highWastePct) {
		return Suggestion{
			Code: SuggestionReduce,
			Text: "merma alta; reducir a ~" + qty(base),
			Base: base,
		}
	}
	return Suggestion{
		Code: SuggestionConsider,
		Text: "considerar pedir ~" + qty(base),
		Base: base,
	}
}

// sortWithEntry ordena por porcentaje de merma descendente, desempatando por
// nombre ascendente. Para comparar se usa el ratio crudo wasted/ordered
// (multiplicación cruzada), así los grupos anómalos (>200%) mantienen un orden
// determinista aunque su porcentaje no se exponga.
func sortWithEntry(list []ProductSummary) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		// a.wasted/a.ordered vs b.wasted/b.ordered, sin dividir
		left := a.Wasted.Mul(b.Ordered)
		right := b.Wasted.Mul(a.Ordered)
		if !left.Equal(right) {
			return left.GreaterThan(right)
		}
		return a.Name < b.Name
	})
}

func wastePercentage(ordered, wasted decimal.Decimal) *decimal.Decimal {
	if !ordered.IsPositive() {
		return nil
	}
	pct := wasted.Div(ordered).Mul(hundred)
	if pct.GreaterThan(anomalyPct) {
		return nil
	}
	rounded := pct.Round(2)
	return &rounded
}
