package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records catalog and pricing engine activity.
type EngineMetrics struct {
	variantsCreated  *prometheus.CounterVec
	modifiersApplied *prometheus.CounterVec
	codesRedeemed    *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	variantsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_variants_created",
		Help: "Variant products materialized from attribute combinations.",
	}, []string{"group"})
	modifiersApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_modifiers_applied",
		Help: "Modifier rows added to cart items and carts.",
	}, []string{"modifier"})
	codesRedeemed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discount_codes_redeemed",
		Help: "Discount code use-count increments.",
	}, []string{"code"})
	reg.MustRegister(variantsCreated, modifiersApplied, codesRedeemed)
	return &EngineMetrics{
		variantsCreated:  variantsCreated,
		modifiersApplied: modifiersApplied,
		codesRedeemed:    codesRedeemed,
	}
}

// IncVariantCreated counts one materialized variant for the group code.
func (e *EngineMetrics) IncVariantCreated(group string) {
	if e == nil || e.variantsCreated == nil {
		return
	}
	e.variantsCreated.WithLabelValues(normalizeLabel(group)).Inc()
}

// IncModifierApplied counts one adjustment row for the modifier code.
func (e *EngineMetrics) IncModifierApplied(modifier string) {
	if e == nil || e.modifiersApplied == nil {
		return
	}
	e.modifiersApplied.WithLabelValues(normalizeLabel(modifier)).Inc()
}

// IncCodeRedeemed counts one use of the discount code.
func (e *EngineMetrics) IncCodeRedeemed(code string) {
	if e == nil || e.codesRedeemed == nil {
		return
	}
	e.codesRedeemed.WithLabelValues(normalizeLabel(code)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
