package services

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/magdamonroy1824/tfm-mm-ecommerce/internal/domain/entities"
)

// RecommendationService maps segments to their static business-action
// playbooks and computes the continuous value score and campaign budget.
type RecommendationService struct {
	playbooks   map[entities.Segment]entities.Playbook
	baseBudgets map[entities.Segment]decimal.Decimal

	wProbability float64
	wMonetary    float64
	wFrequency   float64
	wRecency     float64
}

// Budget base per segment when the segment key is unrecognized. Defensive
// only: the segmentation cascade is exhaustive.
var fallbackBaseBudget = decimal.NewFromInt(5)

// NewRecommendationService builds the service with the fixed playbook table
// and scoring weights.
func NewRecommendationService() *RecommendationService {
	return &RecommendationService{
		playbooks: map[entities.Segment]entities.Playbook{
			entities.SegmentChampions: {
				Strategy: "Reward & Retain",
				Actions: []string{
					"🎁 Programa VIP exclusivo",
					"💰 Descuentos por volumen (15-20%)",
					"🚀 Early access a nuevos productos",
					"📞 Atención personalizada premium",
				},
				BudgetTier:  "Alto",
				Priority:    "Máxima",
				ExpectedROI: "300-500%",
			},
			entities.SegmentLoyalCustomers: {
				Strategy: "Nurture & Upsell",
				Actions: []string{
					"🛍️ Cross-selling personalizado",
					"💳 Programa de puntos premium",
					"📧 Newsletter exclusivo",
					"🎯 Ofertas en categorías favoritas",
				},
				BudgetTier:  "Alto",
				Priority:    "Alta",
				ExpectedROI: "200-300%",
			},
			entities.SegmentPotentialLoyalists: {
				Strategy: "Develop & Convert",
				Actions: []string{
					"📱 Onboarding personalizado",
					"🎁 Descuento en segunda compra (10%)",
					"📊 Recomendaciones basadas en historial",
					"⏰ Recordatorios de recompra",
				},
				BudgetTier:  "Medio",
				Priority:    "Alta",
				ExpectedROI: "150-250%",
			},
			entities.SegmentNewCustomers: {
				Strategy: "Educate & Engage",
				Actions: []string{
					"👋 Welcome series (3 emails)",
					"🎁 Descuento de bienvenida (5-10%)",
					"📚 Guías de producto",
					"💬 Encuesta de satisfacción",
				},
				BudgetTier:  "Medio",
				Priority:    "Media",
				ExpectedROI: "100-150%",
			},
			entities.SegmentPromising: {
				Strategy: "Activate & Motivate",
				Actions: []string{
					"🔥 Ofertas limitadas en tiempo",
					"📦 Envío gratuito en próxima compra",
					"🎯 Retargeting personalizado",
					"📞 Llamada de seguimiento",
				},
				BudgetTier:  "Medio",
				Priority:    "Media",
				ExpectedROI: "80-120%",
			},
			entities.SegmentNeedAttention: {
				Strategy: "Re-engage & Win Back",
				Actions: []string{
					"💌 Campaña de reactivación",
					"🎁 Oferta especial (15-25%)",
					"📋 Encuesta de feedback",
					"🆕 Mostrar nuevos productos",
				},
				BudgetTier:  "Bajo-Medio",
				Priority:    "Media",
				ExpectedROI: "50-100%",
			},
			entities.SegmentAtRisk: {
				Strategy: "Win Back Urgently",
				Actions: []string{
					"🚨 Campaña urgente de retención",
					"💥 Descuento agresivo (20-30%)",
					"📞 Contacto directo del equipo",
					"🎁 Regalo sorpresa",
				},
				BudgetTier:  "Bajo",
				Priority:    "Baja",
				ExpectedROI: "20-50%",
			},
			entities.SegmentLost: {
				Strategy: "Last Chance Recovery",
				Actions: []string{
					"💔 Campaña de despedida",
					"🎁 Oferta final irresistible (30-40%)",
					"📊 Análisis de por qué se perdió",
					"🔄 Remarketing a largo plazo",
				},
				BudgetTier:  "Muy Bajo",
				Priority:    "Muy Baja",
				ExpectedROI: "0-20%",
			},
		},
		baseBudgets: map[entities.Segment]decimal.Decimal{
			entities.SegmentChampions:          decimal.NewFromInt(50),
			entities.SegmentLoyalCustomers:     decimal.NewFromInt(35),
			entities.SegmentPotentialLoyalists: decimal.NewFromInt(25),
			entities.SegmentNewCustomers:       decimal.NewFromInt(15),
			entities.SegmentPromising:          decimal.NewFromInt(20),
			entities.SegmentNeedAttention:      decimal.NewFromInt(12),
			entities.SegmentAtRisk:             decimal.NewFromInt(8),
			entities.SegmentLost:               decimal.NewFromInt(3),
		},
		wProbability: 0.4,
		wMonetary:    0.3,
		wFrequency:   0.2,
		wRecency:     0.1,
	}
}

// Playbook returns the action bundle for a segment. Unknown keys resolve to
// the Lost playbook so a recommendation is always available.
func (s *RecommendationService) Playbook(segment entities.Segment) entities.Playbook {
	if pb, ok := s.playbooks[segment]; ok {
		return pb
	}
	return s.playbooks[entities.SegmentLost]
}

// ValueScore computes the 0-100 composite customer value: probability 40%,
// monetary 30%, frequency 20%, recency 10%, each normalized to [0,1] first.
// Recency clamps to zero beyond 365 days; it never goes negative. Rounded
// to one decimal.
func (s *RecommendationService) ValueScore(rfm entities.CustomerRFM, probability float64) float64 {
	recencyNorm := math.Max(0, (365-float64(rfm.Recency))/365)
	frequencyNorm := math.Min(1, float64(rfm.Frequency)/20)
	monetaryNorm := math.Min(1, rfm.Monetary/5000)

	total := (probability*s.wProbability +
		monetaryNorm*s.wMonetary +
		frequencyNorm*s.wFrequency +
		recencyNorm*s.wRecency) * 100

	return math.Round(total*10) / 10
}

// SuggestedBudget allocates a per-customer campaign budget: the segment's
// base amount scaled by the value-score band, rounded to 2 decimals.
func (s *RecommendationService) SuggestedBudget(segment entities.Segment, valueScore float64) float64 {
	base, ok := s.baseBudgets[segment]
	if !ok {
		base = fallbackBaseBudget
	}

	var multiplier decimal.Decimal
	switch {
	case valueScore >= 80:
		multiplier = decimal.NewFromFloat(1.5)
	case valueScore >= 60:
		multiplier = decimal.NewFromFloat(1.2)
	case valueScore >= 40:
		multiplier = decimal.NewFromInt(1)
	default:
		multiplier = decimal.NewFromFloat(0.7)
	}

	return base.Mul(multiplier).Round(2).InexactFloat64()
}
