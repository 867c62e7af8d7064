package curriculum

import (
	"strings"

	"github.com/currilab/curricula-backend/internal/domain"
)

// Fundamental markers take priority: a name matching both sets is core.
var fundamentalKeywords = []string{
	"математ", "анализ", "статистик", "вероятност",
	"исследование операций", "оптимизац", "механик",
	"моделирован", "расчёт", "расчет",
	"программирован", "python", "алгоритм", "структуры данных",
	"микроконтроллер", "кодирован",
	"архитектур", "операционн", "системн", "электротехн", "электроник",
	"сет", "network", "базы данных", "sql", "nosql", "субд",
	"автоматическ", "теория управления", "управление техническими системами",
	"информационные технологии", "it", "информационн систем",
}

// Applied and soft-skill markers map to the elective block.
var appliedKeywords = []string{
	"маркетинг", "предприниматель", "бизнес",
	"управление качеством", "управление рисками",
	"управление персоналом", "медиаплан",
	"когнитив", "конфликтолог",
	"стресс", "чтение", "письмо",
	"риторика", "ораторское", "лидерство",
	"групповая динамика", "культур", "психолог", "социолог",
	"философ", "история", "экономик",
}

func containsAny(name string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(name, k) {
			return true
		}
	}
	return false
}

// IsFundamental reports whether a discipline name carries a fundamental
// marker.
func IsFundamental(name string) bool {
	return containsAny(strings.ToLower(name), fundamentalKeywords)
}

// Classify assigns a block to a discipline name. Unmatched names default
// to elective; the rebalancing pass compensates for the asymmetry.
func Classify(name string) domain.Block {
	lower := strings.ToLower(name)
	if containsAny(lower, fundamentalKeywords) {
		return domain.BlockCore
	}
	if containsAny(lower, appliedKeywords) {
		return domain.BlockElective
	}
	return domain.BlockElective
}
