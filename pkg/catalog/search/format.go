package search

import (
	"fmt"
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/internal/entity"
)

// FormatOptions renders a numbered product list the customer can answer
// with "1", "2", ...
func FormatOptions(products []*entity.Product) string {
	lines := make([]string, 0, len(products))
	for i, p := range products {
		unit := p.Unit
		if unit == "" {
			unit = "unit"
		}
		lines = append(lines, fmt.Sprintf("%d) %s — $ %.2f/%s", i+1, p.Name, p.UnitPrice, unit))
	}
	return strings.Join(lines, "\n")
}
