package investigation

import (
	"strings"

	"github.com/Rouggerxavier/projeto-chatbot/pkg/textnorm"
)

var placeholderValues = map[string]bool{
	"":        true,
	"unknown": true, "none": true, "null": true,
	"default": true, "generic": true, "general": true,
	"any": true, "whatever": true, "not informed": true,
}

func isValidContextValue(value string) bool {
	return !placeholderValues[textnorm.Norm(value)]
}

// CanAnswer is the central gate before any technical synthesis. It returns
// true only when the minimum context for the category was explicitly
// collected from the user; no call path may generate a recommendation past
// a false here. Independent of anything the LLM claims.
func CanAnswer(product string, context map[string]string) bool {
	if product == "" || len(context) == 0 {
		return false
	}

	p := textnorm.Norm(product)
	application := context["application"]

	// application is always required, except for paint (surface-driven)
	if !isValidContextValue(application) && !strings.Contains(p, "paint") {
		return false
	}

	if strings.Contains(p, "cement") {
		// cement needs application + environment, except for jobs where
		// the application alone pins the answer
		app := textnorm.Norm(application)
		if app == "foundation" || app == "plaster" || app == "floor" {
			return true
		}
		return isValidContextValue(context["environment"])
	}

	if strings.Contains(p, "paint") {
		// paint needs surface + environment
		return isValidContextValue(context["surface"]) && isValidContextValue(context["environment"])
	}

	// sand, gravel, mortar and anything unlisted: application is enough
	return true
}
