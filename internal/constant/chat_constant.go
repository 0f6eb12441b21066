package constant

const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"

	StoreHours = "We are open Monday to Friday, 7am to 6pm; Saturday, 7am to noon."

	// Fixed apology returned when the orchestrator recovers from a panic.
	HumanFallbackReply = "I had a problem processing your message just now. Could you try again?"
)

// Greetings matched after normalization.
var Greetings = []string{
	"good morning", "good afternoon", "good evening",
	"hi", "hello", "hey", "hey there", "whats up",
}

// Buy-intent markers; any of these plus a product hint triggers a catalog
// suggestion.
var IntentKeywords = []string{
	"i want", "i need", "i would like", "do you have", "do you sell",
	"how much", "price", "quote", "budget", "buy", "order",
	"add", "put", "give me", "i will take", "get me",
}

var CartShowKeywords = []string{
	"my budget", "my quote", "show budget", "show quote", "summary",
	"cart", "items", "my order", "what is the total", "how much was it",
}

var CartResetKeywords = []string{
	"clear budget", "clear quote", "reset budget", "empty cart",
	"remove everything", "start over", "start from scratch",
}

var CheckoutKeywords = []string{
	"finalize", "finish", "close", "checkout", "confirm order", "pay",
}

var RemoveKeywords = []string{
	"remove", "take out", "delete", "drop",
}

// Base product vocabulary. A message mentioning one of these words "looks
// like an order" even without an explicit intent keyword.
var BaseProductWords = []string{
	"cement", "sand", "gravel", "brick", "block",
	"tape measure", "cable", "wire", "pipe", "pvc", "paint",
	"mortar", "grout", "screw", "nail",
	"trowel", "hammer", "saw",
}

// Words that must never be mistaken for a product hint
// (preferences and flow control only).
var NonProductWords = []string{
	"delivery", "pickup", "pix", "card", "cash",
	"neighborhood", "zip", "address",
	"finalize", "finish", "checkout", "order", "ok", "sure",
}
