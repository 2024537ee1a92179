// internal/scoring/keywords.go
package scoring

import "strings"

// CuisineKeywords maps a cuisine label to the free-text words that signal it.
var CuisineKeywords = map[string][]string{
	"Italian":        {"italian", "pasta", "pizza", "carbonara", "risotto", "lasagna", "gnocchi"},
	"Japanese":       {"japanese", "sushi", "ramen", "izakaya", "omakase", "tempura", "udon"},
	"Mexican":        {"mexican", "taco", "tacos", "birria", "quesadilla", "al pastor", "margarita", "mole"},
	"Thai":           {"thai", "pad thai", "curry", "tom yum", "larb"},
	"Indian":         {"indian", "curry", "tikka", "biryani", "naan", "masala"},
	"Chinese":        {"chinese", "dim sum", "dumplings", "noodles", "szechuan", "sichuan", "hot pot"},
	"Korean":         {"korean", "kbbq", "korean bbq", "bibimbap", "bulgogi", "kimchi"},
	"Vietnamese":     {"vietnamese", "pho", "banh mi", "bun bo"},
	"Mediterranean":  {"mediterranean", "hummus", "falafel", "shawarma", "kebab", "mezze"},
	"Middle Eastern": {"middle eastern", "shawarma", "kebab", "falafel"},
	"French":         {"french", "bistro", "steak frites", "croissant", "coq au vin"},
	"American":       {"american", "burger", "burgers", "wings", "mac and cheese", "comfort food"},
	"Seafood":        {"seafood", "oysters", "fish", "lobster", "crab", "shrimp", "ceviche"},
	"Steakhouse":     {"steak", "steakhouse", "ribeye", "filet", "porterhouse"},
	"BBQ":            {"bbq", "barbecue", "brisket", "ribs", "smoked"},
	"Greek":          {"greek", "gyro", "souvlaki", "tzatziki"},
	"Spanish":        {"spanish", "tapas", "paella", "sangria"},
	"Pizza":          {"pizza", "deep dish", "tavern style", "slice"},
}

// TagKeywords maps a stored tag to the request words that express it.
var TagKeywords = map[string][]string{
	"rooftop":    {"rooftop", "roof", "skyline", "view", "views"},
	"cozy":       {"cozy", "intimate", "snug", "fireplace"},
	"trendy":     {"trendy", "hip", "scene", "buzzy", "hot spot"},
	"romantic":   {"romantic", "candlelit", "date"},
	"late-night": {"late night", "late-night", "after hours", "open late"},
	"brunch":     {"brunch", "mimosa", "bottomless"},
	"patio":      {"patio", "outdoor", "outside", "al fresco"},
	"dive":       {"dive", "hole in the wall", "no frills", "cash only"},
	"upscale":    {"upscale", "fancy", "elegant", "white tablecloth", "dress up"},
	"casual":     {"casual", "low key", "low-key", "chill"},
	"live-music": {"live music", "band", "jazz", "dj"},
	"speakeasy":  {"speakeasy", "hidden bar", "secret"},
	"sports-bar": {"sports bar", "game", "watch party"},
}

// FeatureKeywords maps a stored feature to the request words that express it.
var FeatureKeywords = map[string][]string{
	"outdoor_seating": {"patio", "outdoor", "outside", "al fresco", "rooftop"},
	"live_music":      {"live music", "band", "jazz"},
	"byob":            {"byob", "bring your own"},
	"full_bar":        {"cocktail", "cocktails", "drinks", "bar program"},
	"wine_list":       {"wine", "sommelier", "wine list"},
	"private_dining":  {"private room", "private dining", "buyout"},
	"late_hours":      {"late night", "open late", "after hours"},
	"reservations":    {"reservation", "book a table"},
	"parking":         {"parking", "valet"},
}

// DietaryKeywords maps a dietary option to the request words that express it.
var DietaryKeywords = map[string][]string{
	"vegetarian":  {"vegetarian", "veggie", "meatless"},
	"vegan":       {"vegan", "plant based", "plant-based"},
	"gluten-free": {"gluten free", "gluten-free", "celiac"},
	"halal":       {"halal"},
	"kosher":      {"kosher"},
	"pescatarian": {"pescatarian"},
}

// FlavorKeywords maps a flavor profile to the request words that express it.
var FlavorKeywords = map[string][]string{
	"spicy":  {"spicy", "heat", "fiery", "hot and"},
	"rich":   {"rich", "decadent", "indulgent", "buttery"},
	"smoky":  {"smoky", "charred", "wood-fired", "wood fired"},
	"sweet":  {"sweet", "dessert"},
	"umami":  {"umami", "savory"},
	"fresh":  {"fresh", "light", "bright", "crisp"},
	"tangy":  {"tangy", "sour", "citrus", "acidic"},
	"crispy": {"crispy", "crunchy", "fried"},
}

// GoodForKeywords maps a good_for label to the request words that express it.
var GoodForKeywords = map[string][]string{
	"birthdays":        {"birthday"},
	"anniversaries":    {"anniversary"},
	"large groups":     {"big group", "large group", "party of", "group of"},
	"first dates":      {"first date"},
	"business dinners": {"client", "business dinner", "work dinner"},
	"celebrations":     {"celebrate", "celebration", "special"},
	"catching up":      {"catch up", "catching up", "old friend"},
}

// IntentHint is one entry of the curated phrase dictionary: a request phrase
// mapped to the cuisines, tags, and features it implies.
type IntentHint struct {
	Cuisines []string
	Tags     []string
	Features []string
}

// IntentMap is the curated phrase dictionary applied to raw request text.
var IntentMap = map[string]IntentHint{
	"comfort food":     {Cuisines: []string{"American", "Italian"}, Tags: []string{"cozy", "casual"}},
	"something spicy":  {Cuisines: []string{"Thai", "Indian", "Chinese", "Korean"}},
	"noodles":          {Cuisines: []string{"Japanese", "Chinese", "Vietnamese", "Thai"}},
	"date spot":        {Tags: []string{"romantic", "cozy"}, Features: []string{"full_bar"}},
	"drinks and apps":  {Tags: []string{"trendy"}, Features: []string{"full_bar"}},
	"hole in the wall": {Tags: []string{"dive"}},
	"somewhere new":    {Tags: []string{"trendy"}},
	"night out":        {Tags: []string{"trendy", "late-night"}, Features: []string{"full_bar"}},
	"quick bite":       {Tags: []string{"casual"}},
	"fancy dinner":     {Tags: []string{"upscale"}, Features: []string{"wine_list"}},
	"watch the game":   {Tags: []string{"sports-bar"}, Features: []string{"full_bar"}},
	"outdoor dining":   {Tags: []string{"patio"}, Features: []string{"outdoor_seating"}},
	"something sweet":  {Tags: []string{"casual"}},
	"healthy":          {Cuisines: []string{"Mediterranean"}, Tags: []string{"casual"}},
	"seafood":          {Cuisines: []string{"Seafood"}},
}

// StopWords are skipped when building word overlap sets.
var StopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "for": true,
	"with": true, "some": true, "want": true, "like": true, "good": true,
	"place": true, "food": true, "i": true, "im": true, "i'm": true,
	"to": true, "of": true, "in": true, "me": true, "my": true, "we": true,
	"something": true, "somewhere": true, "really": true, "just": true,
}

// containsAny reports whether text contains any of the keywords.
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// countMatches counts how many keywords appear in text.
func countMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// meaningfulWords splits text into lowercase words longer than three
// characters with stop words removed.
func meaningfulWords(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9' || r == '\'')
	})
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		if len(w) <= 3 || StopWords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// UnmatchedKeywords returns the meaningful request words that hit none of the
// dictionaries. Logged for vocabulary gap analysis; never affects scoring.
func UnmatchedKeywords(request string) []string {
	if len(strings.TrimSpace(request)) < 3 {
		return nil
	}

	var gaps []string
	for _, w := range meaningfulWords(request) {
		found := false
		for _, dict := range []map[string][]string{CuisineKeywords, TagKeywords, FeatureKeywords, DietaryKeywords, FlavorKeywords, GoodForKeywords} {
			for _, kws := range dict {
				for _, kw := range kws {
					if strings.Contains(kw, w) || strings.Contains(w, kw) {
						found = true
						break
					}
				}
				if found {
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			gaps = append(gaps, w)
		}
	}
	return gaps
}
