package slug

// builtinStopWords is the fixed set of generic terms dropped from final
// event tags (GLOSSARY: days, months, genre-generic nouns, filler adverbs).
// Every entry here must already be in normalized slug form.
var builtinStopWords = buildStopWordSet(
	// Days of week.
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
	// Months.
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	// Genre-generic nouns.
	"event", "events", "class", "classes", "activity", "activities",
	"thing", "things", "stuff", "item", "items", "program", "programs",
	"session", "sessions", "meeting", "meetings", "gathering", "gatherings",
	"happening", "happenings", "occasion", "occasions",
	// Filler adverbs/adjectives.
	"very", "really", "just", "also", "some", "many", "much", "more",
	"most", "such", "like", "well", "good", "great", "nice", "cool",
	"fun", "new", "local", "community", "annual", "weekly", "monthly",
	"daily", "special", "free", "open", "public", "general", "various",
	// Filler connectors/time words that occasionally slip through LLM output.
	"today", "tomorrow", "tonight", "weekend", "weekday", "morning",
	"afternoon", "evening", "night", "time", "date", "schedule",
)

func buildStopWordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
