package ledger

import "strings"

// DefaultCategory is used when no keyword matches a description.
const DefaultCategory = "other"

type categoryRule struct {
	Name     string
	Keywords []string
}

// categoryRules is scanned front to back; the first keyword contained in the
// description wins, so the slice order is part of the behavior.
var categoryRules = []categoryRule{
	{Name: "food", Keywords: []string{
		"pizza", "falafel", "hummus", "shawarma", "sushi", "burger",
		"restaurant", "coffee", "cafe", "breakfast", "lunch", "dinner",
		"groceries", "supermarket", "אוכל", "פיצה", "קפה", "מסעדה", "סופר",
	}},
	{Name: "shopping", Keywords: []string{
		"clothes", "shirt", "dress", "shoes", "mall", "shopping", "souvenir",
		"gift", "קניות", "בגדים", "מתנה",
	}},
	{Name: "fun", Keywords: []string{
		"bar", "beer", "wine", "party", "movie", "cinema", "show", "club",
		"museum", "concert", "בילוי", "בילויים", "סרט", "הופעה",
	}},
	{Name: "transport", Keywords: []string{
		"taxi", "bus", "train", "metro", "uber", "gett", "flight", "gas",
		"fuel", "parking", "מונית", "אוטובוס", "רכבת", "דלק", "טיסה",
	}},
	{Name: "lodging", Keywords: []string{
		"hotel", "hostel", "airbnb", "room", "מלון", "צימר",
	}},
}

// GuessCategory derives a category from the description by case-insensitive
// substring lookup.
func GuessCategory(description string) string {
	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Name
			}
		}
	}
	return DefaultCategory
}

// funReplies echo the tone of the category back at the sender, as the
// original bot did.
var funReplies = map[string]string{
	"food":      "hope it was tasty 😋",
	"shopping":  "enjoy the new stuff 👗",
	"fun":       "you earned it 🎉",
	"transport": "safe travels 🚌",
	"lodging":   "sleep tight 🏨",
}

// FunReply returns the category's signature reply line.
func FunReply(category string) string {
	if r, ok := funReplies[category]; ok {
		return r
	}
	return "money well spent 💸"
}
