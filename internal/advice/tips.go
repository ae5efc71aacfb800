package advice

import (
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/actuallystonmai/health-advisor/internal/domain"
)

// tipPair holds one tip for constipated types (1-3) and one for the rest.
type tipPair struct {
	firm  string
	loose string
}

func (p tipPair) pick(t domain.BristolType) string {
	if t.Constipated() {
		return p.firm
	}
	return p.loose
}

var (
	youngTips = tipPair{
		firm:  "At your age a steady morning routine helps: a glass of water and 15 minutes of movement before breakfast",
		loose: "Late meals, energy drinks and short sleep often loosen stools; keep meal times regular this week",
	}
	middleTips = tipPair{
		firm:  "Long desk days slow digestion; stand up and walk for 5 minutes every hour",
		loose: "Work stress is a common trigger at this stage; schedule a 10-minute decompression break after work",
	}
	seniorTips = tipPair{
		firm:  "Digestion slows with age; favor cooked vegetables and soaked prunes, and ask your doctor whether any medication constipates",
		loose: "Dehydration sets in faster after 50; sip an electrolyte drink and watch for dizziness",
	}
)

var dietTips = map[string]tipPair{
	"vegetarian": {
		firm:  "As a vegetarian, add lentils and chia seeds for fiber and drink enough water to move it along",
		loose: "As a vegetarian, favor cooked vegetables and white rice over raw salads until stools firm up",
	},
	"vegan": {
		firm:  "Your vegan diet is already fiber-rich; pair it with at least 2 liters of water so the fiber can soften stool",
		loose: "Cut back on raw legumes and cruciferous vegetables for now; cooked carrots and bananas are gentler",
	},
	"keto": {
		firm:  "Keto diets are often low in fiber; add psyllium husk, avocado and low-carb greens",
		loose: "High fat intake on keto can loosen stools; reduce added oils and MCT for a few days",
	},
	"regular": {
		firm:  "Swap white bread and pasta for whole-grain versions and add one vegetable serving per meal",
		loose: "Cut back on fried and greasy dishes and keep portions moderate",
	},
}

var otherDietTips = tipPair{
	firm:  "Whatever your eating pattern, aim for 25-30g of fiber daily with steady hydration",
	loose: "Whatever your eating pattern, favor simple, well-cooked meals until things settle",
}

var exerciseTips = map[string]tipPair{
	"sedentary": {
		firm:  "Start with a 10-minute walk after each meal; light movement stimulates the bowel",
		loose: "Gentle stretching is enough for now; avoid suddenly starting intense workouts",
	},
	"light": {
		firm:  "Extend your walks to 30 minutes and add yoga twists twice a week",
		loose: "Keep activity light and rehydrate after every session",
	},
	"moderate": {
		firm:  "Keep your routine and add core work such as bridges and bird-dogs",
		loose: "Scale back to easy sessions until stools return to normal",
	},
	"active": {
		firm:  "With your training load, replace sweat losses fully; dehydration hardens stool",
		loose: "Pause long or high-intensity sessions and replace electrolytes",
	},
}

// personalizedTips draws up to three profile tips, or falls back to the
// per-type list when the profile gives nothing to work with.
func personalizedTips(t domain.BristolType, p *domain.UserProfile) []string {
	var tips []string
	if p != nil {
		if pair, ok := ageTips(p.Age); ok {
			tips = append(tips, pair.pick(t))
		}
		if diet := normalize(p.Diet); diet != "" {
			pair, ok := dietTips[diet]
			if !ok {
				pair = otherDietTips
			}
			tips = append(tips, pair.pick(t))
		}
		if pair, ok := exerciseTips[normalize(p.Exercise)]; ok {
			tips = append(tips, pair.pick(t))
		}
	}
	if len(tips) == 0 {
		return slices.Clone(templateFor(t).tips)
	}
	return tips
}

func ageTips(raw string) (tipPair, bool) {
	age, ok := parseAge(raw)
	if !ok {
		return tipPair{}, false
	}
	switch {
	case age < 30:
		return youngTips, true
	case age < 50:
		return middleTips, true
	default:
		return seniorTips, true
	}
}

// parseAge reads the leading digits of a free-form age such as "34" or "45 years".
func parseAge(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	end := strings.IndexFunc(raw, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(raw)
	}
	if end == 0 {
		return 0, false
	}
	age, err := strconv.Atoi(raw[:end])
	if err != nil || age <= 0 {
		return 0, false
	}
	return age, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
