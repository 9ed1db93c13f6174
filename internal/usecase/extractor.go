package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/rationcart/backend/internal/domain"
)

// Compiled regex patterns for line parsing
var (
	// Matches a quantity followed by a unit-ish word in Latin or Devanagari
	// script, e.g. "5 किलो", "2kg", "1.5 liter"
	quantityUnitPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z\p{Devanagari}]+)`)

	// Matches a bare quantity with no trailing word, e.g. "दाल 2"
	bareQuantityPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

	digitsOnlyPattern = regexp.MustCompile(`^\d+$`)
	punctuationOnly   = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// unitMapping normalizes Hindi and English unit words to the canonical
// kg/g/ltr/pack/bottle set
var unitMapping = map[string]string{
	"किलो":     "kg",
	"कग":       "kg",
	"लीटर":     "ltr",
	"ग्राम":    "g",
	"पैक":      "pack",
	"बोतल":     "bottle",
	"kg":       "kg",
	"kilo":     "kg",
	"kilogram": "kg",
	"g":        "g",
	"gram":     "g",
	"l":        "ltr",
	"ltr":      "ltr",
	"liter":    "ltr",
	"litre":    "ltr",
	"pack":     "pack",
	"packet":   "pack",
	"bottle":   "bottle",
}

// termCategory maps a Hindi or English grocery term to its canonical
// English category. Kept as an ordered slice so substring lookup is
// deterministic regardless of map iteration order.
type termCategory struct {
	term     string
	category string
}

var itemTerms = []termCategory{
	{"आटा", "wheat flour"},
	{"चावल", "rice"},
	{"चीनी", "sugar"},
	{"चना", "chickpea"},
	{"दाल", "lentils"},
	{"तेल", "oil"},
	{"नमक", "salt"},
	{"प्याज", "onion"},
	{"आलू", "potato"},
	{"टमाटर", "tomato"},
	{"दूध", "milk"},
	{"अंडा", "eggs"},
	{"मांस", "meat"},
	{"मछली", "fish"},
	{"सब्जी", "vegetables"},
	{"फल", "fruits"},
	{"atta", "wheat flour"},
	{"wheat flour", "wheat flour"},
	{"rice", "rice"},
	{"sugar", "sugar"},
	{"chana", "chickpea"},
	{"dal", "lentils"},
	{"oil", "oil"},
	{"salt", "salt"},
	{"onion", "onion"},
	{"potato", "potato"},
	{"tomato", "tomato"},
	{"milk", "milk"},
	{"egg", "eggs"},
	{"meat", "meat"},
	{"fish", "fish"},
	{"vegetable", "vegetables"},
	{"fruit", "fruits"},
}

const (
	defaultQuantity = "1"
	defaultUnit     = "pack"
)

// TextExtractor turns raw OCR output into structured grocery items
type TextExtractor struct {
	enableDebugLogging bool
}

// NewTextExtractor creates a new text extractor
func NewTextExtractor(enableDebugLogging bool) *TextExtractor {
	return &TextExtractor{enableDebugLogging: enableDebugLogging}
}

// ExtractItems parses an OCR text blob, one grocery item per line.
// Lines shorter than 2 characters or consisting only of digits are dropped.
// Extraction never fails: an unrecognized line still yields an item with a
// best-effort normalized name, and unusable input yields an empty list.
func (e *TextExtractor) ExtractItems(text string) []domain.ExtractedItem {
	var items []domain.ExtractedItem

	for _, line := range strings.Split(text, "\n") {
		rawLine := strings.TrimSpace(line)
		lowered := strings.ToLower(rawLine)

		if len([]rune(lowered)) < 2 || digitsOnlyPattern.MatchString(lowered) {
			continue
		}

		quantity, unit, itemText := extractQuantityUnit(lowered)

		normalizedName := normalizeItemName(itemText)
		if normalizedName == "" {
			continue
		}

		if e.enableDebugLogging {
			log.Printf("[EXTRACT] %q -> name=%q qty=%s unit=%s", rawLine, normalizedName, quantity, unit)
		}

		items = append(items, domain.ExtractedItem{
			RawText:        rawLine,
			Quantity:       quantity,
			Unit:           unit,
			NormalizedName: normalizedName,
		})
	}

	return items
}

// extractQuantityUnit pulls a "number + unit" token out of the line and
// returns the remaining item phrase. A trailing word that is not a known
// unit stays part of the item phrase; only the number is removed then.
func extractQuantityUnit(line string) (quantity, unit, itemText string) {
	quantity = defaultQuantity
	unit = defaultUnit
	itemText = line

	if m := quantityUnitPattern.FindStringSubmatch(line); m != nil {
		if mapped, ok := unitMapping[m[2]]; ok {
			quantity = m[1]
			unit = mapped
			itemText = strings.TrimSpace(strings.Replace(line, m[0], "", 1))
			return quantity, unit, collapseSpaces(itemText)
		}
	}

	if m := bareQuantityPattern.FindStringSubmatch(line); m != nil {
		quantity = m[1]
		itemText = strings.TrimSpace(strings.Replace(line, m[0], "", 1))
	}

	return quantity, unit, collapseSpaces(itemText)
}

// normalizeItemName maps an item phrase to its canonical category.
// Exact substring lookup runs first, then a per-word containment pass,
// then the punctuation-stripped phrase as a last resort.
func normalizeItemName(itemText string) string {
	for _, tc := range itemTerms {
		if strings.Contains(itemText, tc.term) {
			return tc.category
		}
	}

	for _, word := range strings.Fields(itemText) {
		for _, tc := range itemTerms {
			if strings.Contains(word, tc.term) || strings.Contains(tc.term, word) {
				return tc.category
			}
		}
	}

	cleaned := punctuationOnly.ReplaceAllString(itemText, "")
	return strings.TrimSpace(collapseSpaces(cleaned))
}

func collapseSpaces(s string) string {
	return multiSpacePattern.ReplaceAllString(s, " ")
}
