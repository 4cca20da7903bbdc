// Package language holds the language tags the assistant distinguishes
// and the script-based detection used to pick prompts and content variants.
package language

// Tag is a supported content language.
type Tag string

const (
	// English is the default language.
	English Tag = "en"
	// Arabic is selected when the query contains Arabic-script characters.
	Arabic Tag = "ar"
)

// Detect classifies text by script: any character in the Arabic Unicode
// block (U+0600..U+06FF) selects Arabic, everything else defaults to English.
func Detect(text string) Tag {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return Arabic
		}
	}
	return English
}
