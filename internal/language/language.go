package language

import (
	"fmt"
	"sort"
	"strings"

	xlang "golang.org/x/text/language"
)

// supported is the ISO 639-1 set the voice cloning model accepts. The
// transcription model covers a superset, so this list gates both stages.
var supported = map[string]string{
	"ar": "Arabic",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"ms": "Malay",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"sv": "Swedish",
	"sw": "Swahili",
	"tr": "Turkish",
	"zh": "Chinese",
}

var byName map[string]string

func init() {
	byName = make(map[string]string, len(supported))
	for code, name := range supported {
		byName[strings.ToLower(name)] = code
	}
}

// Normalize canonicalizes user language input to a supported ISO 639-1 code.
// It accepts bare codes ("fr"), regional tags ("pt-BR"), three-letter codes
// ("fra"), and English names ("french"). Unsupported languages return an
// error listing the accepted codes.
func Normalize(input string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(input))
	if trimmed == "" {
		return "", fmt.Errorf("language must not be empty (supported: %s)", strings.Join(Supported(), ", "))
	}

	if code, ok := byName[trimmed]; ok {
		return code, nil
	}

	if tag, err := xlang.Parse(trimmed); err == nil {
		base, confidence := tag.Base()
		if confidence != xlang.No {
			if _, ok := supported[base.String()]; ok {
				return base.String(), nil
			}
		}
	}

	if _, ok := supported[trimmed]; ok {
		return trimmed, nil
	}

	return "", fmt.Errorf("language %q is not supported (supported: %s)", input, strings.Join(Supported(), ", "))
}

// Supported returns the sorted list of accepted ISO 639-1 codes.
func Supported() []string {
	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DisplayName returns the English name for a supported code, or the code
// itself when unknown.
func DisplayName(code string) string {
	if name, ok := supported[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return code
}
