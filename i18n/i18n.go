// Package i18n translates the overlay's user-visible literals.
//
// Literals are looked up by their English text; a missing translation
// falls back to the English text itself.
package i18n

import (
	"os"
	"strings"
	"sync"

	"github.com/jeandeaual/go-locale"
)

// EnvLang overrides the detected system language when set.
const EnvLang = "THROWOVERLAY_LANG"

var (
	mu   sync.RWMutex
	lang = "en"
)

var supported = map[string]bool{"en": true, "de": true, "nl": true, "fr": true}

var translations = map[string]map[string]string{
	"MATCH WON!": {
		"de": "MATCH GEWONNEN!",
		"nl": "MATCH GEWONNEN!",
		"fr": "MATCH GAGNÉ!",
	},
	"GAME SHOT!": {
		"de": "LEG GEWONNEN!",
		"nl": "LEG GEWONNEN!",
		"fr": "LEG GAGNÉ!",
	},
	"MISS": {
		"de": "DANEBEN!",
		"nl": "MIS!",
		"fr": "RATÉ!",
	},
	"Turn": {
		"de": "Aufnahme",
		"nl": "Beurt",
		"fr": "Tour",
	},
	"Remaining": {
		"de": "Rest",
		"nl": "Rest",
		"fr": "Restant",
	},
	"Last Throw": {
		"de": "Letzter Wurf",
		"nl": "Laatste worp",
		"fr": "Dernier lancer",
	},
	"Darts": {
		"de": "Darts",
		"nl": "Pijlen",
		"fr": "Fléchettes",
	},
	"Player": {
		"de": "Spieler",
		"nl": "Speler",
		"fr": "Joueur",
	},
	"Your turn": {
		"de": "Du bist dran",
		"nl": "Jij bent aan de beurt",
		"fr": "À toi de jouer",
	},
	"connected": {
		"de": "verbunden",
		"nl": "verbonden",
		"fr": "connecté",
	},
	"connecting": {
		"de": "verbinde",
		"nl": "verbinden",
		"fr": "connexion",
	},
	"disconnected": {
		"de": "getrennt",
		"nl": "verbroken",
		"fr": "déconnecté",
	},
	"Tap to dismiss": {
		"de": "Tippen zum Schließen",
		"nl": "Tik om te sluiten",
		"fr": "Toucher pour fermer",
	},
	"Video clip": {
		"de": "Videoclip",
		"nl": "Videoclip",
		"fr": "Clip vidéo",
	},
}

// Detect picks the language from EnvLang, then the system locale, then "en".
func Detect() string {
	if forced := strings.TrimSpace(os.Getenv(EnvLang)); forced != "" {
		return normalize(forced)
	}
	userLocales, err := locale.GetLocales()
	if err != nil || len(userLocales) == 0 {
		return "en"
	}
	return normalize(userLocales[0])
}

func normalize(tag string) string {
	tag = strings.ToLower(tag)
	for code := range supported {
		if strings.HasPrefix(tag, code) {
			return code
		}
	}
	return "en"
}

// SetLang selects the active language. Unsupported codes are ignored and
// reported as false.
func SetLang(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	if !supported[code] {
		return false
	}
	mu.Lock()
	lang = code
	mu.Unlock()
	return true
}

// GetLang returns the active language code.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}

// T translates key into the active language.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}
