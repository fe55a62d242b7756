package settings

import themetempl "github.com/codr1/wfxconsole/internal/templates/components/themes"

// PreferencesKey is the durable storage key for Preferences.
const PreferencesKey = "preferences"

type Preferences struct {
	CompactMode      bool `json:"compactMode"`
	Animations       bool `json:"animations"`
	SidebarCollapsed bool `json:"sidebarCollapsed"`
}

func DefaultPreferences() Preferences {
	return Preferences{Animations: true}
}

type SettingsData struct {
	Themes      []themetempl.Option
	Preferences Preferences
}
