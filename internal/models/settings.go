package models

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Settings are the per-account UI and pomodoro preferences.
type Settings struct {
	Theme         Theme  `json:"theme" validate:"oneof=light dark"`
	PrimaryColor  string `json:"primaryColor" validate:"hexcolor"`
	FontSize      string `json:"fontSize" validate:"required"`
	PomodoroWork  int    `json:"pomodoroWork" validate:"min=1,max=240"`
	PomodoroBreak int    `json:"pomodoroBreak" validate:"min=1,max=120"`
	Language      string `json:"language" validate:"oneof=en ar"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:         ThemeDark,
		PrimaryColor:  "#00bfff",
		FontSize:      "16px",
		PomodoroWork:  25,
		PomodoroBreak: 5,
		Language:      "en",
	}
}

// SettingsPatch is a partial settings update.
type SettingsPatch struct {
	Theme         *Theme
	PrimaryColor  *string
	FontSize      *string
	PomodoroWork  *int
	PomodoroBreak *int
	Language      *string
}

// Apply returns s with the non-nil fields of p merged in.
func (s Settings) Apply(p SettingsPatch) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.PrimaryColor != nil {
		s.PrimaryColor = *p.PrimaryColor
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.PomodoroWork != nil {
		s.PomodoroWork = *p.PomodoroWork
	}
	if p.PomodoroBreak != nil {
		s.PomodoroBreak = *p.PomodoroBreak
	}
	if p.Language != nil {
		s.Language = *p.Language
	}
	return s
}
