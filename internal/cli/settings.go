package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/dmitrijs2005/rerange/internal/models"
)

const settingsHelp = "settings set theme|color|font|work|break|language <value>"

// Settings shows the active settings or changes one of them.
func (a *App) Settings(ctx context.Context, args []string) error {
	if len(args) == 0 {
		if !a.store.IsActive() {
			return common.ErrNotAuthenticated
		}
		s := a.store.Settings()
		printlnFn(fmt.Sprintf("theme=%s color=%s font=%s work=%dm break=%dm language=%s",
			s.Theme, s.PrimaryColor, s.FontSize, s.PomodoroWork, s.PomodoroBreak, s.Language))
		return nil
	}

	if len(args) != 3 || args[0] != "set" {
		return usage(settingsHelp)
	}

	patch, err := settingsPatch(args[1], args[2])
	if err != nil {
		return err
	}
	if _, err := a.store.UpdateSettings(ctx, patch); err != nil {
		return err
	}
	a.syncPomodoro()
	printlnFn("Settings saved")
	return nil
}

func settingsPatch(key, value string) (models.SettingsPatch, error) {
	var p models.SettingsPatch

	switch key {
	case "theme":
		t := models.Theme(value)
		p.Theme = &t
	case "color":
		p.PrimaryColor = &value
	case "font":
		p.FontSize = &value
	case "language", "lang":
		p.Language = &value
	case "work", "break":
		n, err := strconv.Atoi(value)
		if err != nil {
			return p, fmt.Errorf("%w: %s must be a number of minutes", common.ErrValidation, key)
		}
		if key == "work" {
			p.PomodoroWork = &n
		} else {
			p.PomodoroBreak = &n
		}
	default:
		return p, usage(settingsHelp)
	}
	return p, nil
}
