package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	keyPreferences   = "user_preferences"
	keyAccessibility = "accessibilitySettings"
	keyShield        = "shieldSettings"
)

// PreferencesStore holds user preferences, accessibility options and the
// distraction shield configuration.
type PreferencesStore struct {
	base
	validate *validator.Validate
}

func validTextSize(v float64) bool {
	for _, ts := range TextSizes {
		if math.Abs(ts.Value-v) < 1e-9 {
			return true
		}
	}
	return false
}

func (p *PreferencesStore) check(what string, v any) error {
	if err := p.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: %s: %w", what, verrs[0].Field(), ErrInvalidSetting)
		}
		return fmt.Errorf("%s: %w", what, ErrInvalidSetting)
	}
	return nil
}

func (p *PreferencesStore) LoadPreferences(ctx context.Context) UserPreferences {
	prefs := DefaultPreferences()
	if !p.loadInto(ctx, keyPreferences, &prefs) {
		return DefaultPreferences()
	}
	return prefs
}

func (p *PreferencesStore) SavePreferences(ctx context.Context, prefs UserPreferences) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.savePreferences(ctx, prefs)
}

func (p *PreferencesStore) savePreferences(ctx context.Context, prefs UserPreferences) error {
	if err := p.check("save preferences", prefs); err != nil {
		return err
	}
	return p.save(ctx, keyPreferences, prefs)
}

func (p *PreferencesStore) LoadAccessibility(ctx context.Context) AccessibilitySettings {
	a := DefaultAccessibility()
	if !p.loadInto(ctx, keyAccessibility, &a) {
		return DefaultAccessibility()
	}
	return a
}

func (p *PreferencesStore) SaveAccessibility(ctx context.Context, a AccessibilitySettings) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveAccessibility(ctx, a)
}

func (p *PreferencesStore) saveAccessibility(ctx context.Context, a AccessibilitySettings) error {
	if err := p.check("save accessibility", a); err != nil {
		return err
	}
	return p.save(ctx, keyAccessibility, a)
}

// SettingNames lists the names accepted by Set, in display order.
var SettingNames = []string{
	"theme", "notifications", "sound", "haptic",
	"focus_duration", "break_duration", "long_break_duration", "sessions_until_long_break",
	"user_name", "high_contrast", "text_size", "color_blind_mode",
}

// Set changes one preference or accessibility option from its string form.
func (p *PreferencesStore) Set(ctx context.Context, name, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	prefs := p.LoadPreferences(ctx)
	a := p.LoadAccessibility(ctx)
	var err error

	switch name {
	case "theme":
		prefs.Theme = value
	case "notifications":
		prefs.Notifications, err = strconv.ParseBool(value)
	case "sound":
		prefs.SoundEnabled, err = strconv.ParseBool(value)
	case "haptic":
		prefs.HapticEnabled, err = strconv.ParseBool(value)
	case "focus_duration":
		prefs.FocusDuration, err = strconv.Atoi(value)
	case "break_duration":
		prefs.BreakDuration, err = strconv.Atoi(value)
	case "long_break_duration":
		prefs.LongBreakDuration, err = strconv.Atoi(value)
	case "sessions_until_long_break":
		prefs.SessionsUntilLongBreak, err = strconv.Atoi(value)
	case "user_name":
		prefs.UserName = strings.TrimSpace(value)
	case "high_contrast":
		a.HighContrast, err = strconv.ParseBool(value)
		if err == nil {
			return p.saveAccessibility(ctx, a)
		}
	case "text_size":
		a.TextSize, err = strconv.ParseFloat(value, 64)
		if err == nil {
			return p.saveAccessibility(ctx, a)
		}
	case "color_blind_mode":
		a.ColorBlindMode = value
		return p.saveAccessibility(ctx, a)
	default:
		return fmt.Errorf("unknown setting %q: %w", name, ErrInvalidSetting)
	}
	if err != nil {
		return fmt.Errorf("setting %s=%q: %w", name, value, ErrInvalidSetting)
	}
	return p.savePreferences(ctx, prefs)
}

func (p *PreferencesStore) LoadShield(ctx context.Context) ShieldSettings {
	sh := DefaultShieldSettings()
	if !p.loadInto(ctx, keyShield, &sh) {
		return DefaultShieldSettings()
	}
	if sh.BlockedApps == nil {
		sh.BlockedApps = []BlockedApp{}
	}
	if sh.BlockedWebsites == nil {
		sh.BlockedWebsites = []BlockedWebsite{}
	}
	return sh
}

func (p *PreferencesStore) updateShield(ctx context.Context, fn func(*ShieldSettings) error) (ShieldSettings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sh := p.LoadShield(ctx)
	if err := fn(&sh); err != nil {
		return ShieldSettings{}, err
	}
	if err := p.save(ctx, keyShield, sh); err != nil {
		return ShieldSettings{}, fmt.Errorf("update shield: %w", err)
	}
	return sh, nil
}

func (p *PreferencesStore) EnableShield(ctx context.Context) (ShieldSettings, error) {
	return p.updateShield(ctx, func(sh *ShieldSettings) error {
		sh.IsEnabled = true
		return nil
	})
}

func (p *PreferencesStore) DisableShield(ctx context.Context) (ShieldSettings, error) {
	return p.updateShield(ctx, func(sh *ShieldSettings) error {
		sh.IsEnabled = false
		return nil
	})
}

func (p *PreferencesStore) AddBlockedApp(ctx context.Context, app BlockedApp) (ShieldSettings, error) {
	if strings.TrimSpace(app.Name) == "" && strings.TrimSpace(app.PackageName) == "" {
		return ShieldSettings{}, fmt.Errorf("add blocked app: %w", ErrInvalidSetting)
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	return p.updateShield(ctx, func(sh *ShieldSettings) error {
		sh.BlockedApps = append(sh.BlockedApps, app)
		return nil
	})
}

func (p *PreferencesStore) RemoveBlockedApp(ctx context.Context, id string) (ShieldSettings, error) {
	return p.updateShield(ctx, func(sh *ShieldSettings) error {
		n := len(sh.BlockedApps)
		sh.BlockedApps = slices.DeleteFunc(sh.BlockedApps, func(a BlockedApp) bool { return a.ID == id })
		if len(sh.BlockedApps) == n {
			return fmt.Errorf("remove blocked app %q: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (p *PreferencesStore) AddBlockedWebsite(ctx context.Context, site BlockedWebsite) (ShieldSettings, error) {
	if strings.TrimSpace(site.URL) == "" {
		return ShieldSettings{}, fmt.Errorf("add blocked website: %w", ErrInvalidSetting)
	}
	if site.ID == "" {
		site.ID = uuid.NewString()
	}
	return p.updateShield(ctx, func(sh *ShieldSettings) error {
		sh.BlockedWebsites = append(sh.BlockedWebsites, site)
		return nil
	})
}

func (p *PreferencesStore) RemoveBlockedWebsite(ctx context.Context, id string) (ShieldSettings, error) {
	return p.updateShield(ctx, func(sh *ShieldSettings) error {
		n := len(sh.BlockedWebsites)
		sh.BlockedWebsites = slices.DeleteFunc(sh.BlockedWebsites, func(w BlockedWebsite) bool { return w.ID == id })
		if len(sh.BlockedWebsites) == n {
			return fmt.Errorf("remove blocked website %q: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (p *PreferencesStore) UpdateNotificationSettings(ctx context.Context, ns ShieldNotificationSettings) (ShieldSettings, error) {
	return p.updateShield(ctx, func(sh *ShieldSettings) error {
		sh.NotificationSettings = ns
		return nil
	})
}
