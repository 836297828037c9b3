package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sadopc/focusflow/internal/kv"
)

func TestPreferencesDefaultsAndRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.Prefs.LoadPreferences(ctx); got != DefaultPreferences() {
		t.Fatalf("expected defaults, got %+v", got)
	}

	p := DefaultPreferences()
	p.Theme = "dark"
	p.FocusDuration = 50
	p.UserName = "Sam"
	if err := s.Prefs.SavePreferences(ctx, p); err != nil {
		t.Fatal(err)
	}
	if got := s.Prefs.LoadPreferences(ctx); got != p {
		t.Fatalf("got %+v, want %+v", got, p)
	}

	p.FocusDuration = 0
	if err := s.Prefs.SavePreferences(ctx, p); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
}

func TestPartialPreferencesKeepDefaults(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	s.KV.Set(ctx, keyPreferences, `{"theme":"light"}`)

	got := s.Prefs.LoadPreferences(ctx)
	if got.Theme != "light" || got.FocusDuration != 25 || !got.Notifications {
		t.Fatalf("unexpected prefs: %+v", got)
	}
}

func TestAccessibility(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.Prefs.LoadAccessibility(ctx); got != DefaultAccessibility() {
		t.Fatalf("expected defaults, got %+v", got)
	}
	a := AccessibilitySettings{HighContrast: true, TextSize: 1.2, ColorBlindMode: "tritanopia"}
	if err := s.Prefs.SaveAccessibility(ctx, a); err != nil {
		t.Fatal(err)
	}
	if got := s.Prefs.LoadAccessibility(ctx); got != a {
		t.Fatalf("got %+v, want %+v", got, a)
	}

	bad := []AccessibilitySettings{
		{TextSize: 3, ColorBlindMode: "none"},
		{TextSize: 1, ColorBlindMode: "sepia"},
	}
	for _, b := range bad {
		if err := s.Prefs.SaveAccessibility(ctx, b); !errors.Is(err, ErrInvalidSetting) {
			t.Errorf("%+v: expected ErrInvalidSetting, got %v", b, err)
		}
	}
}

func TestSetByName(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for name, value := range map[string]string{
		"theme":                     "dark",
		"sound":                     "false",
		"focus_duration":            "45",
		"sessions_until_long_break": "3",
		"text_size":                 "1.4",
		"color_blind_mode":          "protanopia",
		"high_contrast":             "true",
	} {
		if err := s.Prefs.Set(ctx, name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	p := s.Prefs.LoadPreferences(ctx)
	if p.Theme != "dark" || p.SoundEnabled || p.FocusDuration != 45 || p.SessionsUntilLongBreak != 3 {
		t.Fatalf("unexpected prefs: %+v", p)
	}
	a := s.Prefs.LoadAccessibility(ctx)
	if a.TextSize != 1.4 || a.ColorBlindMode != "protanopia" || !a.HighContrast {
		t.Fatalf("unexpected accessibility: %+v", a)
	}

	for _, bad := range [][2]string{{"volume", "3"}, {"focus_duration", "abc"}, {"theme", "neon"}, {"sound", "maybe"}} {
		if err := s.Prefs.Set(ctx, bad[0], bad[1]); !errors.Is(err, ErrInvalidSetting) {
			t.Errorf("set %s=%s: expected ErrInvalidSetting, got %v", bad[0], bad[1], err)
		}
	}
}

// slowKV widens the gap between a load and the following save.
type slowKV struct {
	*kv.Memory
}

func (s slowKV) Get(ctx context.Context, key string) (string, bool, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Memory.Get(ctx, key)
}

func TestSetConcurrentKeepsBothChanges(t *testing.T) {
	s := New(slowKV{kv.NewMemory()}, WithClock(newClock().now))
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, kvp := range [][2]string{{"user_name", "ada"}, {"focus_duration", "50"}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Prefs.Set(ctx, kvp[0], kvp[1])
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatal(err)
		}
	}

	p := s.Prefs.LoadPreferences(ctx)
	if p.UserName != "ada" || p.FocusDuration != 50 {
		t.Fatalf("lost an update: userName=%q focusDuration=%d", p.UserName, p.FocusDuration)
	}
}

func TestShield(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	sh := s.Prefs.LoadShield(ctx)
	if diff := cmp.Diff(DefaultShieldSettings(), sh); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	sh, _ = s.Prefs.EnableShield(ctx)
	if !sh.IsEnabled {
		t.Fatal("expected enabled")
	}
	sh, err := s.Prefs.AddBlockedApp(ctx, BlockedApp{Name: "Social", PackageName: "com.social"})
	if err != nil {
		t.Fatal(err)
	}
	appID := sh.BlockedApps[0].ID
	sh, _ = s.Prefs.AddBlockedWebsite(ctx, BlockedWebsite{URL: "news.example.com", Category: "news"})
	siteID := sh.BlockedWebsites[0].ID
	sh, _ = s.Prefs.UpdateNotificationSettings(ctx, ShieldNotificationSettings{AllowCalls: true})

	got := s.Prefs.LoadShield(ctx)
	if diff := cmp.Diff(sh, got); diff != "" {
		t.Fatalf("shield mismatch (-want +got):\n%s", diff)
	}
	if got.NotificationSettings.AllowImportant || !got.NotificationSettings.AllowCalls {
		t.Fatalf("unexpected notification settings: %+v", got.NotificationSettings)
	}

	if _, err := s.Prefs.RemoveBlockedApp(ctx, appID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Prefs.RemoveBlockedWebsite(ctx, siteID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Prefs.RemoveBlockedApp(ctx, appID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Prefs.AddBlockedWebsite(ctx, BlockedWebsite{}); !errors.Is(err, ErrInvalidSetting) {
		t.Fatalf("expected ErrInvalidSetting, got %v", err)
	}
	sh, _ = s.Prefs.DisableShield(ctx)
	if sh.IsEnabled || len(sh.BlockedApps) != 0 {
		t.Fatalf("unexpected shield: %+v", sh)
	}
}
