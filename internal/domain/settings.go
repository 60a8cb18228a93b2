package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Recognised settings keys
const (
	SettingLookbackDays     = "lookback_days_for_usage"
	SettingSafetyBufferDays = "safety_buffer_days"
	SettingCoverDaysMonday  = "cover_days_monday"
	SettingCoverDaysFriday  = "cover_days_friday"
	SettingCutoffTime       = "cutoff_time"
)

// DefaultSettingValues holds the raw defaults used when a key is absent or unparsable
var DefaultSettingValues = map[string]string{
	SettingLookbackDays:     "14",
	SettingSafetyBufferDays: "0.8",
	SettingCoverDaysMonday:  "4",
	SettingCoverDaysFriday:  "4",
	SettingCutoffTime:       "17:00",
}

// Settings is the typed form of the tenant key/value settings
type Settings struct {
	LookbackDays     int     `json:"lookback_days_for_usage" binding:"required,min=1"`
	SafetyBufferDays float64 `json:"safety_buffer_days" binding:"min=0"`
	CoverDaysMonday  float64 `json:"cover_days_monday" binding:"required,gt=0"`
	CoverDaysFriday  float64 `json:"cover_days_friday" binding:"required,gt=0"`
	CutoffTime       string  `json:"cutoff_time" binding:"required"`
}

// DefaultSettings returns the settings used for an empty store.
func DefaultSettings() Settings {
	return ParseSettings(nil)
}

// ParseSettings converts raw string settings into Settings. Missing, non-numeric
// or out-of-range values fall back to the defaults; the returned warnings name them.
func ParseSettings(raw map[string]string) Settings {
	s, _ := ParseSettingsWithWarnings(raw)
	return s
}

// ParseSettingsWithWarnings is ParseSettings plus a list of the keys that fell back.
func ParseSettingsWithWarnings(raw map[string]string) (Settings, []string) {
	var warnings []string

	value := func(key string) (string, bool) {
		v, ok := raw[key]
		v = strings.TrimSpace(v)
		if !ok || v == "" {
			return DefaultSettingValues[key], false
		}
		return v, true
	}

	parseFloat := func(key string, valid func(float64) bool) float64 {
		v, present := value(key)
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !valid(f) {
			if present {
				warnings = append(warnings, fmt.Sprintf("%s=%q is invalid, using %s", key, v, DefaultSettingValues[key]))
			}
			f, _ = strconv.ParseFloat(DefaultSettingValues[key], 64)
		}
		return f
	}

	nonNegative := func(f float64) bool { return f >= 0 }
	positive := func(f float64) bool { return f > 0 }

	s := Settings{
		LookbackDays:     int(parseFloat(SettingLookbackDays, func(f float64) bool { return f >= 1 })),
		SafetyBufferDays: parseFloat(SettingSafetyBufferDays, nonNegative),
		CoverDaysMonday:  parseFloat(SettingCoverDaysMonday, positive),
		CoverDaysFriday:  parseFloat(SettingCoverDaysFriday, positive),
	}

	cutoff, present := value(SettingCutoffTime)
	if _, err := time.Parse("15:04", cutoff); err != nil {
		if present {
			warnings = append(warnings, fmt.Sprintf("%s=%q is invalid, using %s", SettingCutoffTime, cutoff, DefaultSettingValues[SettingCutoffTime]))
		}
		cutoff = DefaultSettingValues[SettingCutoffTime]
	}
	s.CutoffTime = cutoff

	return s, warnings
}

// CoverDays returns the coverage target for the given cycle.
func (s Settings) CoverDays(cycle OrderCycle) float64 {
	if cycle == CycleFriday {
		return s.CoverDaysFriday
	}
	return s.CoverDaysMonday
}

// Validate checks values supplied by a settings update.
func (s Settings) Validate() error {
	if s.LookbackDays < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrInvalidInput, SettingLookbackDays)
	}
	if s.SafetyBufferDays < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidInput, SettingSafetyBufferDays)
	}
	if s.CoverDaysMonday <= 0 || s.CoverDaysFriday <= 0 {
		return fmt.Errorf("%w: cover days must be positive", ErrInvalidInput)
	}
	if _, err := time.Parse("15:04", s.CutoffTime); err != nil {
		return fmt.Errorf("%w: %s must be HH:MM", ErrInvalidInput, SettingCutoffTime)
	}
	return nil
}

// Values renders the settings back into their stored string form.
func (s Settings) Values() map[string]string {
	return map[string]string{
		SettingLookbackDays:     strconv.Itoa(s.LookbackDays),
		SettingSafetyBufferDays: strconv.FormatFloat(s.SafetyBufferDays, 'f', -1, 64),
		SettingCoverDaysMonday:  strconv.FormatFloat(s.CoverDaysMonday, 'f', -1, 64),
		SettingCoverDaysFriday:  strconv.FormatFloat(s.CoverDaysFriday, 'f', -1, 64),
		SettingCutoffTime:       s.CutoffTime,
	}
}
