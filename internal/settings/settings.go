// Package settings reads and writes the persistent tschart configuration.
package settings

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/wandb/tschart/internal/gesture"
	"github.com/wandb/tschart/internal/viewport"
)

// Configuration keys.
const (
	KeyZoomRatio         = "zoom_ratio"
	KeyDragThreshold     = "drag_threshold"
	KeyInvertWheel       = "invert_wheel"
	KeyVerticalWheelAxis = "vertical_wheel_axis"
	KeyMinSpanX          = "min_span_x"
	KeyMinSpanYRatio     = "min_span_y_ratio"
	KeyPanStepRatio      = "pan_step_ratio"
	KeyTooltip           = "tooltip"
	KeyColors            = "colors"
	KeySentryDSN         = "sentry_dsn"
)

// ValidKeys lists the keys accepted by Set, in display order.
var ValidKeys = []string{
	KeyZoomRatio,
	KeyDragThreshold,
	KeyInvertWheel,
	KeyVerticalWheelAxis,
	KeyMinSpanX,
	KeyMinSpanYRatio,
	KeyPanStepRatio,
	KeyTooltip,
	KeyColors,
	KeySentryDSN,
}

const DefaultMinSpanX = 7 * 24 * time.Hour

// Settings is the decoded configuration.
type Settings struct {
	// ZoomRatio is the fraction of the visible span removed by one zoom-in
	// step. Must be in (0, 1).
	ZoomRatio float64 `mapstructure:"zoom_ratio"`

	// DragThreshold is the pointer motion, in cells, before a drag pans.
	DragThreshold int `mapstructure:"drag_threshold"`

	// InvertWheel makes wheel-up zoom out.
	InvertWheel bool `mapstructure:"invert_wheel"`

	// VerticalWheelAxis is "x" or "y", the axis zoomed by the vertical wheel.
	VerticalWheelAxis string `mapstructure:"vertical_wheel_axis"`

	// MinSpanX is the smallest visible time range zoom-in may reach.
	MinSpanX time.Duration `mapstructure:"min_span_x"`

	// MinSpanYRatio is the smallest visible value range as a fraction of
	// the full value extent. Zero follows ZoomRatio.
	MinSpanYRatio float64 `mapstructure:"min_span_y_ratio"`

	// PanStepRatio is the fraction of the plot moved by one arrow key.
	PanStepRatio float64 `mapstructure:"pan_step_ratio"`

	// Tooltip enables the hover readout.
	Tooltip bool `mapstructure:"tooltip"`

	// Colors overrides the series palette.
	Colors []string `mapstructure:"colors"`

	// SentryDSN enables error reporting when set.
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// Default returns the built-in configuration.
func Default() Settings {
	return Settings{
		ZoomRatio:         viewport.DefaultZoomRatio,
		DragThreshold:     gesture.DefaultDragThreshold,
		VerticalWheelAxis: viewport.AxisY.String(),
		MinSpanX:          DefaultMinSpanX,
		PanStepRatio:      gesture.DefaultPanStepRatio,
		Tooltip:           true,
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyZoomRatio, d.ZoomRatio)
	v.SetDefault(KeyDragThreshold, d.DragThreshold)
	v.SetDefault(KeyInvertWheel, d.InvertWheel)
	v.SetDefault(KeyVerticalWheelAxis, d.VerticalWheelAxis)
	v.SetDefault(KeyMinSpanX, d.MinSpanX.String())
	v.SetDefault(KeyMinSpanYRatio, d.MinSpanYRatio)
	v.SetDefault(KeyPanStepRatio, d.PanStepRatio)
	v.SetDefault(KeyTooltip, d.Tooltip)
	v.SetDefault(KeyColors, []string{})
	v.SetDefault(KeySentryDSN, "")
}

// Load decodes v into Settings and clamps out-of-range values to defaults.
func Load(v *viper.Viper) (Settings, error) {
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Default(), fmt.Errorf("settings: failed to decode config: %w", err)
	}
	return s.normalized(), nil
}

func (s Settings) normalized() Settings {
	d := Default()

	if !(s.ZoomRatio > 0 && s.ZoomRatio < 1) {
		s.ZoomRatio = d.ZoomRatio
	}
	if s.DragThreshold < 0 {
		s.DragThreshold = d.DragThreshold
	}
	if axis, err := viewport.ParseAxis(s.VerticalWheelAxis); err != nil {
		s.VerticalWheelAxis = d.VerticalWheelAxis
	} else {
		s.VerticalWheelAxis = axis.String()
	}
	if s.MinSpanX <= 0 {
		s.MinSpanX = d.MinSpanX
	}
	if !(s.MinSpanYRatio >= 0 && s.MinSpanYRatio < 1) {
		s.MinSpanYRatio = d.MinSpanYRatio
	}
	if !(s.PanStepRatio > 0 && s.PanStepRatio <= 1) {
		s.PanStepRatio = d.PanStepRatio
	}
	s.Colors = lo.Filter(s.Colors, func(c string, _ int) bool {
		return strings.TrimSpace(c) != ""
	})
	if len(s.Colors) == 0 {
		s.Colors = nil
	}
	return s
}

// ViewportParams returns the zoom configuration for a viewport.Controller.
func (s Settings) ViewportParams() viewport.Params {
	params := viewport.Params{
		ZoomRatio: s.ZoomRatio,
		MinSpanX:  viewport.AbsoluteMinSpan(s.MinSpanX.Seconds()),
	}
	if s.MinSpanYRatio > 0 {
		params.MinSpanY = viewport.ExtentRatioMinSpan(s.MinSpanYRatio)
	}
	return params
}

// GestureConfig returns the input mapping configuration.
func (s Settings) GestureConfig() gesture.Config {
	axis, err := viewport.ParseAxis(s.VerticalWheelAxis)
	if err != nil {
		axis = viewport.AxisY
	}
	return gesture.Config{
		DragThreshold: s.DragThreshold,
		InvertWheel:   s.InvertWheel,
		VerticalAxis:  axis,
		PanStepRatio:  s.PanStepRatio,
	}
}

// AsMap returns the settings keyed by configuration key.
func (s Settings) AsMap() map[string]any {
	return map[string]any{
		KeyZoomRatio:         s.ZoomRatio,
		KeyDragThreshold:     s.DragThreshold,
		KeyInvertWheel:       s.InvertWheel,
		KeyVerticalWheelAxis: s.VerticalWheelAxis,
		KeyMinSpanX:          s.MinSpanX.String(),
		KeyMinSpanYRatio:     s.MinSpanYRatio,
		KeyPanStepRatio:      s.PanStepRatio,
		KeyTooltip:           s.Tooltip,
		KeyColors:            s.Colors,
		KeySentryDSN:         s.SentryDSN,
	}
}

// Set validates value for key and stores it on v with its proper type.
//
// The caller persists the change with v.WriteConfig.
func Set(v *viper.Viper, key, value string) error {
	if !slices.Contains(ValidKeys, key) {
		return fmt.Errorf("invalid config key: %s. Valid keys are: %v", key, ValidKeys)
	}

	parsed, err := parseValue(key, value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	v.Set(key, parsed)
	return nil
}

func parseValue(key, value string) (any, error) {
	switch key {
	case KeyZoomRatio:
		return parseRatio(value, false)
	case KeyMinSpanYRatio:
		return parseRatio(value, true)
	case KeyPanStepRatio:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		if !(f > 0 && f <= 1) {
			return nil, fmt.Errorf("must be in (0, 1], got %v", f)
		}
		return f, nil
	case KeyDragThreshold:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("must not be negative, got %d", n)
		}
		return n, nil
	case KeyInvertWheel, KeyTooltip:
		return strconv.ParseBool(value)
	case KeyVerticalWheelAxis:
		axis, err := viewport.ParseAxis(value)
		if err != nil {
			return nil, err
		}
		return axis.String(), nil
	case KeyMinSpanX:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("must be positive, got %v", d)
		}
		return d.String(), nil
	case KeyColors:
		colors := lo.Map(strings.Split(value, ","), func(c string, _ int) string {
			return strings.TrimSpace(c)
		})
		return lo.Compact(colors), nil
	default:
		return value, nil
	}
}

func parseRatio(value string, allowZero bool) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f >= 1 || f < 0 || (f == 0 && !allowZero) {
		return 0, fmt.Errorf("must be in (0, 1), got %v", f)
	}
	return f, nil
}
