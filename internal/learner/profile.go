package learner

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// XPPerLevel is the XP span of a single level.
const XPPerLevel = 1000

// ErrInvalidProfile is returned when a profile fails validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is a learner's identity, preferences and progress counters.
type Profile struct {
	Name     string  `json:"name" validate:"required"`
	Persona  Persona `json:"persona" validate:"persona"`
	Language string  `json:"language" validate:"required"`
	Goal     string  `json:"goal" validate:"required"`
	XP       int     `json:"xp" validate:"gte=0"`
	Level    int     `json:"level" validate:"gte=1"`
}

// NewProfile builds a fresh profile at zero XP. The name is trimmed.
func NewProfile(name string, persona Persona, language, goal string) Profile {
	return Profile{
		Name:     strings.TrimSpace(name),
		Persona:  persona,
		Language: strings.TrimSpace(language),
		Goal:     strings.TrimSpace(goal),
		XP:       0,
		Level:    1,
	}
}

// Key returns the Save Record key for this profile.
func (p Profile) Key() string {
	return NameKey(p.Name)
}

// NameKey normalizes a display name into a Save Record key.
func NameKey(name string) string {
	return strings.TrimSpace(name)
}

// LevelFor derives the level from an XP total.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// AwardXP adds delta XP and recomputes the level.
// XP only grows, so negative deltas are rejected.
func (p *Profile) AwardXP(delta int) error {
	if delta < 0 {
		return fmt.Errorf("award %d xp: negative delta", delta)
	}
	p.XP += delta
	p.Level = LevelFor(p.XP)
	return nil
}

// LevelProgress is the fraction of the current level already earned (0.0-1.0).
func (p Profile) LevelProgress() float64 {
	return float64(p.XP%XPPerLevel) / XPPerLevel
}

// XPToNextLevel returns how much XP is still needed for the next level.
func (p Profile) XPToNextLevel() int {
	return XPPerLevel - p.XP%XPPerLevel
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func profileValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("persona", func(fl validator.FieldLevel) bool {
			return Persona(fl.Field().String()).Valid()
		})
	})
	return validate
}

// Validate checks required fields and the level/xp relationship.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) != p.Name {
		return fmt.Errorf("%w: name %q is not trimmed", ErrInvalidProfile, p.Name)
	}
	if err := profileValidator().Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %q", ErrInvalidProfile, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if p.Level != LevelFor(p.XP) {
		return fmt.Errorf("%w: level %d does not match %d xp", ErrInvalidProfile, p.Level, p.XP)
	}
	return nil
}
