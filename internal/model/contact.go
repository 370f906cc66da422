package model

import (
	"strings"
	"time"
)

// DefaultCadenceDays applies when a contact has no usable cadence.
const DefaultCadenceDays = 30

// SchedulingMode selects which fields drive a contact's schedule.
type SchedulingMode string

const (
	ModeCadence SchedulingMode = "cadence" // explicit interval in days
	ModeTier    SchedulingMode = "tier"    // interval comes from the tier
)

// Hooks are remembered personal details used to personalize nudges.
type Hooks struct {
	Pets      string `yaml:"pets,omitempty" json:"pets,omitempty"`
	Health    string `yaml:"health,omitempty" json:"health,omitempty"`
	Hobbies   string `yaml:"hobbies,omitempty" json:"hobbies,omitempty"`
	LastLaugh string `yaml:"last_laugh,omitempty" json:"last_laugh,omitempty"`
}

// IsZero reports whether no hook is set.
func (h *Hooks) IsZero() bool {
	return h == nil || (h.Pets == "" && h.Health == "" && h.Hobbies == "" && h.LastLaugh == "")
}

// Contact represents a person the user keeps in touch with
type Contact struct {
	ID      string   `yaml:"id" json:"id"`
	IndexID int      `yaml:"index_id,omitempty" json:"index_id"`
	Name    string   `yaml:"title" json:"name"`
	Tags    []string `yaml:"tags" json:"tags"`
	Note    string   `yaml:"note,omitempty" json:"note,omitempty"`

	SchedulingMode SchedulingMode `yaml:"scheduling_mode,omitempty" json:"scheduling_mode"`

	// Cadence scheduling
	LastContactedAt     Timestamp `yaml:"last_contacted_at" json:"last_contacted_at"`
	CadenceIntervalDays int       `yaml:"cadence_interval_days,omitempty" json:"cadence_interval_days"`
	SnoozedUntil        Timestamp `yaml:"snoozed_until,omitempty" json:"snoozed_until"`
	Birthday            string    `yaml:"birthday,omitempty" json:"birthday,omitempty"`
	BirthdayPreReminder *bool     `yaml:"birthday_pre_reminder,omitempty" json:"birthday_pre_reminder,omitempty"`

	// Tier scheduling
	Tier              TierID    `yaml:"tier,omitempty" json:"tier,omitempty"`
	LastInteractionAt Timestamp `yaml:"last_interaction_at,omitempty" json:"last_interaction_at"`
	Hooks             *Hooks    `yaml:"hooks,omitempty" json:"hooks,omitempty"`

	CreatedAt Timestamp `yaml:"created_at" json:"created_at"`
	UpdatedAt Timestamp `yaml:"updated_at" json:"updated_at"`

	// Runtime fields (not in YAML)
	FilePath string `yaml:"-" json:"file_path,omitempty"`
	Content  string `yaml:"-" json:"-"`
}

// NewContact returns a contact with the creation defaults applied: cadence
// mode, the default cadence, last contact at creation time and the birthday
// pre-reminder enabled.
func NewContact(name string, now time.Time) Contact {
	return Contact{
		Name:                strings.TrimSpace(name),
		Tags:                []string{"contact"},
		SchedulingMode:      ModeCadence,
		CadenceIntervalDays: DefaultCadenceDays,
		LastContactedAt:     At(now),
		CreatedAt:           At(now),
		UpdatedAt:           At(now),
	}
}

// ApplyDefaults fills fields a freshly created or imported contact must have.
func (c *Contact) ApplyDefaults(now time.Time) {
	if c.SchedulingMode == "" {
		c.SchedulingMode = ModeCadence
		if c.Tier != "" {
			c.SchedulingMode = ModeTier
		}
	}
	if c.CadenceIntervalDays < 1 {
		c.CadenceIntervalDays = DefaultCadenceDays
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = At(now)
	}
	if c.LastContactedAt.IsZero() {
		c.LastContactedAt = c.CreatedAt
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = At(now)
	}
	if !containsTag(c.Tags, "contact") {
		c.Tags = append([]string{"contact"}, c.Tags...)
	}
}

// Mode returns the scheduling mode, treating an empty value as cadence.
func (c *Contact) Mode() SchedulingMode {
	if c.SchedulingMode == ModeTier {
		return ModeTier
	}
	return ModeCadence
}

// CadenceDays returns the explicit cadence, or the default when unset or invalid.
func (c *Contact) CadenceDays() int {
	if c.CadenceIntervalDays < 1 {
		return DefaultCadenceDays
	}
	return c.CadenceIntervalDays
}

// EffectiveCadence returns the single cadence every evaluation uses. Tier
// mode contacts take their tier's cadence; an unknown tier falls back to the
// explicit cadence.
func (c *Contact) EffectiveCadence(tiers Tiers) int {
	if c.Mode() == ModeTier {
		if def, ok := tiers.Lookup(c.Tier); ok {
			return def.CadenceDays
		}
	}
	return c.CadenceDays()
}

// PreReminderEnabled reports whether the birthday-eve reminder is on.
// Unset means on.
func (c *Contact) PreReminderEnabled() bool {
	return c.BirthdayPreReminder == nil || *c.BirthdayPreReminder
}

// SetPreReminder sets the birthday-eve reminder flag.
func (c *Contact) SetPreReminder(enabled bool) {
	c.BirthdayPreReminder = &enabled
}

// EnsureSlices initializes nil slices so JSON output shows [] instead of null.
func (c *Contact) EnsureSlices() {
	if c.Tags == nil {
		c.Tags = []string{}
	}
}

// Clone returns a deep copy safe to hand to another goroutine.
func (c Contact) Clone() Contact {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.BirthdayPreReminder != nil {
		v := *c.BirthdayPreReminder
		out.BirthdayPreReminder = &v
	}
	if c.Hooks != nil {
		h := *c.Hooks
		out.Hooks = &h
	}
	return out
}

// Initial returns the first letter of the name for compact displays.
func (c *Contact) Initial() string {
	for _, r := range c.Name {
		return strings.ToUpper(string(r))
	}
	return "?"
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
