// Package stats implements pure stat aggregation: combining a combatant's
// base stats with equipment and talent contributions into the resolved
// stat block used for one combat session.
package stats

// DefaultCritDamage is the critical damage multiplier applied when the base
// block does not specify one.
const DefaultCritDamage = 2.0

// MinAttackPeriod is the floor for the resolved attack period in seconds.
// Attack-speed deltas can never push the cadence to zero or negative.
const MinAttackPeriod = 0.1

// Base holds a combatant's intrinsic stats before any gear or talents.
type Base struct {
	// AttackDamage is the flat damage per hit.
	AttackDamage float64
	// AttackPeriod is the seconds between attack triggers.
	AttackPeriod float64
	// MaxHealth is the maximum health pool.
	MaxHealth float64
	// CritDamage is the critical hit multiplier. Zero means DefaultCritDamage.
	CritDamage float64
}

// Bonuses is one provider's contribution bundle (equipment or talents).
// Flat fields are additive; percent fields apply multiplicatively after
// additive composition and are honoured only from the talents bundle.
type Bonuses struct {
	// AttackDamage is a flat damage bonus.
	AttackDamage float64
	// MaxHealth is a flat health bonus.
	MaxHealth float64
	// AttackPeriodDelta is added to the base attack period; negative values
	// speed the combatant up.
	AttackPeriodDelta float64
	// DamagePercent multiplies attack damage after additive composition.
	// Honoured only from talents.
	DamagePercent float64
	// HealthPercent multiplies max health after additive composition.
	// Honoured only from talents.
	HealthPercent float64
	// CritChance is an additive crit probability contribution.
	CritChance float64
	// CritDamage is an additive crit multiplier contribution.
	CritDamage float64
	// Dodge is an additive dodge probability contribution.
	Dodge float64
	// Armor is an additive incoming-damage reduction fraction.
	Armor float64
	// Lifesteal is an additive fraction of dealt damage returned as healing.
	Lifesteal float64
	// XPBonus is an additive experience multiplier bonus.
	XPBonus float64
	// GoldBonus is an additive gold multiplier bonus.
	GoldBonus float64
}

// Resolved is the cached, fully-combined stat block used for one combat
// session. It is recomputed on combat start/resume and after level-up or
// equipment/talent changes, never per tick and never persisted.
//
// Fractional fields are plain sums of the provider contributions; callers
// own keeping them in sensible ranges. The aggregator does not clamp.
type Resolved struct {
	AttackDamage float64
	AttackPeriod float64
	MaxHealth    float64
	CritChance   float64
	CritDamage   float64
	Lifesteal    float64
	Dodge        float64
	Armor        float64
	XPBonus      float64
	GoldBonus    float64
}

// Resolve combines base stats with equipment and talent bonuses.
//
// Composition rules:
//   - flat fields sum across base + equipment + talents;
//   - percent multipliers apply only from talents, after additive
//     composition: damage = (base + equipFlat + talentFlat) * (1 + pct);
//   - fractional stats are pure sums of the two bundles, unclamped.
//
// Side effects: none. Resolve is a pure function.
//
// Postcondition: AttackPeriod >= MinAttackPeriod; CritDamage > 0.
func Resolve(base Base, equip, talents Bonuses) Resolved {
	critDamage := base.CritDamage
	if critDamage == 0 {
		critDamage = DefaultCritDamage
	}
	critDamage += equip.CritDamage + talents.CritDamage

	period := base.AttackPeriod + equip.AttackPeriodDelta + talents.AttackPeriodDelta
	if period < MinAttackPeriod {
		period = MinAttackPeriod
	}

	return Resolved{
		AttackDamage: (base.AttackDamage + equip.AttackDamage + talents.AttackDamage) * (1 + talents.DamagePercent),
		AttackPeriod: period,
		MaxHealth:    (base.MaxHealth + equip.MaxHealth + talents.MaxHealth) * (1 + talents.HealthPercent),
		CritChance:   equip.CritChance + talents.CritChance,
		CritDamage:   critDamage,
		Lifesteal:    equip.Lifesteal + talents.Lifesteal,
		Dodge:        equip.Dodge + talents.Dodge,
		Armor:        equip.Armor + talents.Armor,
		XPBonus:      equip.XPBonus + talents.XPBonus,
		GoldBonus:    equip.GoldBonus + talents.GoldBonus,
	}
}

// Sum returns the field-wise sum of two bonus bundles. Useful for providers
// that stack multiple sources (several equipped items, several talents).
func Sum(a, b Bonuses) Bonuses {
	return Bonuses{
		AttackDamage:      a.AttackDamage + b.AttackDamage,
		MaxHealth:         a.MaxHealth + b.MaxHealth,
		AttackPeriodDelta: a.AttackPeriodDelta + b.AttackPeriodDelta,
		DamagePercent:     a.DamagePercent + b.DamagePercent,
		HealthPercent:     a.HealthPercent + b.HealthPercent,
		CritChance:        a.CritChance + b.CritChance,
		CritDamage:        a.CritDamage + b.CritDamage,
		Dodge:             a.Dodge + b.Dodge,
		Armor:             a.Armor + b.Armor,
		Lifesteal:         a.Lifesteal + b.Lifesteal,
		XPBonus:           a.XPBonus + b.XPBonus,
		GoldBonus:         a.GoldBonus + b.GoldBonus,
	}
}
