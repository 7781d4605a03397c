package alarm

// State is one of the panel's reachable alarm states.
type State string

const (
	Disarmed   State = "disarmed"
	Arming     State = "arming"
	ArmedHome  State = "armed_home"
	ArmedNight State = "armed_night"
	ArmedAway  State = "armed_away"
	Pending    State = "pending"
	Triggered  State = "triggered"
)

// IsArmed reports whether s is one of the three armed modes.
func (s State) IsArmed() bool {
	switch s {
	case ArmedHome, ArmedNight, ArmedAway:
		return true
	default:
		return false
	}
}

// armModeVerb returns the keypad LED verb for an armed mode.
func armModeVerb(mode State) string {
	switch mode {
	case ArmedHome:
		return "arm_day_zones"
	case ArmedNight:
		return "arm_night_zones"
	case ArmedAway:
		return "arm_all_zones"
	default:
		return ""
	}
}
