package router

import "github.com/tediore/securitt/internal/alarm"

// keypadVerbToMode maps a keypad/gateway action verb to the armed mode it
// requests. disarm and panic are handled separately since they do not
// target an armed mode.
var keypadVerbToMode = map[string]alarm.State{
	"arm_day_zones":   alarm.ArmedHome,
	"arm_night_zones": alarm.ArmedNight,
	"arm_all_zones":   alarm.ArmedAway,
}

// supervisorVerbToKeypadVerb translates the external supervisor verb set
// into the internal keypad/gateway dialect, so supervisor commands flow
// through the same classification path as a keypad PIN entry.
var supervisorVerbToKeypadVerb = map[string]string{
	"disarm":    "disarm",
	"arm_home":  "arm_day_zones",
	"arm_night": "arm_night_zones",
	"arm_away":  "arm_all_zones",
	"panic":     "panic",
}

// stateLabelToKeypadVerb maps a button's configured outcome label to the
// internal keypad/gateway verb.
var stateLabelToKeypadVerb = map[string]string{
	"disarmed":    "disarm",
	"armed_home":  "arm_day_zones",
	"armed_night": "arm_night_zones",
	"armed_away":  "arm_all_zones",
	"panic":       "panic",
}

// verbToAllowedModeLabel maps every keypad/gateway verb, including disarm
// and panic, to the mode-string label a keyfob's allowed_modes entry uses
// to permit it.
var verbToAllowedModeLabel = map[string]string{
	"disarm":          "disarmed",
	"arm_day_zones":   "armed_home",
	"arm_night_zones": "armed_night",
	"arm_all_zones":   "armed_away",
	"panic":           "panic",
}

// verbToEvent translates a keypad/gateway verb into the typed event the
// state machine accepts. keypadName is only meaningful for arm verbs and
// is used to target the arming_away LED at the initiating keypad.
func verbToEvent(verb, actor, keypadName string) (alarm.Event, bool) {
	switch verb {
	case "disarm":
		return alarm.DisarmEvent{Actor: actor}, true
	case "panic":
		return alarm.PanicEvent{Actor: actor}, true
	default:
		mode, ok := keypadVerbToMode[verb]
		if !ok {
			return nil, false
		}
		return alarm.ArmEvent{Mode: mode, Actor: actor, KeypadName: keypadName}, true
	}
}
