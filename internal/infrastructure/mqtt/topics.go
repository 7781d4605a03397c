package mqtt

import "fmt"

// Topics builds the bus topic names used by the alarm panel. Both prefixes
// come from configuration (mqtt.base_topic, mqtt.gateway_topic_prefix) and
// are stable for the process lifetime.
//
//	topics := mqtt.Topics{Base: "securitt", Gateway: "gateway"}
//	topics.SetMode() // "securitt/set_mode"
//	topics.Device("front_door") // "gateway/front_door"
type Topics struct {
	Base    string
	Gateway string
}

// SetMode is the topic supervisor commands arrive on.
func (t Topics) SetMode() string {
	return fmt.Sprintf("%s/set_mode", t.Base)
}

// ReloadConfig is the topic that triggers a registry reload.
func (t Topics) ReloadConfig() string {
	return fmt.Sprintf("%s/reload_config", t.Base)
}

// Status is the retained online/offline topic, also used as the LWT topic.
func (t Topics) Status() string {
	return fmt.Sprintf("%s/status", t.Base)
}

// AlarmState is the retained current-state topic.
func (t Topics) AlarmState() string {
	return fmt.Sprintf("%s/alarm_state", t.Base)
}

// Device is the topic a device (sensor, keypad, keyfob, or button) publishes
// its raw events on.
func (t Topics) Device(name string) string {
	return fmt.Sprintf("%s/%s", t.Gateway, name)
}

// DeviceSet is the topic used to actuate a device (keypad LED, siren warning).
func (t Topics) DeviceSet(name string) string {
	return fmt.Sprintf("%s/%s/set", t.Gateway, name)
}

// AllDevices is the wildcard subscription pattern covering every device
// topic under the gateway prefix.
func (t Topics) AllDevices() string {
	return fmt.Sprintf("%s/+", t.Gateway)
}
