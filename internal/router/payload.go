package router

// sensorPayload is the raw gateway event body for a contact or motion
// sensor. Only the field matching the sensor's configured type is
// consulted.
type sensorPayload struct {
	Contact   *bool `json:"contact"`
	Occupancy *bool `json:"occupancy"`
	Tamper    *bool `json:"tamper"`
}

// keypadPayload is the raw gateway event body for a keypad PIN entry.
type keypadPayload struct {
	Action     string `json:"action"`
	ActionCode *int   `json:"action_code"`
}

// keyfobPayload is the raw gateway event body for a keyfob button press.
type keyfobPayload struct {
	Action string `json:"action"`
}

// buttonPayload is the raw gateway event body for a generic button.
type buttonPayload struct {
	Action string `json:"action"`
}

// supervisorPayload is the set_mode command body from the home-automation
// supervisor.
type supervisorPayload struct {
	Action string `json:"action"`
	Code   int    `json:"code"`
}
