package panel

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tediore/securitt/internal/infrastructure/mqtt"
	"github.com/tediore/securitt/internal/registry"
)

// armModePayload is the keypad LED command body.
type armModePayload struct {
	ArmMode struct {
		Mode string `json:"mode"`
	} `json:"arm_mode"`
}

// warningPayload is the siren command body. Strobe and duration are
// carried as strings, matching the gateway's wire format.
type warningPayload struct {
	Warning struct {
		Mode     string `json:"mode"`
		Strobe   string `json:"strobe"`
		Duration string `json:"duration"`
	} `json:"warning"`
}

// mqttActuator implements alarm.Actuator against the bus client.
type mqttActuator struct {
	client *mqtt.Client
	reg    *registry.Registry
}

func newMQTTActuator(client *mqtt.Client, reg *registry.Registry) *mqttActuator {
	return &mqttActuator{client: client, reg: reg}
}

func (a *mqttActuator) PublishKeypadLEDAll(ctx context.Context, verb string) error {
	for _, kp := range a.reg.Keypads() {
		if err := a.PublishKeypadLED(ctx, kp.Name, verb); err != nil {
			return err
		}
	}
	return nil
}

func (a *mqttActuator) PublishKeypadLED(_ context.Context, keypadName, verb string) error {
	var body armModePayload
	body.ArmMode.Mode = verb

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding arm_mode payload: %w", err)
	}

	topic := a.client.Topics().DeviceSet(keypadName)
	return a.client.Publish(topic, payload, a.client.QoS(), false)
}

func (a *mqttActuator) PublishSirenStart(ctx context.Context, durationSeconds int) error {
	return a.publishSirenWarning(ctx, "emergency", durationSeconds)
}

func (a *mqttActuator) PublishSirenStop(ctx context.Context) error {
	return a.publishSirenWarning(ctx, "stop", 0)
}

func (a *mqttActuator) publishSirenWarning(_ context.Context, mode string, durationSeconds int) error {
	var body warningPayload
	body.Warning.Mode = mode
	body.Warning.Strobe = "false"
	body.Warning.Duration = strconv.Itoa(durationSeconds)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding warning payload: %w", err)
	}

	for _, siren := range a.reg.Sirens() {
		topic := a.client.Topics().DeviceSet(siren.Name)
		if err := a.client.Publish(topic, payload, a.client.QoS(), false); err != nil {
			return fmt.Errorf("publishing to %s: %w", siren.Name, err)
		}
	}
	return nil
}
