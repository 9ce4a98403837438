package controller

import (
	"testing"

	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

func TestThermostatHandleEvent_CelsiusConversionRoundsToOneDecimal(t *testing.T) {
	c := &ThermostatController{useCelsius: func() bool { return true }}

	resource := jsonapi.Resource{Attributes: map[string]any{}}
	event := WSEvent{
		IsProperty:   true,
		PropertyType: models.PropertyHeatSetPoint,
		Value:        7500, // 75.00F in 1/100ths
		HasValue:     true,
	}

	got := c.handleEvent(resource, event)

	if v := got.Attributes["heat_setpoint"]; v != 23.9 {
		t.Errorf("heat_setpoint = %v, want 23.9 (round((75-32)*5/9, 1))", v)
	}
}

func TestThermostatHandleEvent_FahrenheitConversionIsNotRounded(t *testing.T) {
	c := &ThermostatController{useCelsius: func() bool { return false }}

	resource := jsonapi.Resource{Attributes: map[string]any{}}
	event := WSEvent{
		IsProperty:   true,
		PropertyType: models.PropertyCoolSetPoint,
		Value:        7533,
		HasValue:     true,
	}

	got := c.handleEvent(resource, event)

	if v := got.Attributes["cool_setpoint"]; v != 75.33 {
		t.Errorf("cool_setpoint = %v, want 75.33 (unrounded Fahrenheit)", v)
	}
}
