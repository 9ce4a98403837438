package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// WaterSensor is a devices/water-sensor resource. It carries the same
// active/idle/wet/dry state shape as a generic Sensor, so it reuses
// SensorAttributes rather than defining its own.
type WaterSensor struct {
	Device
	Attributes SensorAttributes
}

// NewWaterSensor binds a raw resource into a typed WaterSensor.
func NewWaterSensor(r jsonapi.Resource) WaterSensor {
	sensor := NewSensor(r)
	return WaterSensor{Device: sensor.Device, Attributes: sensor.Attributes}
}
