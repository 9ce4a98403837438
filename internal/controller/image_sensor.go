package controller

import (
	"context"

	cblog "github.com/charmbracelet/log"

	"github.com/codespace-operator/adcgo/internal/broker"
	"github.com/codespace-operator/adcgo/internal/jsonapi"
	"github.com/codespace-operator/adcgo/internal/models"
)

// ImageSensorController manages devices/image-sensor resources. Image
// sensors carry no open/closed state; their one command requests a fresh
// still capture.
type ImageSensorController struct {
	*Base[models.ImageSensor]
}

// NewImageSensorController builds an ImageSensorController bound to client
// and bus.
func NewImageSensorController(client apiClient, bus *broker.Broker, log *cblog.Logger) *ImageSensorController {
	cfg := Config[models.ImageSensor]{
		ResourceType:  models.ResourceImageSensor,
		BasePath:      "web/api/devices/imageSensors",
		Bind:          models.NewImageSensor,
		AttributesOf:  func(i models.ImageSensor) any { return i.Attributes },
		ResourceRefOf: func(i models.ImageSensor) jsonapi.Resource { return i.Resource },
	}
	return &ImageSensorController{Base: New(cfg, client, bus, log)}
}

// PeekInNow requests an immediate still capture from id.
func (c *ImageSensorController) PeekInNow(ctx context.Context, id string) error {
	return c.SendCommand(ctx, id, "doPeekInNow", nil)
}

// ImageSensorImageController is a read-only view over recently captured
// image-sensor stills. Unlike every other device family it has no per-id
// command surface and its collection lives at a fixed, non-device-scoped
// URL rather than "<base>/<id>", so BasePath points straight at that URL.
// A refresh with no resource id and no target ids is a bare fetch of that
// URL; a targeted refresh still appends "/<id>", as Base does for every
// family.
type ImageSensorImageController struct {
	*Base[models.ImageSensorImage]
}

// NewImageSensorImageController builds an ImageSensorImageController bound
// to client and bus.
func NewImageSensorImageController(client apiClient, bus *broker.Broker, log *cblog.Logger) *ImageSensorImageController {
	cfg := Config[models.ImageSensorImage]{
		ResourceType:  models.ResourceImageSensorImage,
		BasePath:      "web/api/imageSensor/imageSensorImages/getRecentImages",
		Bind:          models.NewImageSensorImage,
		AttributesOf:  func(i models.ImageSensorImage) any { return i.Attributes },
		ResourceRefOf: func(i models.ImageSensorImage) jsonapi.Resource { return i.Resource },
	}
	return &ImageSensorImageController{Base: New(cfg, client, bus, log)}
}

// ForImageSensor returns every cached image belonging to imageSensorID.
func (c *ImageSensorImageController) ForImageSensor(imageSensorID string) []models.ImageSensorImage {
	var out []models.ImageSensorImage
	for _, img := range c.Items() {
		if id, ok := img.ImageSensorID(); ok && id == imageSensorID {
			out = append(out, img)
		}
	}
	return out
}
