package models

import "github.com/codespace-operator/adcgo/internal/jsonapi"

// ImageSensorAttributes are the typed attributes of a devices/image-sensor
// resource. Image sensors don't have states; they support being asked to
// capture a still image (PeekInNow) but otherwise track no device state.
type ImageSensorAttributes struct {
	IsImageSensorDeleted bool
	SupportPeekInNow     bool
	CanViewImages        bool
}

// ImageSensor is a devices/image-sensor resource.
type ImageSensor struct {
	Device
	Attributes ImageSensorAttributes
}

// NewImageSensor binds a raw resource into a typed ImageSensor.
func NewImageSensor(r jsonapi.Resource) ImageSensor {
	attrs := ImageSensorAttributes{
		IsImageSensorDeleted: r.AttrBool("is_image_sensor_deleted"),
		SupportPeekInNow:     r.AttrBool("support_peek_in_now"),
		CanViewImages:        r.AttrBool("can_view_images"),
	}
	return ImageSensor{Device: NewDevice(r), Attributes: attrs}
}

// ImageSensorImageAttributes are the typed attributes of an image-sensor-image
// resource: a single captured still, related to its parent ImageSensor.
type ImageSensorImageAttributes struct {
	Image     string
	ImageSrc  string
	Timestamp string
}

// ImageSensorImage is an image-sensor-image resource. Unlike most device
// resources it has no owning system relationship, only its parent image
// sensor.
type ImageSensorImage struct {
	Device
	Attributes ImageSensorImageAttributes
}

// NewImageSensorImage binds a raw resource into a typed ImageSensorImage.
func NewImageSensorImage(r jsonapi.Resource) ImageSensorImage {
	attrs := ImageSensorImageAttributes{
		Image:     r.AttrString("image"),
		ImageSrc:  r.AttrString("image_src"),
		Timestamp: r.AttrString("timestamp"),
	}
	return ImageSensorImage{Device: NewDevice(r), Attributes: attrs}
}

// ImageSensorID returns the id of the image sensor this image belongs to, by
// way of its "image_sensor" relationship.
func (i ImageSensorImage) ImageSensorID() (string, bool) {
	id, ok := i.Resource.HasOne("image_sensor")
	if !ok {
		return "", false
	}
	return string(id.ID), true
}
