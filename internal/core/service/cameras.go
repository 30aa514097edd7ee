package service

import (
	"context"
	"errors"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
)

type CameraStatus struct {
	Area           string             `json:"area"`
	MotionDetected bool               `json:"motionDetected"`
	State          domain.CameraState `json:"state"`
	Picture        *string            `json:"picture,omitempty"`
}

type Cameras struct {
	sctx *Context
}

func NewCameras(sctx *Context) *Cameras {
	return &Cameras{sctx: sctx}
}

func (c *Cameras) Areas() []string {
	return c.sctx.Catalog.CameraAreas
}

func (c *Cameras) motion(area string) (*entity.BinarySensor[domain.Attributes], error) {
	area, err := checkCatalog("camera area", c.sctx.Catalog.CameraAreas, area)
	if err != nil {
		return nil, err
	}
	return entity.NewBinarySensor[domain.Attributes](c.sctx.Hub,
		domain.NewIdentity(domain.DOMAIN_BINARY_SENSOR, "camera_"+domain.Slugify(area)+"_motion"),
		entity.Meta{Name: "Camera " + area + " motion", DeviceClass: "motion"}), nil
}

func (c *Cameras) MotionDetected(ctx context.Context, area string) (bool, error) {
	sensor, err := c.motion(area)
	if err != nil {
		return false, err
	}
	data, err := sensor.GetData(ctx)
	if err != nil {
		return false, err
	}
	return data.State == domain.BINARY_ON, nil
}

// Status combines the motion sensor with the camera entity. Areas without
// a camera entity report unavailable.
func (c *Cameras) Status(ctx context.Context, area string) (CameraStatus, error) {
	motion, err := c.MotionDetected(ctx, area)
	if err != nil {
		return CameraStatus{}, err
	}
	out := CameraStatus{Area: area, MotionDetected: motion, State: domain.CAMERA_UNAVAILABLE}
	camera := entity.NewCamera(c.sctx.Hub, domain.NewIdentity(domain.DOMAIN_CAMERA, domain.Slugify(area)), entity.Meta{})
	data, err := camera.GetData(ctx)
	switch {
	case errors.Is(err, domain.ErrEntityNotFound):
		return out, nil
	case err != nil:
		return CameraStatus{}, err
	}
	out.State = data.State
	out.Picture = data.Attributes.EntityPicture
	return out, nil
}
