package service

import (
	"context"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
)

type LightStatus struct {
	Name       string            `json:"name"`
	State      domain.LightState `json:"state"`
	Brightness *int              `json:"brightness"`
}

// Lights drives the light.<slug> entities for the configured rooms.
type Lights struct {
	sctx *Context
}

func NewLights(sctx *Context) *Lights {
	return &Lights{sctx: sctx}
}

func (l *Lights) Names() []string {
	return l.sctx.Catalog.Lights
}

func (l *Lights) light(name string) (*entity.Light, error) {
	name, err := checkCatalog("light", l.sctx.Catalog.Lights, name)
	if err != nil {
		return nil, err
	}
	return entity.NewLight(l.sctx.Hub, domain.NewIdentity(domain.DOMAIN_LIGHT, domain.Slugify(name)),
		entity.Meta{Name: name}), nil
}

func (l *Lights) status(ctx context.Context, name string) (LightStatus, error) {
	light, err := l.light(name)
	if err != nil {
		return LightStatus{}, err
	}
	data, err := light.GetData(ctx)
	if err != nil {
		return LightStatus{}, err
	}
	return LightStatus{
		Name:       light.Meta().Name,
		State:      data.State,
		Brightness: data.Attributes.BrightnessPercent(),
	}, nil
}

func (l *Lights) State(ctx context.Context, name string) (domain.LightState, error) {
	st, err := l.status(ctx, name)
	return st.State, err
}

// Brightness is 0-100, nil when the light is off or does not dim.
func (l *Lights) Brightness(ctx context.Context, name string) (*int, error) {
	st, err := l.status(ctx, name)
	return st.Brightness, err
}

// Status reads every configured light in parallel.
func (l *Lights) Status(ctx context.Context) ([]LightStatus, error) {
	names := l.sctx.Catalog.Lights
	return gather(ctx, len(names), func(ctx context.Context, i int) (LightStatus, error) {
		return l.status(ctx, names[i])
	})
}

func (l *Lights) SetState(ctx context.Context, name string, state domain.LightState) error {
	light, err := l.light(name)
	if err != nil {
		return err
	}
	return light.SendData(ctx, state, nil)
}

// SetBrightness expects pct already bounded to 0-100.
func (l *Lights) SetBrightness(ctx context.Context, name string, pct int) error {
	light, err := l.light(name)
	if err != nil {
		return err
	}
	return light.SetBrightness(ctx, pct)
}
