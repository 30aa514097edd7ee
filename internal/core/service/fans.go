package service

import (
	"context"
	"fmt"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
)

type Fans struct {
	sctx *Context
}

func NewFans(sctx *Context) *Fans {
	return &Fans{sctx: sctx}
}

func (f *Fans) Rooms() []string {
	return f.sctx.Catalog.FanRooms
}

func FanIdentity(room string) domain.Identity {
	return domain.NewIdentity(domain.DOMAIN_SELECT, "fan_"+domain.Slugify(room)+"_velocity")
}

func (f *Fans) fan(room string) (*entity.Select[domain.FanVelocity], error) {
	room, err := checkCatalog("fan room", f.sctx.Catalog.FanRooms, room)
	if err != nil {
		return nil, err
	}
	return entity.NewSelect(f.sctx.Hub, FanIdentity(room), entity.Meta{
		Name: fmt.Sprintf("Ventilador %s", room),
		Icon: "mdi:fan",
	}, domain.ParseFanVelocity), nil
}

func (f *Fans) Velocity(ctx context.Context, room string) (domain.FanVelocity, error) {
	fan, err := f.fan(room)
	if err != nil {
		return "", err
	}
	data, err := fan.GetData(ctx)
	if err != nil {
		return "", err
	}
	return data.State, nil
}

// SetVelocity rejects the powered off reading, it cannot be selected.
func (f *Fans) SetVelocity(ctx context.Context, room string, velocity domain.FanVelocity) error {
	fan, err := f.fan(room)
	if err != nil {
		return err
	}
	if _, err := domain.ParseWritableFanVelocity(string(velocity)); err != nil {
		return fmt.Errorf("%s: %w", fan.Identity(), err)
	}
	return fan.SelectOption(ctx, velocity)
}
