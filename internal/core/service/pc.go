package service

import (
	"context"
	"fmt"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
	"github.com/gsbenevides2/hassbridge/internal/util"

	"go.uber.org/zap"
)

const (
	PC_TRACKER_SLUG     = "gsbenevides2_pc"
	PC_BUTTON_SLUG      = "turn_off_pc"
	WAKE_ON_LAN_DOMAIN  = "wake_on_lan"
	WAKE_ON_LAN_SERVICE = "send_magic_packet"
)

// Shutdowner powers off a machine reachable at ip.
type Shutdowner interface {
	Shutdown(ctx context.Context, ip string) error
}

type PCAttributes struct {
	SourceType   string  `json:"source_type"`
	FriendlyName string  `json:"friendly_name"`
	Ip           *string `json:"ip,omitempty"`
	Mac          *string `json:"mac,omitempty"`
	HostName     *string `json:"host_name,omitempty"`
}

type PC struct {
	sctx       *Context
	tracker    *entity.DeviceTracker[PCAttributes]
	button     *entity.Button
	shutdowner Shutdowner
	logger     *zap.Logger
}

func NewPC(sctx *Context, shutdowner Shutdowner) *PC {
	return &PC{
		sctx: sctx,
		tracker: entity.NewDeviceTracker[PCAttributes](sctx.Hub,
			domain.NewIdentity(domain.DOMAIN_DEVICE_TRACKER, PC_TRACKER_SLUG),
			entity.Meta{Name: "gsbenevides2-pc"}),
		button: entity.NewButton(sctx.Hub,
			domain.NewIdentity(domain.DOMAIN_BUTTON, PC_BUTTON_SLUG),
			entity.Meta{Name: "Turn Off PC", Icon: "mdi:power"}),
		shutdowner: shutdowner,
		logger:     util.ComponentLogger("pc", sctx.Logger),
	}
}

// IsConnected reports whether the router currently sees the PC.
func (p *PC) IsConnected(ctx context.Context) (bool, error) {
	data, err := p.tracker.GetData(ctx)
	if err != nil {
		return false, err
	}
	return data.State == domain.TRACKER_HOME, nil
}

// Address returns the last known IP, empty when the tracker has none.
func (p *PC) Address(ctx context.Context) (string, error) {
	data, err := p.tracker.GetData(ctx)
	if err != nil {
		return "", err
	}
	if data.Attributes.Ip == nil {
		return "", nil
	}
	return *data.Attributes.Ip, nil
}

// TurnOn sends a wake on lan packet through the hub.
func (p *PC) TurnOn(ctx context.Context) error {
	data, err := p.tracker.GetData(ctx)
	if err != nil {
		return err
	}
	if data.Attributes.Mac == nil || *data.Attributes.Mac == "" {
		return fmt.Errorf("%w: %s reports no mac address", domain.ErrEntityUnavailable, p.tracker.Identity())
	}
	p.logger.Debug("pc@turn_on", zap.String("mac", *data.Attributes.Mac))
	return p.sctx.Hub.CallService(ctx, WAKE_ON_LAN_DOMAIN, WAKE_ON_LAN_SERVICE, map[string]any{
		"mac": *data.Attributes.Mac,
	})
}

// TurnOff is a no-op when the PC has no known address.
func (p *PC) TurnOff(ctx context.Context) error {
	ip, err := p.Address(ctx)
	if err != nil {
		return err
	}
	if ip == "" {
		p.logger.Info("pc@turn_off no address, skipping")
		return nil
	}
	p.logger.Debug("pc@turn_off", zap.String("ip", ip))
	return p.shutdowner.Shutdown(ctx, ip)
}

// SetupButton announces the turn off button and binds its command to TurnOff.
func (p *PC) SetupButton(ctx context.Context) error {
	return p.sctx.Publisher.Bind(ctx, p.button.Discovery(), func(ctx context.Context, _ string) (string, error) {
		return "", p.TurnOff(ctx)
	})
}
