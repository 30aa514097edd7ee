package entity

import (
	"context"
	"fmt"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/port"
)

// Meta carries the display and discovery metadata of an entity.
type Meta struct {
	Name              string
	Icon              string
	DeviceClass       string
	StateClass        string
	UnitOfMeasurement string
	ValueTemplate     string
}

// Entity is the capability every variant shares.
type Entity interface {
	Identity() domain.Identity
	Discovery() domain.Component
}

// Data is state and attributes as of one hub query.
type Data[S ~string, A any] struct {
	State      S
	Attributes A
}

type Reader[S ~string, A any] interface {
	Entity
	GetData(ctx context.Context) (Data[S, A], error)
	ParseState(raw string) (S, error)
}

type Writer[S ~string, A any] interface {
	Reader[S, A]
	SendData(ctx context.Context, state S, attributes *A) error
}

// base holds the read/write algorithm shared by every variant. Values are
// immutable; a write changes the hub, never the receiver.
type base[S ~string, A any] struct {
	hub                port.HubClient
	id                 domain.Identity
	meta               Meta
	parse              func(string) (S, error)
	unavailableIsState bool
}

func newBase[S ~string, A any](hub port.HubClient, id domain.Identity, meta Meta,
	parse func(string) (S, error), unavailableIsState bool) base[S, A] {
	if meta.Name == "" {
		meta.Name = domain.Unslugify(id.ObjectID())
	}
	return base[S, A]{
		hub:                hub,
		id:                 id,
		meta:               meta,
		parse:              parse,
		unavailableIsState: unavailableIsState,
	}
}

func (b base[S, A]) Identity() domain.Identity {
	return b.id
}

func (b base[S, A]) Meta() Meta {
	return b.meta
}

func (b base[S, A]) ParseState(raw string) (S, error) {
	return b.parse(raw)
}

func (b base[S, A]) Discovery() domain.Component {
	return b.component(false)
}

func (b base[S, A]) GetData(ctx context.Context) (Data[S, A], error) {
	var data Data[S, A]
	raw, err := b.hub.Read(ctx, b.id.EntityID)
	if err != nil {
		return data, err
	}
	if raw.State == domain.STATE_UNAVAILABLE && !b.unavailableIsState {
		return data, fmt.Errorf("%w: %s", domain.ErrEntityUnavailable, b.id)
	}
	state, err := b.parse(raw.State)
	if err != nil {
		return data, fmt.Errorf("%s: %w: %w", b.id, domain.ErrUnexpectedState, err)
	}
	attrs, err := domain.DecodeAttributes[A](raw.Attributes)
	if err != nil {
		return data, fmt.Errorf("%s: %w", b.id, err)
	}
	data.State = state
	data.Attributes = attrs
	return data, nil
}

// SendData sets the hub state object. attributes nil sends only the
// friendly name.
func (b base[S, A]) SendData(ctx context.Context, state S, attributes *A) error {
	if _, err := b.parse(string(state)); err != nil {
		return fmt.Errorf("%s: %w", b.id, err)
	}
	bag := domain.Attributes{}
	if attributes != nil {
		encoded, err := domain.EncodeAttributes(*attributes)
		if err != nil {
			return fmt.Errorf("%s: %w", b.id, err)
		}
		if encoded != nil {
			bag = encoded
		}
	}
	if bag.FriendlyName() == "" {
		bag[domain.AttrFriendlyName] = b.meta.Name
	}
	return b.hub.Write(ctx, b.id.EntityID, domain.StatePayload{
		State:      string(state),
		Attributes: bag,
	})
}

func (b base[S, A]) callService(ctx context.Context, service string, data map[string]any) error {
	return b.hub.Write(ctx, b.id.EntityID, domain.ServicePayload{
		Domain:  string(b.id.Domain),
		Service: service,
		Data:    data,
	})
}

func (b base[S, A]) component(command bool) domain.Component {
	return domain.Component{
		Kind:              b.id.Domain,
		ObjectId:          b.id.ObjectID(),
		UniqueId:          b.id.UniqueID,
		Name:              b.meta.Name,
		DeviceClass:       b.meta.DeviceClass,
		StateClass:        b.meta.StateClass,
		UnitOfMeasurement: b.meta.UnitOfMeasurement,
		ValueTemplate:     b.meta.ValueTemplate,
		Icon:              b.meta.Icon,
		Command:           command,
	}
}
