package service

import (
	"context"
	"slices"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
)

type TwitchAttributes struct {
	FriendlyName         string   `json:"friendly_name"`
	Game                 *string  `json:"game,omitempty"`
	Title                *string  `json:"title,omitempty"`
	StartedAt            *string  `json:"started_at,omitempty"`
	Viewers              *float64 `json:"viewers,omitempty"`
	Followers            *float64 `json:"followers,omitempty"`
	Subscribed           *bool    `json:"subscribed,omitempty"`
	SubscriptionIsGifted *bool    `json:"subscription_is_gifted,omitempty"`
	SubscriptionTier     *string  `json:"subscription_tier,omitempty"`
	Following            *bool    `json:"following,omitempty"`
	FollowingSince       *string  `json:"following_since,omitempty"`
	EntityPicture        *string  `json:"entity_picture,omitempty"`
}

type TwitchStatus struct {
	Id         string             `json:"id"`
	State      domain.StreamState `json:"state"`
	Attributes TwitchAttributes   `json:"attributes"`
}

type Twitch struct {
	sctx *Context
}

func NewTwitch(sctx *Context) *Twitch {
	return &Twitch{sctx: sctx}
}

func (t *Twitch) Streamers() []config.Streamer {
	return slices.Clone(t.sctx.Catalog.TwitchStreamers)
}

func (t *Twitch) Status(ctx context.Context, id string) (TwitchStatus, error) {
	idx := slices.IndexFunc(t.sctx.Catalog.TwitchStreamers, func(s config.Streamer) bool { return s.Id == id })
	if idx < 0 {
		return TwitchStatus{}, domain.InvalidIdentifier("twitch streamer", id)
	}
	streamer := t.sctx.Catalog.TwitchStreamers[idx]
	sensor := entity.NewEnumSensor[domain.StreamState, TwitchAttributes](t.sctx.Hub,
		domain.NewIdentity(domain.DOMAIN_SENSOR, streamer.Id),
		entity.Meta{Name: streamer.FriendlyName, Icon: "mdi:twitch"}, domain.ParseStreamState)
	data, err := sensor.GetData(ctx)
	if err != nil {
		return TwitchStatus{}, err
	}
	return TwitchStatus{Id: streamer.Id, State: data.State, Attributes: data.Attributes}, nil
}
