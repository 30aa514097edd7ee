package service

import (
	"context"
	"fmt"
	"regexp"
	"slices"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
)

const (
	SPOTIFY_TRACK  = "track"
	SPOTIFY_ALBUM  = "album"
	SPOTIFY_ARTIST = "artist"
)

var spotifyUriPattern = regexp.MustCompile(`^spotify:(track|album|artist):[a-zA-Z0-9]+$`)

var activePlayback = []domain.MediaPlayerState{domain.MEDIA_PLAYING, domain.MEDIA_BUFFERING, domain.MEDIA_PAUSED}

type Playback struct {
	Active            bool                    `json:"active"`
	State             domain.MediaPlayerState `json:"state"`
	MusicTitle        string                  `json:"musicTitle"`
	MusicArtist       string                  `json:"musicArtist"`
	MusicAlbum        string                  `json:"musicAlbum"`
	MusicTimePosition float64                 `json:"musicTimePosition"`
	MusicDuration     float64                 `json:"musicDuration"`
	MusicVolume       float64                 `json:"musicVolume"`
	MusicShuffle      bool                    `json:"musicShuffle"`
	MusicRepeat       string                  `json:"musicRepeat"`
	DeviceSource      string                  `json:"deviceSource"`
	PositionInAlbum   float64                 `json:"musicPositionInAlbum"`
	MusicId           string                  `json:"musicId"`
}

type Spotify struct {
	sctx *Context
}

func NewSpotify(sctx *Context) *Spotify {
	return &Spotify{sctx: sctx}
}

func (s *Spotify) Accounts() []string {
	return s.sctx.Catalog.SpotifyAccounts
}

func (s *Spotify) player(account string) (*entity.MediaPlayer, error) {
	account, err := checkCatalog("spotify account", s.sctx.Catalog.SpotifyAccounts, account)
	if err != nil {
		return nil, err
	}
	return entity.NewMediaPlayer(s.sctx.Hub,
		domain.NewIdentity(domain.DOMAIN_MEDIA_PLAYER, "spotify_"+domain.Slugify(account)),
		entity.Meta{Name: "Spotify " + account}), nil
}

// Playback reports an inactive, zeroed playback unless the player is
// playing, buffering or paused.
func (s *Spotify) Playback(ctx context.Context, account string) (Playback, error) {
	player, err := s.player(account)
	if err != nil {
		return Playback{}, err
	}
	data, err := player.GetData(ctx)
	if err != nil {
		return Playback{}, err
	}
	out := Playback{State: data.State, MusicRepeat: "off"}
	if !slices.Contains(activePlayback, data.State) {
		return out, nil
	}
	a := data.Attributes
	out.Active = true
	out.MusicTitle = deref(a.MediaTitle)
	out.MusicArtist = deref(a.MediaArtist)
	out.MusicAlbum = deref(a.MediaAlbumName)
	out.MusicTimePosition = deref(a.MediaPosition)
	out.MusicDuration = deref(a.MediaDuration)
	out.MusicVolume = deref(a.VolumeLevel)
	out.MusicShuffle = deref(a.Shuffle)
	out.DeviceSource = deref(a.Source)
	out.PositionInAlbum = deref(a.MediaTrack)
	out.MusicId = deref(a.MediaContentId)
	if a.Repeat != nil {
		out.MusicRepeat = *a.Repeat
	}
	return out, nil
}

func (s *Spotify) Play(ctx context.Context, account string) error {
	return s.with(account, func(p *entity.MediaPlayer) error { return p.Play(ctx) })
}

func (s *Spotify) Pause(ctx context.Context, account string) error {
	return s.with(account, func(p *entity.MediaPlayer) error { return p.Pause(ctx) })
}

func (s *Spotify) Next(ctx context.Context, account string) error {
	return s.with(account, func(p *entity.MediaPlayer) error { return p.Next(ctx) })
}

func (s *Spotify) Previous(ctx context.Context, account string) error {
	return s.with(account, func(p *entity.MediaPlayer) error { return p.Previous(ctx) })
}

// SetVolume expects level already bounded to 0-1.
func (s *Spotify) SetVolume(ctx context.Context, account string, level float64) error {
	return s.with(account, func(p *entity.MediaPlayer) error { return p.SetVolume(ctx, level) })
}

func (s *Spotify) PlaySong(ctx context.Context, account string, uri string) error {
	return s.playMedia(ctx, account, uri, SPOTIFY_TRACK)
}

func (s *Spotify) PlayAlbum(ctx context.Context, account string, uri string) error {
	return s.playMedia(ctx, account, uri, SPOTIFY_ALBUM)
}

func (s *Spotify) PlayArtist(ctx context.Context, account string, uri string) error {
	return s.playMedia(ctx, account, uri, SPOTIFY_ARTIST)
}

// playMedia checks the uri names the expected kind, e.g. spotify:album:<id>.
func (s *Spotify) playMedia(ctx context.Context, account string, uri string, kind string) error {
	m := spotifyUriPattern.FindStringSubmatch(uri)
	if m == nil || m[1] != kind {
		return fmt.Errorf("%w: spotify %s uri %q", domain.ErrInvalidIdentifier, kind, uri)
	}
	return s.with(account, func(p *entity.MediaPlayer) error { return p.PlayMedia(ctx, uri, kind) })
}

func (s *Spotify) with(account string, fn func(p *entity.MediaPlayer) error) error {
	player, err := s.player(account)
	if err != nil {
		return err
	}
	return fn(player)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
