package service

import (
	"context"
	"slices"

	"github.com/gsbenevides2/hassbridge/internal/config"
	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/port"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Context holds the shared collaborators every domain sensor works with.
// It is built once at startup and passed by reference.
type Context struct {
	Hub       port.HubClient
	Publisher port.DiscoveryPublisher
	Catalog   config.CatalogConfig
	Logger    *zap.Logger
}

func NewContext(hub port.HubClient, publisher port.DiscoveryPublisher, catalog config.CatalogConfig, logger *zap.Logger) *Context {
	return &Context{
		Hub:       hub,
		Publisher: publisher,
		Catalog:   catalog,
		Logger:    logger,
	}
}

// Services is the domain sensor catalog.
type Services struct {
	Status  *StatusSensors
	Trains  *TrainLines
	Router  *Router
	PC      *PC
	Lights  *Lights
	Fans    *Fans
	Cameras *Cameras
	Printer *Printer
	Spotify *Spotify
	Twitch  *Twitch
}

func NewServices(sctx *Context, shutdowner Shutdowner) *Services {
	return &Services{
		Status:  NewStatusSensors(sctx),
		Trains:  NewTrainLines(sctx),
		Router:  NewRouter(sctx),
		PC:      NewPC(sctx, shutdowner),
		Lights:  NewLights(sctx),
		Fans:    NewFans(sctx),
		Cameras: NewCameras(sctx),
		Printer: NewPrinter(sctx),
		Spotify: NewSpotify(sctx),
		Twitch:  NewTwitch(sctx),
	}
}

// Announce registers the command entities over discovery.
func (s *Services) Announce(ctx context.Context) error {
	return s.PC.SetupButton(ctx)
}

// gather runs fn for every index in parallel. The first failure cancels
// the rest and fails the whole call.
func gather[T any](ctx context.Context, n int, fn func(ctx context.Context, i int) (T, error)) ([]T, error) {
	out := make([]T, n)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			v, err := fn(gctx, i)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkCatalog resolves name against a closed catalog, comparing slugs so
// "quarto_gui" and "Quarto Gui" name the same entry.
func checkCatalog(kind string, catalog []string, name string) (string, error) {
	slug := domain.Slugify(name)
	idx := slices.IndexFunc(catalog, func(entry string) bool {
		return domain.Slugify(entry) == slug
	})
	if idx < 0 || slug == "" {
		return "", domain.InvalidIdentifier(kind, name)
	}
	return catalog[idx], nil
}
