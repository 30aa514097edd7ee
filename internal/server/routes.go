package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = s.errorHandler
	if s.httpLog {
		e.Use(middleware.Logger())
	}
	e.Use(middleware.Recover())

	e.GET("/healthcheck", s.HealthCheckHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/entities/:entity_id", s.entityHandler)

	status := e.Group("/status")
	status.GET("", s.statusListHandler)
	status.GET("/all", s.statusAllHandler)
	status.GET("/:name", s.statusGetHandler)
	status.POST("", s.statusSendHandler)
	status.POST("/batch", s.statusSendAllHandler)

	trains := e.Group("/trains")
	trains.GET("/lines", s.trainLinesHandler)
	trains.GET("", s.trainAllHandler)
	trains.GET("/:code", s.trainGetHandler)
	trains.POST("", s.trainUpdateHandler)
	trains.PUT("", s.trainUpdateAllHandler)

	router := e.Group("/router")
	router.GET("", s.routerDataHandler)
	router.POST("/reboot", s.routerRebootHandler)
	router.POST("/guest-wifi/:toggle", s.routerGuestWifiHandler)
	router.POST("/data-fetching/:toggle", s.routerDataFetchingHandler)

	pc := e.Group("/pc")
	pc.GET("", s.pcStatusHandler)
	pc.POST("/turn-on", s.pcTurnOnHandler)
	pc.POST("/turn-off", s.pcTurnOffHandler)

	lights := e.Group("/lights")
	lights.GET("", s.lightsStatusHandler)
	lights.GET("/:name", s.lightGetHandler)
	lights.POST("/:name/state/:state", s.lightSetStateHandler)
	lights.POST("/:name/brightness/:brightness", s.lightSetBrightnessHandler)

	e.GET("/fans/:room", s.fanGetHandler)
	e.POST("/fans/:room/:velocity", s.fanSetHandler)
	e.GET("/cameras/:area", s.cameraHandler)
	e.GET("/printer/status", s.printerHandler)

	spotify := e.Group("/spotify")
	spotify.GET("/accounts", s.spotifyAccountsHandler)
	spotify.GET("/accounts/:account", s.spotifyPlaybackHandler)
	spotify.POST("/volume/:account/:volume", s.spotifyVolumeHandler)
	spotify.POST("/play-song/:account", s.spotifyPlayMediaHandler(s.services.Spotify.PlaySong))
	spotify.POST("/play-album/:account", s.spotifyPlayMediaHandler(s.services.Spotify.PlayAlbum))
	spotify.POST("/play-artist/:account", s.spotifyPlayMediaHandler(s.services.Spotify.PlayArtist))
	spotify.POST("/:action/:account", s.spotifyControlHandler)

	e.GET("/twitch/streamers", s.twitchStreamersHandler)
	e.GET("/twitch/streamers/:id", s.twitchStatusHandler)

	return e
}

func (s *Server) HealthCheckHandler(c echo.Context) error {
	if err := s.health(c.Request().Context()); err != nil {
		return c.String(http.StatusServiceUnavailable, "health_check: FAIL")
	}
	return c.String(http.StatusOK, "health_check: OK")
}
