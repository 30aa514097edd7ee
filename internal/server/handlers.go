package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/service"

	"github.com/labstack/echo/v4"
)

func (s *Server) entityHandler(c echo.Context) error {
	id, err := domain.ParseEntityID(c.Param("entity_id"))
	if err != nil {
		return err
	}
	raw, err := s.hub.Read(c.Request().Context(), id.EntityID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, raw)
}

// status

func (s *Server) statusListHandler(c echo.Context) error {
	names, err := s.services.Status.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]string{"platforms": names})
}

func (s *Server) statusAllHandler(c echo.Context) error {
	all, err := s.services.Status.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) statusGetHandler(c echo.Context) error {
	data, err := s.services.Status.Get(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data)
}

func (s *Server) statusSendHandler(c echo.Context) error {
	var data service.StatusData
	if err := c.Bind(&data); err != nil {
		return err
	}
	if err := s.services.Status.Send(c.Request().Context(), data); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) statusSendAllHandler(c echo.Context) error {
	var batch []service.StatusData
	if err := c.Bind(&batch); err != nil {
		return err
	}
	if err := s.services.Status.SendAll(c.Request().Context(), batch); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// trains

func (s *Server) trainLinesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]int{"lines": s.services.Trains.AvailableLines()})
}

func (s *Server) trainAllHandler(c echo.Context) error {
	all, err := s.services.Trains.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, all)
}

func (s *Server) trainGetHandler(c echo.Context) error {
	code, err := strconv.Atoi(c.Param("code"))
	if err != nil {
		return domain.InvalidIdentifier("train line", c.Param("code"))
	}
	line, err := s.services.Trains.Get(c.Request().Context(), code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, line)
}

func (s *Server) trainUpdateHandler(c echo.Context) error {
	var line service.TrainLineData
	if err := c.Bind(&line); err != nil {
		return err
	}
	if err := s.services.Trains.Update(c.Request().Context(), line); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) trainUpdateAllHandler(c echo.Context) error {
	var lines []service.TrainLineData
	if err := c.Bind(&lines); err != nil {
		return err
	}
	if err := s.services.Trains.UpdateAll(c.Request().Context(), lines); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// router

func (s *Server) routerDataHandler(c echo.Context) error {
	data, err := s.services.Router.Data(c.Request().Context())
	if err != nil {
		return err
	}
	if c.QueryParam("raw") == "true" {
		return c.JSON(http.StatusOK, data)
	}
	return c.JSON(http.StatusOK, data.Formatted())
}

func (s *Server) routerRebootHandler(c echo.Context) error {
	return noContent(c, s.services.Router.Reboot(c.Request().Context()))
}

func (s *Server) routerGuestWifiHandler(c echo.Context) error {
	return s.toggle(c, s.services.Router.EnableGuestWifi, s.services.Router.DisableGuestWifi)
}

func (s *Server) routerDataFetchingHandler(c echo.Context) error {
	return s.toggle(c, s.services.Router.EnableDataFetching, s.services.Router.DisableDataFetching)
}

func (s *Server) toggle(c echo.Context, enable func(context.Context) error, disable func(context.Context) error) error {
	switch c.Param("toggle") {
	case "enable":
		return noContent(c, enable(c.Request().Context()))
	case "disable":
		return noContent(c, disable(c.Request().Context()))
	}
	return echo.NewHTTPError(http.StatusBadRequest, "toggle must be enable or disable")
}

// pc

type pcStatus struct {
	Connected bool   `json:"connected"`
	Ip        string `json:"ip,omitempty"`
}

func (s *Server) pcStatusHandler(c echo.Context) error {
	ctx := c.Request().Context()
	connected, err := s.services.PC.IsConnected(ctx)
	if err != nil {
		return err
	}
	ip, err := s.services.PC.Address(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pcStatus{Connected: connected, Ip: ip})
}

func (s *Server) pcTurnOnHandler(c echo.Context) error {
	return noContent(c, s.services.PC.TurnOn(c.Request().Context()))
}

func (s *Server) pcTurnOffHandler(c echo.Context) error {
	return noContent(c, s.services.PC.TurnOff(c.Request().Context()))
}

// lights

func (s *Server) lightsStatusHandler(c echo.Context) error {
	status, err := s.services.Lights.Status(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, status)
}

func (s *Server) lightGetHandler(c echo.Context) error {
	ctx := c.Request().Context()
	state, err := s.services.Lights.State(ctx, c.Param("name"))
	if err != nil {
		return err
	}
	brightness, err := s.services.Lights.Brightness(ctx, c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.LightStatus{Name: c.Param("name"), State: state, Brightness: brightness})
}

func (s *Server) lightSetStateHandler(c echo.Context) error {
	state, err := domain.ParseLightState(c.Param("state"))
	if err != nil || (state != domain.LIGHT_ON && state != domain.LIGHT_OFF) {
		return echo.NewHTTPError(http.StatusBadRequest, "state must be on or off")
	}
	return noContent(c, s.services.Lights.SetState(c.Request().Context(), c.Param("name"), state))
}

// lightSetBrightnessHandler owns the 0-100 bound; the core forwards the
// value untouched.
func (s *Server) lightSetBrightnessHandler(c echo.Context) error {
	pct, err := strconv.Atoi(c.Param("brightness"))
	if err != nil || pct < 0 || pct > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "brightness must be an integer between 0 and 100")
	}
	return noContent(c, s.services.Lights.SetBrightness(c.Request().Context(), c.Param("name"), pct))
}

// fans, cameras, printer

func (s *Server) fanGetHandler(c echo.Context) error {
	v, err := s.services.Fans.Velocity(c.Request().Context(), c.Param("room"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]domain.FanVelocity{"velocity": v})
}

func (s *Server) fanSetHandler(c echo.Context) error {
	return noContent(c, s.services.Fans.SetVelocity(c.Request().Context(), c.Param("room"),
		domain.FanVelocity(c.Param("velocity"))))
}

func (s *Server) cameraHandler(c echo.Context) error {
	st, err := s.services.Cameras.Status(c.Request().Context(), c.Param("area"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) printerHandler(c echo.Context) error {
	data, err := s.services.Printer.Status(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, data.Formatted())
}

// spotify

func (s *Server) spotifyAccountsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"accounts": s.services.Spotify.Accounts()})
}

func (s *Server) spotifyPlaybackHandler(c echo.Context) error {
	pb, err := s.services.Spotify.Playback(c.Request().Context(), c.Param("account"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pb)
}

func (s *Server) spotifyControlHandler(c echo.Context) error {
	var action func(context.Context, string) error
	switch c.Param("action") {
	case "play":
		action = s.services.Spotify.Play
	case "pause":
		action = s.services.Spotify.Pause
	case "next":
		action = s.services.Spotify.Next
	case "previous":
		action = s.services.Spotify.Previous
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown spotify action")
	}
	return noContent(c, action(c.Request().Context(), c.Param("account")))
}

// spotifyVolumeHandler owns the 0-1 bound.
func (s *Server) spotifyVolumeHandler(c echo.Context) error {
	level, err := strconv.ParseFloat(c.Param("volume"), 64)
	if err != nil || level < 0 || level > 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "volume must be a number between 0 and 1")
	}
	return noContent(c, s.services.Spotify.SetVolume(c.Request().Context(), c.Param("account"), level))
}

type playMediaRequest struct {
	Uri string `json:"uri"`
}

func (s *Server) spotifyPlayMediaHandler(play func(context.Context, string, string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req playMediaRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		return noContent(c, play(c.Request().Context(), c.Param("account"), req.Uri))
	}
}

// twitch

func (s *Server) twitchStreamersHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"streamers": s.services.Twitch.Streamers()})
}

func (s *Server) twitchStatusHandler(c echo.Context) error {
	st, err := s.services.Twitch.Status(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

func noContent(c echo.Context, err error) error {
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
