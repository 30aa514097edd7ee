package service

import (
	"context"
	"strings"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
	"github.com/gsbenevides2/hassbridge/internal/util"

	"go.uber.org/zap"
)

const (
	STATUS_OBJECT_PREFIX = "status_plataform_"
	DEVICE_CLASS_PROBLEM = "problem"
)

type StatusData struct {
	Name               string  `json:"name"`
	StatusUrl          string  `json:"status_url"`
	ProblemDescription *string `json:"problem_description,omitempty"`
	HasProblem         bool    `json:"hasProblem"`
}

type StatusAttributes struct {
	FriendlyName       string  `json:"friendly_name"`
	DeviceClass        string  `json:"device_class,omitempty"`
	StatusUrl          string  `json:"status_url"`
	ProblemDescription *string `json:"problem_description,omitempty"`
}

// StatusSensors tracks third party platform health as problem binary
// sensors named binary_sensor.status_plataform_<slug>. ok maps to off,
// problem to on.
type StatusSensors struct {
	sctx   *Context
	logger *zap.Logger
}

func NewStatusSensors(sctx *Context) *StatusSensors {
	return &StatusSensors{sctx: sctx, logger: util.ComponentLogger("status", sctx.Logger)}
}

func StatusIdentity(name string) domain.Identity {
	return domain.NewIdentity(domain.DOMAIN_BINARY_SENSOR, STATUS_OBJECT_PREFIX+domain.Slugify(name))
}

func (s *StatusSensors) sensor(name string) (*entity.BinarySensor[StatusAttributes], error) {
	if strings.Trim(domain.Slugify(name), "_") == "" {
		return nil, domain.InvalidIdentifier("status platform", name)
	}
	return entity.NewBinarySensor[StatusAttributes](s.sctx.Hub, StatusIdentity(name), entity.Meta{
		Name:        name,
		DeviceClass: DEVICE_CLASS_PROBLEM,
	}), nil
}

func (s *StatusSensors) Get(ctx context.Context, name string) (StatusData, error) {
	sensor, err := s.sensor(name)
	if err != nil {
		return StatusData{}, err
	}
	data, err := sensor.GetData(ctx)
	if err != nil {
		return StatusData{}, err
	}
	return StatusData{
		Name:               name,
		StatusUrl:          data.Attributes.StatusUrl,
		ProblemDescription: data.Attributes.ProblemDescription,
		HasProblem:         data.State == domain.BINARY_ON,
	}, nil
}

func (s *StatusSensors) Send(ctx context.Context, data StatusData) error {
	sensor, err := s.sensor(data.Name)
	if err != nil {
		return err
	}
	return s.send(ctx, sensor, data)
}

func (s *StatusSensors) send(ctx context.Context, sensor *entity.BinarySensor[StatusAttributes], data StatusData) error {
	state := domain.BINARY_OFF
	if data.HasProblem {
		state = domain.BINARY_ON
	}
	attrs := StatusAttributes{
		FriendlyName:       data.Name,
		DeviceClass:        DEVICE_CLASS_PROBLEM,
		StatusUrl:          data.StatusUrl,
		ProblemDescription: data.ProblemDescription,
	}
	if err := sensor.SendData(ctx, state, &attrs); err != nil {
		return err
	}
	s.logger.Debug("status@send", zap.String("entity_id", sensor.Identity().EntityID), zap.Bool("problem", data.HasProblem))
	return nil
}

// SendAll validates every name before writing any of them.
func (s *StatusSensors) SendAll(ctx context.Context, batch []StatusData) error {
	sensors := make([]*entity.BinarySensor[StatusAttributes], len(batch))
	for i, data := range batch {
		sensor, err := s.sensor(data.Name)
		if err != nil {
			return err
		}
		sensors[i] = sensor
	}
	_, err := gather(ctx, len(batch), func(ctx context.Context, i int) (struct{}, error) {
		return struct{}{}, s.send(ctx, sensors[i], batch[i])
	})
	return err
}

// List returns the display names of every status sensor the hub knows.
func (s *StatusSensors) List(ctx context.Context) ([]string, error) {
	states, err := s.statusStates(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(states))
	for i, raw := range states {
		names[i] = statusName(raw.EntityID)
	}
	return names, nil
}

// GetAll reads every status sensor from a single hub listing.
func (s *StatusSensors) GetAll(ctx context.Context) ([]StatusData, error) {
	states, err := s.statusStates(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]StatusData, 0, len(states))
	for _, raw := range states {
		attrs, err := domain.DecodeAttributes[StatusAttributes](raw.Attributes)
		if err != nil {
			return nil, err
		}
		out = append(out, StatusData{
			Name:               statusName(raw.EntityID),
			StatusUrl:          attrs.StatusUrl,
			ProblemDescription: attrs.ProblemDescription,
			HasProblem:         raw.State == string(domain.BINARY_ON),
		})
	}
	return out, nil
}

func (s *StatusSensors) statusStates(ctx context.Context) ([]domain.RawState, error) {
	states, err := s.sctx.Hub.ListStates(ctx)
	if err != nil {
		return nil, err
	}
	prefix := string(domain.DOMAIN_BINARY_SENSOR) + "." + STATUS_OBJECT_PREFIX
	out := make([]domain.RawState, 0)
	for _, raw := range states {
		if strings.HasPrefix(raw.EntityID, prefix) {
			out = append(out, raw)
		}
	}
	return out, nil
}

func statusName(entityId string) string {
	prefix := string(domain.DOMAIN_BINARY_SENSOR) + "." + STATUS_OBJECT_PREFIX
	return domain.Unslugify(strings.TrimPrefix(entityId, prefix))
}
