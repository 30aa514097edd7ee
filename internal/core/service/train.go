package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
	"github.com/gsbenevides2/hassbridge/internal/util"
)

var TrainLineCodes = []int{1, 2, 3, 4, 5, 7, 8, 9, 10, 11, 12, 13, 15}

const TRAIN_ICON = "mdi:train"

type TrainLineData struct {
	Codigo    int     `json:"codigo"`
	Cor       string  `json:"cor"`
	Status    string  `json:"status"`
	Situacao  string  `json:"situacao"`
	Descricao *string `json:"descricao,omitempty"`
}

type TrainAttributes struct {
	FriendlyName string `json:"friendly_name"`
	Icon         string `json:"icon"`
	Status       string `json:"status"`
	Codigo       string `json:"codigo"`
	Cor          string `json:"cor"`
	Descricao    string `json:"descricao"`
}

// TrainLines publishes the metro/train line situation, one sensor per line
// named sensor.sp_train_<code in words>.
type TrainLines struct {
	sctx *Context
}

func NewTrainLines(sctx *Context) *TrainLines {
	return &TrainLines{sctx: sctx}
}

func (t *TrainLines) AvailableLines() []int {
	return slices.Clone(TrainLineCodes)
}

func TrainIdentity(code int) domain.Identity {
	return domain.NewIdentity(domain.DOMAIN_SENSOR, "sp_train_"+util.NumberToWords(code))
}

func (t *TrainLines) sensor(code int) (*entity.Sensor[TrainAttributes], error) {
	if !slices.Contains(TrainLineCodes, code) {
		return nil, domain.InvalidIdentifier("train line", code)
	}
	return entity.NewSensor[TrainAttributes](t.sctx.Hub, TrainIdentity(code), entity.Meta{
		Name: fmt.Sprintf("Linha %s", util.NumberToWords(code)),
		Icon: TRAIN_ICON,
	}), nil
}

func (t *TrainLines) Get(ctx context.Context, code int) (TrainLineData, error) {
	sensor, err := t.sensor(code)
	if err != nil {
		return TrainLineData{}, err
	}
	data, err := sensor.GetData(ctx)
	if err != nil {
		return TrainLineData{}, err
	}
	out := TrainLineData{
		Codigo:   code,
		Cor:      data.Attributes.Cor,
		Status:   data.Attributes.Status,
		Situacao: string(data.State),
	}
	if data.Attributes.Descricao != "" {
		desc := data.Attributes.Descricao
		out.Descricao = &desc
	}
	if parsed, err := strconv.Atoi(data.Attributes.Codigo); err == nil {
		out.Codigo = parsed
	}
	return out, nil
}

// GetAll reads every known line in parallel.
func (t *TrainLines) GetAll(ctx context.Context) ([]TrainLineData, error) {
	return gather(ctx, len(TrainLineCodes), func(ctx context.Context, i int) (TrainLineData, error) {
		return t.Get(ctx, TrainLineCodes[i])
	})
}

func (t *TrainLines) Update(ctx context.Context, line TrainLineData) error {
	sensor, err := t.sensor(line.Codigo)
	if err != nil {
		return err
	}
	return t.update(ctx, sensor, line)
}

func (t *TrainLines) update(ctx context.Context, sensor *entity.Sensor[TrainAttributes], line TrainLineData) error {
	attrs := TrainAttributes{
		FriendlyName: fmt.Sprintf("Linha %d - %s", line.Codigo, line.Cor),
		Icon:         TRAIN_ICON,
		Status:       line.Status,
		Codigo:       strconv.Itoa(line.Codigo),
		Cor:          line.Cor,
	}
	if line.Descricao != nil {
		attrs.Descricao = *line.Descricao
	}
	return sensor.SendData(ctx, domain.SensorState(line.Situacao), &attrs)
}

// UpdateAll is all or nothing: the batch must name every known line
// exactly once, otherwise nothing is written.
func (t *TrainLines) UpdateAll(ctx context.Context, lines []TrainLineData) error {
	seen := make(map[int]bool, len(lines))
	sensors := make([]*entity.Sensor[TrainAttributes], len(lines))
	for i, line := range lines {
		sensor, err := t.sensor(line.Codigo)
		if err != nil {
			return err
		}
		if seen[line.Codigo] {
			return fmt.Errorf("%w: train line %d listed twice", domain.ErrInvalidIdentifier, line.Codigo)
		}
		seen[line.Codigo] = true
		sensors[i] = sensor
	}
	for _, code := range TrainLineCodes {
		if !seen[code] {
			return fmt.Errorf("%w: train line %d missing from batch", domain.ErrInvalidIdentifier, code)
		}
	}
	_, err := gather(ctx, len(lines), func(ctx context.Context, i int) (struct{}, error) {
		return struct{}{}, t.update(ctx, sensors[i], lines[i])
	})
	return err
}
