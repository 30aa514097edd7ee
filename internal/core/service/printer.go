package service

import (
	"context"
	"errors"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
)

// PrinterData carries the raw hub values; counters read unavailable when
// the printer is asleep.
type PrinterData struct {
	PrinterStatus    domain.PrinterStatus      `json:"printerStatus"`
	ConnectionStatus domain.DeviceTrackerState `json:"connectionStatus"`
	ColorCMYLevel    string                    `json:"colorCMYLevel"`
	ColorBlackLevel  string                    `json:"colorBlackLevel"`
	PagesLevel       string                    `json:"pagesLevel"`
	ScannerLevel     string                    `json:"scannerLevel"`
}

// Formatted adds display units to the counters that have a value.
func (d PrinterData) Formatted() PrinterData {
	d.ColorCMYLevel = withUnit(d.ColorCMYLevel, "%")
	d.ColorBlackLevel = withUnit(d.ColorBlackLevel, "%")
	d.PagesLevel = withUnit(d.PagesLevel, " páginas")
	d.ScannerLevel = withUnit(d.ScannerLevel, " páginas")
	return d
}

func withUnit(v string, unit string) string {
	if v == domain.STATE_UNAVAILABLE || v == domain.STATE_UNKNOWN || v == "" {
		return v
	}
	return v + unit
}

type Printer struct {
	status     *entity.EnumSensor[domain.PrinterStatus, domain.Attributes]
	connection *entity.DeviceTracker[domain.Attributes]
	counters   []*entity.Sensor[domain.Attributes]
}

var printerCounters = []struct {
	slug string
	name string
}{
	{"printer_cmy_ink", "Printer CMY ink"},
	{"printer_black_ink", "Printer black ink"},
	{"printer_pages", "Printer total pages"},
	{"printer_scanned_pages", "Printer scanned pages"},
}

func NewPrinter(sctx *Context) *Printer {
	p := &Printer{
		status: entity.NewEnumSensor[domain.PrinterStatus, domain.Attributes](sctx.Hub,
			domain.NewIdentity(domain.DOMAIN_SENSOR, "printer_status"),
			entity.Meta{Name: "Printer status", Icon: "mdi:printer"}, domain.ParsePrinterStatus),
		connection: entity.NewDeviceTracker[domain.Attributes](sctx.Hub,
			domain.NewIdentity(domain.DOMAIN_DEVICE_TRACKER, "printer"), entity.Meta{Name: "Printer"}),
	}
	for _, c := range printerCounters {
		p.counters = append(p.counters, entity.NewSensor[domain.Attributes](sctx.Hub,
			domain.NewIdentity(domain.DOMAIN_SENSOR, c.slug), entity.Meta{Name: c.name}))
	}
	return p
}

// Status reads every printer entity in parallel.
func (p *Printer) Status(ctx context.Context) (PrinterData, error) {
	n := len(p.counters) + 2
	values, err := gather(ctx, n, func(ctx context.Context, i int) (string, error) {
		switch i {
		case 0:
			data, err := p.status.GetData(ctx)
			return string(data.State), err
		case 1:
			data, err := p.connection.GetData(ctx)
			return string(data.State), err
		}
		data, err := p.counters[i-2].GetData(ctx)
		if errors.Is(err, domain.ErrEntityUnavailable) {
			return domain.STATE_UNAVAILABLE, nil
		}
		return string(data.State), err
	})
	if err != nil {
		return PrinterData{}, err
	}
	return PrinterData{
		PrinterStatus:    domain.PrinterStatus(values[0]),
		ConnectionStatus: domain.DeviceTrackerState(values[1]),
		ColorCMYLevel:    values[2],
		ColorBlackLevel:  values[3],
		PagesLevel:       values[4],
		ScannerLevel:     values[5],
	}, nil
}
