package service

import (
	"context"
	"fmt"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"
	"github.com/gsbenevides2/hassbridge/internal/core/entity"
)

// RouterData holds the raw hub states. Every field comes from its own
// read; there is no snapshot across fields.
type RouterData struct {
	CpuUsed          string             `json:"cpuUsed"`
	MemoryUsed       string             `json:"memoryUsed"`
	TotalClients     string             `json:"totalClients"`
	DataFetching     domain.SwitchState `json:"dataFetching"`
	GuestWifi        domain.SwitchState `json:"guestWifi"`
	DownloadSpeed    string             `json:"downloadSpeed"`
	UploadSpeed      string             `json:"uploadSpeed"`
	Ping             string             `json:"ping"`
	MainWifiClients  string             `json:"mainWifiClients"`
	GuestWifiClients string             `json:"guestWifiClients"`
	WiredClients     string             `json:"mainWiredClients"`
}

type FormattedRouterData struct {
	CpuUsed          string `json:"cpuUsed"`
	MemoryUsed       string `json:"memoryUsed"`
	TotalClients     string `json:"totalClients"`
	DataFetching     string `json:"dataFetching"`
	GuestWifi        string `json:"guestWifi"`
	DownloadSpeed    string `json:"downloadSpeed"`
	UploadSpeed      string `json:"uploadSpeed"`
	Ping             string `json:"ping"`
	MainWifiClients  string `json:"mainWifiClients"`
	GuestWifiClients string `json:"guestWifiClients"`
	WiredClients     string `json:"mainWiredClients"`
}

// Formatted applies display units.
func (d RouterData) Formatted() FormattedRouterData {
	return FormattedRouterData{
		CpuUsed:          d.CpuUsed + " %",
		MemoryUsed:       d.MemoryUsed + " %",
		TotalClients:     d.TotalClients + " clients",
		DataFetching:     enabledLabel(d.DataFetching),
		GuestWifi:        enabledLabel(d.GuestWifi),
		DownloadSpeed:    d.DownloadSpeed + " Mbps",
		UploadSpeed:      d.UploadSpeed + " Mbps",
		Ping:             d.Ping + " ms",
		MainWifiClients:  d.MainWifiClients + " clients",
		GuestWifiClients: d.GuestWifiClients + " clients",
		WiredClients:     d.WiredClients + " clients",
	}
}

func enabledLabel(s domain.SwitchState) string {
	if s == domain.SWITCH_ON {
		return "Enabled"
	}
	return "Disabled"
}

type Router struct {
	sensors      []*entity.Sensor[domain.Attributes]
	dataFetching *entity.Switch
	guestWifi    *entity.Switch
	reboot       *entity.Button
}

// order matters: it is the RouterData field order used by Data
var routerSensors = []struct {
	slug string
	name string
}{
	{"tp_link_router_cpu_used", "TP-Link Router CPU used"},
	{"tp_link_router_memory_used", "TP-Link Router Memory used"},
	{"tp_link_router_total_clients", "TP-Link Router Total Clients"},
	{"speedtest_baixar", "Download Speed"},
	{"speedtest_carregar", "Upload Speed"},
	{"speedtest_ping", "Ping"},
	{"tp_link_router_total_main_wifi_clients", "Total main wifi clients"},
	{"tp_link_router_total_guest_wifi_clients", "Total guest wifi clients"},
	{"tp_link_router_total_wired_clients", "Total wired clients"},
}

func NewRouter(sctx *Context) *Router {
	r := &Router{
		dataFetching: entity.NewSwitch(sctx.Hub, domain.NewIdentity(domain.DOMAIN_SWITCH, "router_data_fetching"),
			entity.Meta{Name: "Router data fetching", Icon: "mdi:connection"}),
		guestWifi: entity.NewSwitch(sctx.Hub, domain.NewIdentity(domain.DOMAIN_SWITCH, "guest_wifi_2_4g"),
			entity.Meta{Name: "Guest WIFI 2.4G", Icon: "mdi:wifi"}),
		reboot: entity.NewButton(sctx.Hub, domain.NewIdentity(domain.DOMAIN_BUTTON, "reboot"),
			entity.Meta{Name: "Reboot"}),
	}
	for _, s := range routerSensors {
		r.sensors = append(r.sensors, entity.NewSensor[domain.Attributes](sctx.Hub,
			domain.NewIdentity(domain.DOMAIN_SENSOR, s.slug), entity.Meta{Name: s.name}))
	}
	return r
}

// Data reads the eleven router entities in parallel; any failure fails
// the whole read.
func (r *Router) Data(ctx context.Context) (RouterData, error) {
	switches := []*entity.Switch{r.dataFetching, r.guestWifi}
	n := len(r.sensors) + len(switches)
	values, err := gather(ctx, n, func(ctx context.Context, i int) (string, error) {
		if i < len(r.sensors) {
			data, err := r.sensors[i].GetData(ctx)
			return string(data.State), err
		}
		data, err := switches[i-len(r.sensors)].GetData(ctx)
		return string(data.State), err
	})
	if err != nil {
		return RouterData{}, fmt.Errorf("router data: %w", err)
	}
	return RouterData{
		CpuUsed:          values[0],
		MemoryUsed:       values[1],
		TotalClients:     values[2],
		DownloadSpeed:    values[3],
		UploadSpeed:      values[4],
		Ping:             values[5],
		MainWifiClients:  values[6],
		GuestWifiClients: values[7],
		WiredClients:     values[8],
		DataFetching:     domain.SwitchState(values[9]),
		GuestWifi:        domain.SwitchState(values[10]),
	}, nil
}

func (r *Router) Reboot(ctx context.Context) error {
	return r.reboot.Press(ctx)
}

func (r *Router) EnableGuestWifi(ctx context.Context) error {
	return r.guestWifi.TurnOn(ctx)
}

func (r *Router) DisableGuestWifi(ctx context.Context) error {
	return r.guestWifi.TurnOff(ctx)
}

func (r *Router) EnableDataFetching(ctx context.Context) error {
	return r.dataFetching.TurnOn(ctx)
}

func (r *Router) DisableDataFetching(ctx context.Context) error {
	return r.dataFetching.TurnOff(ctx)
}
