package mqtt

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gsbenevides2/hassbridge/internal/core/domain"

	"github.com/carlmjohnson/versioninfo"
)

const (
	ORIGIN_NAME = "hassbridge"
	ORIGIN_URL  = "https://github.com/gsbenevides2/hassbridge"
)

type HADiscoveryConfig struct {
	Device            HADiscoveryDevice `json:"device"`
	Origin            HADiscoveryOrigin `json:"origin"`
	StateTopic        string            `json:"state_topic,omitempty"`
	CommandTopic      string            `json:"command_topic,omitempty"`
	StateClass        string            `json:"state_class,omitempty"`
	DeviceClass       string            `json:"device_class,omitempty"`
	UnitOfMeasurement string            `json:"unit_of_measurement,omitempty"`
	ValueTemplate     string            `json:"value_template,omitempty"`
	AvTopic           string            `json:"availability_topic,omitempty"`
	EntityCategory    string            `json:"entity_category,omitempty"`
	Name              string            `json:"name"`
	UniqueId          string            `json:"unique_id"`
	ObjectId          string            `json:"object_id"`
	Platform          string            `json:"platform"`
	PayloadOn         string            `json:"payload_on,omitempty"`
	PayloadOff        string            `json:"payload_off,omitempty"`
	PayloadPress      string            `json:"payload_press,omitempty"`
	Icon              string            `json:"icon,omitempty"`
}

type HADiscoveryDevice struct {
	Id           []string `json:"identifiers"`
	Manufacturer string   `json:"manufacturer,omitempty"`
	Version      string   `json:"sw_version,omitempty"`
	Model        string   `json:"model,omitempty"`
	Name         string   `json:"name,omitempty"`
	ViaDevice    string   `json:"via_device,omitempty"`
}

type HADiscoveryOrigin struct {
	Name    string `json:"name"`
	Version string `json:"sw_version,omitempty"`
	Url     string `json:"support_url,omitempty"`
}

// BridgeDevice groups every announced entity under one hub device.
func BridgeDevice(baseTopic string) domain.Device {
	return domain.Device{
		Id:           fmt.Sprintf("hassbridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "gsbenevides2",
		Model:        "HassBridge",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("HassBridge %s", md5HashShort(baseTopic)),
	}
}

// ComponentToHADiscoveryMessage builds the config payload. It carries no
// timestamps so republishing yields the same bytes.
func ComponentToHADiscoveryMessage(client *MQTTClient, c domain.Component) HADiscoveryConfig {
	kind := string(c.Kind)
	dev := c.Device
	if dev.Id == "" {
		dev = BridgeDevice(client.baseTopic())
	}
	disConfig := HADiscoveryConfig{
		Device:            device(dev),
		Origin:            HADiscoveryOrigin{Name: ORIGIN_NAME, Version: versioninfo.Short(), Url: ORIGIN_URL},
		StateClass:        c.StateClass,
		DeviceClass:       c.DeviceClass,
		UnitOfMeasurement: c.UnitOfMeasurement,
		ValueTemplate:     c.ValueTemplate,
		AvTopic:           client.BridgeStateTopic(),
		EntityCategory:    c.EntityCategory,
		Name:              c.Name,
		UniqueId:          c.UniqueId,
		ObjectId:          c.ObjectId,
		Icon:              c.Icon,
		Platform:          "mqtt",
	}
	switch c.Kind {
	case domain.DOMAIN_BUTTON:
		disConfig.CommandTopic = client.CommandTopic(kind, c.ObjectId)
		disConfig.PayloadPress = MQTT_PAYLOAD_PRESS
	case domain.DOMAIN_SWITCH:
		disConfig.StateTopic = client.StateTopic(kind, c.ObjectId)
		disConfig.CommandTopic = client.CommandTopic(kind, c.ObjectId)
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	case domain.DOMAIN_BINARY_SENSOR:
		disConfig.StateTopic = client.StateTopic(kind, c.ObjectId)
		disConfig.PayloadOn = MQTT_PAYLOAD_ON
		disConfig.PayloadOff = MQTT_PAYLOAD_OFF
	default:
		disConfig.StateTopic = client.StateTopic(kind, c.ObjectId)
		if c.Command {
			disConfig.CommandTopic = client.CommandTopic(kind, c.ObjectId)
		}
	}
	return disConfig
}

func (c HADiscoveryConfig) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

func device(d domain.Device) HADiscoveryDevice {
	return HADiscoveryDevice{
		Id:           []string{d.Id},
		Manufacturer: d.Manufacturer,
		Version:      d.Version,
		Model:        d.Model,
		Name:         d.Name,
		ViaDevice:    d.ViaDevice,
	}
}

func md5HashShort(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])[:6]
}
