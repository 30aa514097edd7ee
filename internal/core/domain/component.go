package domain

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

// Component describes one entity announced over discovery.
type Component struct {
	Kind              EntityDomain // sensor, binary_sensor, switch, button
	ObjectId          string
	UniqueId          string
	Name              string
	DeviceClass       string // problem, connectivity, ...
	StateClass        string
	UnitOfMeasurement string
	EntityCategory    string // diagnostic, config, nil
	ValueTemplate     string
	Icon              string
	Command           bool // accepts commands on the set topic
	Device            Device
}
