package domain

import (
	"fmt"
	"strings"
)

type EntityDomain string

const (
	DOMAIN_SENSOR         EntityDomain = "sensor"
	DOMAIN_BINARY_SENSOR  EntityDomain = "binary_sensor"
	DOMAIN_SWITCH         EntityDomain = "switch"
	DOMAIN_BUTTON         EntityDomain = "button"
	DOMAIN_DEVICE_TRACKER EntityDomain = "device_tracker"
	DOMAIN_CAMERA         EntityDomain = "camera"
	DOMAIN_MEDIA_PLAYER   EntityDomain = "media_player"
	DOMAIN_LIGHT          EntityDomain = "light"
	DOMAIN_SELECT         EntityDomain = "select"
)

var knownDomains = []EntityDomain{
	DOMAIN_SENSOR, DOMAIN_BINARY_SENSOR, DOMAIN_SWITCH, DOMAIN_BUTTON, DOMAIN_DEVICE_TRACKER,
	DOMAIN_CAMERA, DOMAIN_MEDIA_PLAYER, DOMAIN_LIGHT, DOMAIN_SELECT,
}

func ParseEntityDomain(raw string) (EntityDomain, error) {
	return parseClosed("entity domain", raw, knownDomains...)
}

const uniqueIdPrefix = "hassbridge"

// Identity is the hub facing key of an entity. UniqueID stays stable when
// the display name changes and is what discovery registers.
type Identity struct {
	EntityID string
	UniqueID string
	Domain   EntityDomain
}

// NewIdentity builds <domain>.<slug>; the slug is normalized with Slugify.
func NewIdentity(d EntityDomain, slug string) Identity {
	objectId := Slugify(slug)
	return Identity{
		EntityID: fmt.Sprintf("%s.%s", d, objectId),
		UniqueID: fmt.Sprintf("%s_%s_%s", uniqueIdPrefix, d, objectId),
		Domain:   d,
	}
}

// ParseEntityID validates an entity id of the form <domain>.<slug>.
func ParseEntityID(entityId string) (Identity, error) {
	d, objectId, ok := strings.Cut(entityId, ".")
	if !ok || objectId == "" {
		return Identity{}, fmt.Errorf("%w: malformed entity id %q", ErrInvalidIdentifier, entityId)
	}
	entityDomain, err := ParseEntityDomain(d)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: entity id %q: %w", ErrInvalidIdentifier, entityId, err)
	}
	if Slugify(objectId) != objectId {
		return Identity{}, fmt.Errorf("%w: entity id %q is not a slug", ErrInvalidIdentifier, entityId)
	}
	return NewIdentity(entityDomain, objectId), nil
}

func (i Identity) ObjectID() string {
	_, objectId, _ := strings.Cut(i.EntityID, ".")
	return objectId
}

func (i Identity) String() string {
	return i.EntityID
}
