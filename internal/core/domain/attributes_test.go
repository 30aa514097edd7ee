package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type statusAttrs struct {
	FriendlyName       string  `json:"friendly_name"`
	StatusUrl          string  `json:"status_url"`
	ProblemDescription *string `json:"problem_description,omitempty"`
}

func TestAttributeAccessors(t *testing.T) {

	assert := assert.New(t)

	bag := Attributes{
		"friendly_name": "GitHub",
		"viewers":       float64(12),
		"subscribed":    true,
		"game":          nil,
	}
	assert.Equal("GitHub", bag.FriendlyName())
	assert.Equal(12.0, bag.Float("viewers"))
	assert.True(bag.Bool("subscribed"))
	assert.Nil(bag.OptionalString("game"))
	assert.Nil(bag.OptionalFloat("missing"))
}

func TestDecodeEncodeAttributes(t *testing.T) {

	assert := assert.New(t)

	bag := Attributes{"friendly_name": "GitHub", "status_url": "https://www.githubstatus.com/"}
	attrs, err := DecodeAttributes[statusAttrs](bag)
	assert.NoError(err)
	assert.Equal("https://www.githubstatus.com/", attrs.StatusUrl)
	assert.Nil(attrs.ProblemDescription)

	out, err := EncodeAttributes(attrs)
	assert.NoError(err)
	assert.Equal(bag, out)

	same, err := DecodeAttributes[Attributes](bag)
	assert.NoError(err)
	assert.Equal(bag, same)
}
