package storage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPointIDDeterministic(t *testing.T) {
	assert.Equal(t, PointID("svc_0"), PointID("svc_0"), "same doc id must map to same point id across runs")
	assert.NotEqual(t, PointID("svc_0"), PointID("svc_1"))
}

func TestPointIDIsValidUUID(t *testing.T) {
	_, err := uuid.Parse(PointID("faq_opening_hours"))
	assert.NoError(t, err)
}
