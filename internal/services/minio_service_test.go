package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuImageObjectName(t *testing.T) {
	tenantID := uuid.New()
	itemID := uuid.New()

	name, err := menuImageObjectName(tenantID, itemID, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "tenants/"+tenantID.String()+"/menu-items/"+itemID.String()+"/"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	name, err = menuImageObjectName(tenantID, itemID, "IMAGE/JPEG; charset=binary")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))
}

func TestMenuImageObjectName_RejectsNonImages(t *testing.T) {
	_, err := menuImageObjectName(uuid.New(), uuid.New(), "application/pdf")
	assert.Error(t, err)
}

func TestMenuImageObjectName_Unique(t *testing.T) {
	tenantID, itemID := uuid.New(), uuid.New()
	a, _ := menuImageObjectName(tenantID, itemID, "image/webp")
	b, _ := menuImageObjectName(tenantID, itemID, "image/webp")
	assert.NotEqual(t, a, b)
}
