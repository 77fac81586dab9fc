package qr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ms-attendance/internal/qr"
)

func TestCheckinURL(t *testing.T) {
	g := qr.NewGenerator("https://attend.example.com/")
	assert.Equal(t, "https://attend.example.com/service/svc-1", g.CheckinURL("svc-1"))
}

func TestGenerateCheckinQR(t *testing.T) {
	g := qr.NewGenerator("https://attend.example.com")

	png, err := g.GenerateCheckinQR("svc-1", 256)
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG signature.
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestGenerateCheckinQRDefaultSize(t *testing.T) {
	g := qr.NewGenerator("https://attend.example.com")

	png, err := g.GenerateCheckinQR("svc-1", 0)
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
}
