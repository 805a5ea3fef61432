package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 4326, c.SRID)
	assert.Equal(t, Index{MinChildren: 2, MaxChildren: 8}, c.Index)
	assert.Equal(t, Log{Level: "info", Format: "text"}, c.Log)
	assert.Equal(t, 1, c.Tolerance)
	assert.Empty(t, c.Projections)
}

func TestFileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "geomap.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
srid: 3857
index:
  max_children: 12
log:
  format: JSON
  file: /tmp/geomap.log
projections:
  "900913": "+proj=merc +a=6378137 +b=6378137 +units=m +no_defs"
identify:
  tolerance: 3
`), 0o644))
	t.Setenv("GEOMAP_INDEX_MIN_CHILDREN", "4")

	v := viper.New()
	v.Set("config", p)
	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3857, c.SRID)
	assert.Equal(t, Index{MinChildren: 4, MaxChildren: 12}, c.Index)
	assert.Equal(t, "json", c.Log.Format)
	assert.Equal(t, "/tmp/geomap.log", c.Log.File)
	assert.Equal(t, 3, c.Tolerance)
	assert.Contains(t, c.Projections[900913], "+proj=merc")
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"bad format":    "log:\n  format: xml\n",
		"bad srid":      "srid: 0\n",
		"bad tolerance": "identify:\n  tolerance: 0\n",
		"bad key":       "projections:\n  mercator: \"+proj=merc\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "c.yaml")
			require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
			v := viper.New()
			v.Set("config", p)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}

	v := viper.New()
	v.Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load(v)
	assert.Error(t, err)
}
