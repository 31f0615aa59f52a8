package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageDescriptor(t *testing.T) {
	p := NewPackageDescriptor("/project/lngs/apps", "pax", "hax", "cax")
	assert.NoError(t, p.Validate())
	assert.Equal(t, filepath.Join("/project/lngs/apps", "pax"), p.WorkingCopy)
	assert.Equal(t, filepath.Join("/project/lngs/apps", "pax", "requirements.txt"), p.ManifestPath())

	tests := []struct {
		name    string
		pkg     PackageDescriptor
		wantErr bool
	}{
		{name: "valid", pkg: NewPackageDescriptor("/apps", "hax")},
		{name: "empty name", pkg: PackageDescriptor{WorkingCopy: "/apps/x"}, wantErr: true},
		{name: "bad name", pkg: PackageDescriptor{Name: "../etc", WorkingCopy: "/apps/x"}, wantErr: true},
		{name: "underscore collides with env naming", pkg: PackageDescriptor{Name: "my_pkg", WorkingCopy: "/apps/x"}, wantErr: true},
		{name: "no working copy", pkg: PackageDescriptor{Name: "pax"}, wantErr: true},
	}
	for _, toPin := range tests {
		test := toPin
		t.Run(test.name, func(t *testing.T) {
			err := test.pkg.Validate()
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
