package utils

import (
	"sync"

	"github.com/airbusgeo/godal"
)

var registerDrivers sync.Once

// RegisterGDAL registers every GDAL driver once per process.
func RegisterGDAL() {
	registerDrivers.Do(godal.RegisterAll)
}
