package gridplot

import "github.com/banshee-data/gridrebin/internal/monitoring"

func diagf(format string, args ...interface{}) { monitoring.Diagf("[gridplot] "+format, args...) }
