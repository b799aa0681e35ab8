package rebin

import "github.com/banshee-data/gridrebin/internal/monitoring"

const logPrefix = "[rebin] "

func opsf(format string, args ...interface{})   { monitoring.Opsf(logPrefix+format, args...) }
func diagf(format string, args ...interface{})  { monitoring.Diagf(logPrefix+format, args...) }
func tracef(format string, args ...interface{}) { monitoring.Tracef(logPrefix+format, args...) }
