// FILE: lixenwraith/smartlog/sink/syslog/facility.go
package syslog

// Facilities maps facility names to their numeric codes
var Facilities = map[string]int{
	"kernel":   0,  // kernel messages
	"user":     1,  // user-level messages
	"mail":     2,  // mail system
	"daemon":   3,  // system daemons
	"auth":     4,  // security/authorization messages
	"syslog":   5,  // messages generated internally by syslogd
	"lpr":      6,  // line printer subsystem
	"news":     7,  // network news subsystem
	"uucp":     8,  // UUCP subsystem
	"cron":     9,  // clock daemon
	"authpriv": 10, // security/authorization messages
	"ftp":      11, // FTP daemon
	"ntp":      12, // NTP subsystem
	"audit":    13, // log audit
	"alert":    14, // log alert
	"clock":    15, // clock daemon
	"local0":   16,
	"local1":   17,
	"local2":   18,
	"local3":   19,
	"local4":   20,
	"local5":   21,
	"local6":   22,
	"local7":   23,
}

// FacilityCode returns the numeric code of a facility name
func FacilityCode(name string) (int, bool) {
	code, ok := Facilities[name]
	return code, ok
}

// Priority computes the PRI value of a facility and severity rank
func Priority(facility, rank int) int {
	return facility<<3 + rank
}
