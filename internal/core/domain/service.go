package domain

import "strings"

// Service identifies the workspace service an intent targets.
type Service string

// Known services. ServiceMulti marks a request spanning several services.
const (
	ServiceMail        Service = "mail"
	ServiceCalendar    Service = "calendar"
	ServiceStorage     Service = "storage"
	ServiceSpreadsheet Service = "spreadsheet"
	ServiceDocument    Service = "document"
	ServiceMulti       Service = "multi"
)

// serviceAliases maps the vocabulary a model tends to produce onto services.
var serviceAliases = map[string]Service{
	"mail":         ServiceMail,
	"email":        ServiceMail,
	"gmail":        ServiceMail,
	"calendar":     ServiceCalendar,
	"events":       ServiceCalendar,
	"storage":      ServiceStorage,
	"drive":        ServiceStorage,
	"files":        ServiceStorage,
	"spreadsheet":  ServiceSpreadsheet,
	"spreadsheets": ServiceSpreadsheet,
	"sheets":       ServiceSpreadsheet,
	"document":     ServiceDocument,
	"documents":    ServiceDocument,
	"docs":         ServiceDocument,
	"multi":        ServiceMulti,
}

// ParseService normalises a service name.
// Unknown names are returned lower-cased so callers can report them.
func ParseService(name string) Service {
	key := strings.ToLower(strings.TrimSpace(name))
	if s, ok := serviceAliases[key]; ok {
		return s
	}
	return Service(key)
}

// IsValid returns true if the service is one of the known services.
func (s Service) IsValid() bool {
	return s == ServiceMulti || s.IsCapability()
}

// IsCapability returns true if the service is backed by a capability client.
func (s Service) IsCapability() bool {
	switch s {
	case ServiceMail, ServiceCalendar, ServiceStorage, ServiceSpreadsheet, ServiceDocument:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Service) String() string {
	return string(s)
}

// Description returns a human-readable description of the service.
func (s Service) Description() string {
	switch s {
	case ServiceMail:
		return "Mail (Gmail)"
	case ServiceCalendar:
		return "Calendar (Google Calendar)"
	case ServiceStorage:
		return "Files (Google Drive)"
	case ServiceSpreadsheet:
		return "Spreadsheets (Google Sheets)"
	case ServiceDocument:
		return "Documents (Google Docs)"
	case ServiceMulti:
		return "Multi-service request"
	default:
		return unknownDescription
	}
}

// CapabilityServices returns the services backed by capability clients.
func CapabilityServices() []Service {
	return []Service{
		ServiceMail,
		ServiceCalendar,
		ServiceStorage,
		ServiceSpreadsheet,
		ServiceDocument,
	}
}
