package wemo

// service identifies one UPnP service exposed by a WeMo switch: the SOAP
// namespace and the control URL path the actions are posted to.
type service struct {
	Type        string
	ControlPath string
}

var (
	svcBasicEvent = service{"urn:Belkin:service:basicevent:1", "/upnp/control/basicevent1"}
	svcDeviceInfo = service{"urn:Belkin:service:deviceinfo:1", "/upnp/control/deviceinfo1"}
	svcFirmware   = service{"urn:Belkin:service:firmwareupdate:1", "/upnp/control/firmwareupdate1"}
	svcRules      = service{"urn:Belkin:service:rules:1", "/upnp/control/rules1"}
)

// Switch binary states as reported by GetBinaryState. Devices also report
// model-specific transitional codes (8 has been observed on Insight
// switches); those are passed through unchanged.
const (
	StateOff = 0
	StateOn  = 1
)
