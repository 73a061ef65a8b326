// Package discovery probes the LAN for WeMo switches over SSDP and
// reconciles what it finds against the switch inventory.
package discovery

// Descriptor is one discovered device as reported by the network probe.
// Every field except Host and Name is optional; the discovery adapter
// fills in whatever the device exposed.
type Descriptor struct {
	Name            string
	Host            string
	Port            int
	UDN             string
	SerialNumber    string
	MACAddress      string
	Model           string
	ModelName       string
	Manufacturer    string
	FirmwareVersion string
}
