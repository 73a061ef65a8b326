package discovery

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/huin/goupnp"
	"github.com/rs/zerolog/log"
)

// Belkin devices answer to their own device-type search targets rather
// than reliably to ssdp:all, so each sweep issues one M-SEARCH per type.
var searchTargets = []string{
	"urn:Belkin:device:lightswitch:1",
	"urn:Belkin:device:controllee:1",
	"urn:Belkin:device:insight:1",
}

const setupTimeout = 5 * time.Second

// Prober finds WeMo switches on the local network via SSDP and maps
// their UPnP descriptions into Descriptors.
type Prober struct {
	search func(ctx context.Context, target string) ([]goupnp.MaybeRootDevice, error)
	http   *http.Client
}

func NewProber() *Prober {
	return &Prober{
		search: goupnp.DiscoverDevicesCtx,
		http:   &http.Client{Timeout: setupTimeout},
	}
}

// Search performs one SSDP sweep across all Belkin search targets and
// returns the deduplicated set of discovered switches. Individual
// device failures are logged and skipped.
func (p *Prober) Search(ctx context.Context) ([]Descriptor, error) {
	seen := make(map[string]bool)
	var found []Descriptor
	for _, target := range searchTargets {
		devices, err := p.search(ctx, target)
		if err != nil {
			return found, fmt.Errorf("ssdp search %s: %w", target, err)
		}
		for _, maybe := range devices {
			if maybe.Err != nil {
				log.Debug().Err(maybe.Err).Str("usn", maybe.USN).Msg("skipping unreadable device description")
				continue
			}
			d := p.describe(ctx, maybe)
			key := d.UDN
			if key == "" {
				key = d.Host + "|" + d.Name
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			found = append(found, d)
		}
	}
	return found, nil
}

func (p *Prober) describe(ctx context.Context, maybe goupnp.MaybeRootDevice) Descriptor {
	dev := maybe.Root.Device
	d := Descriptor{
		Name:         strings.TrimSpace(dev.FriendlyName),
		UDN:          strings.TrimSpace(dev.UDN),
		SerialNumber: strings.TrimSpace(dev.SerialNumber),
		Model:        strings.TrimSpace(dev.ModelNumber),
		ModelName:    strings.TrimSpace(dev.ModelName),
		Manufacturer: strings.TrimSpace(dev.Manufacturer),
	}
	if maybe.Location != nil {
		d.Host = maybe.Location.Hostname()
		if port := maybe.Location.Port(); port != "" {
			if n, err := strconv.Atoi(port); err == nil {
				d.Port = n
			}
		}
		// Belkin stuffs the MAC and firmware version into vendor
		// extensions that goupnp's device model does not carry.
		mac, fw, err := p.fetchSetupExtras(ctx, maybe.Location.String())
		if err != nil {
			log.Debug().Err(err).Str("location", maybe.Location.String()).Msg("could not read setup extras")
		} else {
			d.MACAddress = mac
			d.FirmwareVersion = fw
		}
	}
	return d
}

type setupDocument struct {
	XMLName xml.Name `xml:"root"`
	Device  struct {
		MACAddress      string `xml:"macAddress"`
		FirmwareVersion string `xml:"firmwareVersion"`
	} `xml:"device"`
}

func (p *Prober) fetchSetupExtras(ctx context.Context, location string) (mac, firmware string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", "", err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("setup document returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	var doc setupDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(doc.Device.MACAddress), strings.TrimSpace(doc.Device.FirmwareVersion), nil
}
