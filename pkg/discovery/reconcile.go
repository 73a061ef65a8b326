package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/rs/zerolog/log"

	"casa/pkg/db"
)

// Action classifies what the reconciler did with one descriptor.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionSkipped   Action = "skipped"
)

// Outcome reports the reconciliation result for a single descriptor.
type Outcome struct {
	Action    Action   `json:"action"`
	SwitchID  int64    `json:"switch_id,omitempty"`
	Name      string   `json:"name"`
	MatchedBy string   `json:"matched_by,omitempty"`
	Changes   []string `json:"changes,omitempty"`
	Reason    string   `json:"reason,omitempty"`
}

// Summary aggregates the outcomes of one reconciliation sweep.
type Summary struct {
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Unchanged int       `json:"unchanged"`
	Skipped   int       `json:"skipped"`
	Outcomes  []Outcome `json:"outcomes"`
}

// Reconciler folds discovered descriptors into the switch inventory.
// Matching prefers the strongest identifier available: UDN, then serial
// number, then MAC address, then the (ip, name) pair.
type Reconciler struct {
	switches db.SwitchStore

	// lookupHostname resolves an IP to a hostname, best effort. Swapped
	// out in tests.
	lookupHostname func(ip string) string
}

func NewReconciler(switches db.SwitchStore) *Reconciler {
	return &Reconciler{
		switches:       switches,
		lookupHostname: reverseDNS,
	}
}

func reverseDNS(ip string) string {
	names, err := net.LookupAddr(ip)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}

// Run reconciles a batch of descriptors. A failure on one descriptor
// never aborts the rest.
func (r *Reconciler) Run(ctx context.Context, found []Descriptor) Summary {
	var s Summary
	for _, d := range found {
		o := r.Apply(ctx, d)
		s.Outcomes = append(s.Outcomes, o)
		switch o.Action {
		case ActionCreated:
			s.Created++
		case ActionUpdated:
			s.Updated++
		case ActionUnchanged:
			s.Unchanged++
		case ActionSkipped:
			s.Skipped++
		}
	}
	log.Info().
		Int("created", s.Created).
		Int("updated", s.Updated).
		Int("unchanged", s.Unchanged).
		Int("skipped", s.Skipped).
		Msg("discovery sweep reconciled")
	return s
}

// Apply reconciles one descriptor against the inventory.
func (r *Reconciler) Apply(ctx context.Context, d Descriptor) Outcome {
	existing, matchedBy, err := r.match(ctx, d)
	if err != nil {
		return Outcome{Action: ActionSkipped, Name: d.Name, Reason: fmt.Sprintf("lookup failed: %v", err)}
	}
	if existing != nil {
		return r.refresh(ctx, existing, matchedBy, d)
	}
	return r.create(ctx, d)
}

func (r *Reconciler) match(ctx context.Context, d Descriptor) (*db.Switch, string, error) {
	type probe struct {
		by   string
		key  string
		find func() (*db.Switch, error)
	}
	probes := []probe{
		{"udn", d.UDN, func() (*db.Switch, error) { return r.switches.FindByUDN(ctx, d.UDN) }},
		{"serial", d.SerialNumber, func() (*db.Switch, error) { return r.switches.FindBySerial(ctx, d.SerialNumber) }},
		{"mac", d.MACAddress, func() (*db.Switch, error) { return r.switches.FindByMAC(ctx, d.MACAddress) }},
		{"ip+name", d.Host + d.Name, func() (*db.Switch, error) { return r.switches.FindByIPAndName(ctx, d.Host, d.Name) }},
	}
	for _, p := range probes {
		if p.key == "" {
			continue
		}
		sw, err := p.find()
		if err == nil {
			return sw, p.by, nil
		}
		if !errors.Is(err, db.ErrSwitchNotFound) {
			return nil, "", err
		}
	}
	return nil, "", nil
}

// refresh brings a matched record up to date. Address fields follow the
// network unconditionally; identity-adjacent fields only overwrite when
// the discovered value is non-empty, so a terse SSDP answer never wipes
// data an earlier sweep filled in.
func (r *Reconciler) refresh(ctx context.Context, sw *db.Switch, matchedBy string, d Descriptor) Outcome {
	var changes []string
	set := func(field string, dst *string, val string) {
		if *dst != val {
			changes = append(changes, fmt.Sprintf("%s: %q -> %q", field, *dst, val))
			*dst = val
		}
	}
	setNonEmpty := func(field string, dst *string, val string) {
		if val != "" {
			set(field, dst, val)
		}
	}

	set("ip_address", &sw.IPAddress, d.Host)
	if d.Port != sw.Port {
		changes = append(changes, fmt.Sprintf("port: %d -> %d", sw.Port, d.Port))
		sw.Port = d.Port
	}
	set("hostname", &sw.Hostname, r.lookupHostname(d.Host))
	setNonEmpty("mac_address", &sw.MACAddress, d.MACAddress)
	setNonEmpty("firmware_version", &sw.FirmwareVersion, d.FirmwareVersion)
	setNonEmpty("name", &sw.Name, d.Name)
	setNonEmpty("model", &sw.Model, d.Model)
	setNonEmpty("model_name", &sw.ModelName, d.ModelName)
	setNonEmpty("manufacturer", &sw.Manufacturer, d.Manufacturer)

	if len(changes) == 0 {
		if err := r.switches.Touch(ctx, sw.ID); err != nil {
			log.Warn().Err(err).Int64("id", sw.ID).Msg("could not record sighting")
		}
		return Outcome{Action: ActionUnchanged, SwitchID: sw.ID, Name: sw.Name, MatchedBy: matchedBy}
	}
	if err := r.switches.Update(ctx, sw); err != nil {
		return Outcome{Action: ActionSkipped, Name: sw.Name, Reason: fmt.Sprintf("update failed: %v", err)}
	}
	if err := r.switches.Touch(ctx, sw.ID); err != nil {
		log.Warn().Err(err).Int64("id", sw.ID).Msg("could not record sighting")
	}
	log.Info().Int64("id", sw.ID).Str("name", sw.Name).Strs("changes", changes).Msg("switch updated from discovery")
	return Outcome{Action: ActionUpdated, SwitchID: sw.ID, Name: sw.Name, MatchedBy: matchedBy, Changes: changes}
}

func (r *Reconciler) create(ctx context.Context, d Descriptor) Outcome {
	if d.Host == "" || d.Name == "" {
		return Outcome{Action: ActionSkipped, Name: d.Name, Reason: "descriptor missing host or name"}
	}
	sw := &db.Switch{
		Name:            d.Name,
		Hostname:        r.lookupHostname(d.Host),
		IPAddress:       d.Host,
		Port:            d.Port,
		Model:           d.Model,
		ModelName:       d.ModelName,
		SerialNumber:    d.SerialNumber,
		UDN:             d.UDN,
		MACAddress:      d.MACAddress,
		Manufacturer:    d.Manufacturer,
		FirmwareVersion: d.FirmwareVersion,
	}
	if err := r.switches.Create(ctx, sw); err != nil {
		if errors.Is(err, db.ErrMissingIdentity) {
			return Outcome{Action: ActionSkipped, Name: d.Name, Reason: "no durable identifier (udn or serial)"}
		}
		return Outcome{Action: ActionSkipped, Name: d.Name, Reason: fmt.Sprintf("create failed: %v", err)}
	}
	if err := r.switches.Touch(ctx, sw.ID); err != nil {
		log.Warn().Err(err).Int64("id", sw.ID).Msg("could not record sighting")
	}
	log.Info().Int64("id", sw.ID).Str("name", sw.Name).Msg("new switch registered")
	return Outcome{Action: ActionCreated, SwitchID: sw.ID, Name: sw.Name}
}
