// Package wemo implements the UPnP SOAP control protocol spoken by Belkin
// WeMo smart switches. A Client is bound to one device address; every
// operation is a single blocking SOAP exchange with a fixed timeout and no
// retry. Errors are classified as either ErrConnectivity (device offline)
// or ErrProtocol (device answered garbage) so callers can report them
// separately while treating both as "skip this device".
package wemo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// DefaultPort is the port WeMo switches usually listen on. Devices migrate
// between 49152-49155 across reboots, discovery reports the current one.
const DefaultPort = 49153

// RequestTimeout bounds every SOAP exchange.
const RequestTimeout = 5 * time.Second

// Client talks to a single WeMo switch.
type Client struct {
	host string
	port int
	http *http.Client
}

// NewClient returns a client for the switch at host:port. A port of 0
// falls back to DefaultPort.
func NewClient(host string, port int) *Client {
	if port == 0 {
		port = DefaultPort
	}
	return &Client{
		host: host,
		port: port,
		http: &http.Client{Timeout: RequestTimeout},
	}
}

// Host returns the device host the client is bound to.
func (c *Client) Host() string { return c.host }

// TurnOn switches the device on.
func (c *Client) TurnOn(ctx context.Context) error {
	_, err := c.call(ctx, svcBasicEvent, "SetBinaryState", []soapArg{{"BinaryState", "1"}})
	return err
}

// TurnOff switches the device off.
func (c *Client) TurnOff(ctx context.Context) error {
	_, err := c.call(ctx, svcBasicEvent, "SetBinaryState", []soapArg{{"BinaryState", "0"}})
	return err
}

// GetState returns the device's binary state: 0 off, 1 on. Other integer
// codes (8 on Insight models) are returned unmodified.
func (c *Client) GetState(ctx context.Context) (int, error) {
	body, err := c.call(ctx, svcBasicEvent, "GetBinaryState", nil)
	if err != nil {
		return 0, err
	}
	raw, err := extractLeaf(body, "BinaryState")
	if err != nil {
		return 0, err
	}
	state, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: BinaryState %q is not an integer", ErrProtocol, raw)
	}
	return state, nil
}

// GetDeviceInfo returns the raw device information string reported by the
// deviceinfo service (a pipe-separated blob on current firmware).
func (c *Client) GetDeviceInfo(ctx context.Context) (string, error) {
	body, err := c.call(ctx, svcDeviceInfo, "GetDeviceInformation", nil)
	if err != nil {
		return "", err
	}
	return extractLeaf(body, "DeviceInformation")
}

// GetFirmwareVersion returns the device firmware version string.
func (c *Client) GetFirmwareVersion(ctx context.Context) (string, error) {
	body, err := c.call(ctx, svcFirmware, "GetFirmwareVersion", nil)
	if err != nil {
		return "", err
	}
	return extractLeaf(body, "FirmwareVersion")
}

// RulesDB is the device's on-board rules database reference.
type RulesDB struct {
	Version int
	Body    string
}

// FetchRules retrieves the rules database version and body from the device.
func (c *Client) FetchRules(ctx context.Context) (RulesDB, error) {
	body, err := c.call(ctx, svcRules, "FetchRules", nil)
	if err != nil {
		return RulesDB{}, err
	}
	raw, err := extractLeaf(body, "ruleDbVersion")
	if err != nil {
		return RulesDB{}, err
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return RulesDB{}, fmt.Errorf("%w: ruleDbVersion %q is not an integer", ErrProtocol, raw)
	}
	db := RulesDB{Version: version}
	// The body blob is absent on switches with no rules configured.
	if blob, err := extractLeaf(body, "ruleDbBody"); err == nil {
		db.Body = blob
	}
	return db, nil
}

// StoreRules uploads a rules database to the device.
func (c *Client) StoreRules(ctx context.Context, db RulesDB) error {
	_, err := c.call(ctx, svcRules, "StoreRules", []soapArg{
		{"ruleDbVersion", strconv.Itoa(db.Version)},
		{"ruleDbBody", db.Body},
	})
	return err
}

// call is the envelope primitive every operation wraps: POST the action
// envelope to the service control URL and hand back the raw response body.
// Transport-level failure, including a non-2xx status, is a connectivity
// error; failure to read the body is a protocol error.
func (c *Client) call(ctx context.Context, svc service, action string, args []soapArg) ([]byte, error) {
	url := fmt.Sprintf("http://%s%s", net.JoinHostPort(c.host, strconv.Itoa(c.port)), svc.ControlPath)
	envelope := buildEnvelope(svc.Type, action, args)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPACTION", fmt.Sprintf(`"%s#%s"`, svc.Type, action))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", ErrConnectivity, action, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrProtocol, err)
	}
	return body, nil
}
