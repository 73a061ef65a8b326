package wemo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// newTestClient points a Client at an httptest server.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	host, portStr, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(portStr)
	return NewClient(host, port), srv
}

func stateResponse(state string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">
<s:Body>
<u:GetBinaryStateResponse xmlns:u="urn:Belkin:service:basicevent:1">
<BinaryState>%s</BinaryState>
</u:GetBinaryStateResponse>
</s:Body></s:Envelope>`, state)
}

func TestGetState_PassesIntegerThrough(t *testing.T) {
	for _, want := range []int{0, 1, 8} {
		t.Run(strconv.Itoa(want), func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, stateResponse(strconv.Itoa(want)))
			}))

			got, err := client.GetState(context.Background())
			if err != nil {
				t.Fatalf("GetState() error: %v", err)
			}
			if got != want {
				t.Errorf("GetState() = %d, want %d", got, want)
			}
		})
	}
}

func TestGetState_MissingFieldIsProtocolError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>
<u:GetBinaryStateResponse xmlns:u="urn:Belkin:service:basicevent:1"></u:GetBinaryStateResponse>
</s:Body></s:Envelope>`)
	}))

	_, err := client.GetState(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("missing BinaryState: got %v, want ErrProtocol", err)
	}
}

func TestGetState_GarbageBodyIsProtocolError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not xml at <<<< all")
	}))

	_, err := client.GetState(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("garbage body: got %v, want ErrProtocol", err)
	}
}

func TestGetState_NonIntegerStateIsProtocolError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, stateResponse("maybe"))
	}))

	_, err := client.GetState(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("non-integer state: got %v, want ErrProtocol", err)
	}
}

func TestConnectivityError_RefusedConnection(t *testing.T) {
	client, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if _, err := client.GetState(context.Background()); !errors.Is(err, ErrConnectivity) {
		t.Errorf("GetState against closed server: got %v, want ErrConnectivity", err)
	}
	if err := client.TurnOn(context.Background()); !errors.Is(err, ErrConnectivity) {
		t.Errorf("TurnOn against closed server: got %v, want ErrConnectivity", err)
	}
	if err := client.TurnOff(context.Background()); !errors.Is(err, ErrConnectivity) {
		t.Errorf("TurnOff against closed server: got %v, want ErrConnectivity", err)
	}
}

func TestConnectivityError_HTTPFailureStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "fault", http.StatusInternalServerError)
	}))

	_, err := client.GetState(context.Background())
	if !errors.Is(err, ErrConnectivity) {
		t.Errorf("HTTP 500: got %v, want ErrConnectivity", err)
	}
}

func TestTurnOn_SendsExpectedEnvelope(t *testing.T) {
	var (
		gotAction      string
		gotContentType string
		gotPath        string
		gotBody        string
	)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPACTION")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		fmt.Fprint(w, stateResponse("1"))
	}))

	if err := client.TurnOn(context.Background()); err != nil {
		t.Fatalf("TurnOn() error: %v", err)
	}

	if want := `"urn:Belkin:service:basicevent:1#SetBinaryState"`; gotAction != want {
		t.Errorf("SOAPACTION = %q, want %q", gotAction, want)
	}
	if want := `text/xml; charset="utf-8"`; gotContentType != want {
		t.Errorf("Content-Type = %q, want %q", gotContentType, want)
	}
	if want := "/upnp/control/basicevent1"; gotPath != want {
		t.Errorf("path = %q, want %q", gotPath, want)
	}
	if !strings.Contains(gotBody, `<u:SetBinaryState xmlns:u="urn:Belkin:service:basicevent:1"><BinaryState>1</BinaryState></u:SetBinaryState>`) {
		t.Errorf("envelope missing action element:\n%s", gotBody)
	}
}

func TestGetFirmwareVersion(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if want := "/upnp/control/firmwareupdate1"; r.URL.Path != want {
			t.Errorf("path = %q, want %q", r.URL.Path, want)
		}
		fmt.Fprint(w, `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>
<u:GetFirmwareVersionResponse xmlns:u="urn:Belkin:service:firmwareupdate:1">
<FirmwareVersion>WeMo_WW_2.00.11532.PVT-OWRT-SNS</FirmwareVersion>
</u:GetFirmwareVersionResponse></s:Body></s:Envelope>`)
	}))

	got, err := client.GetFirmwareVersion(context.Background())
	if err != nil {
		t.Fatalf("GetFirmwareVersion() error: %v", err)
	}
	if want := "WeMo_WW_2.00.11532.PVT-OWRT-SNS"; got != want {
		t.Errorf("GetFirmwareVersion() = %q, want %q", got, want)
	}
}

func TestFetchRules(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"><s:Body>
<u:FetchRulesResponse xmlns:u="urn:Belkin:service:rules:1">
<ruleDbVersion>3</ruleDbVersion>
<ruleDbBody>UEsDBA==</ruleDbBody>
</u:FetchRulesResponse></s:Body></s:Envelope>`)
	}))

	rules, err := client.FetchRules(context.Background())
	if err != nil {
		t.Fatalf("FetchRules() error: %v", err)
	}
	if rules.Version != 3 {
		t.Errorf("Version = %d, want 3", rules.Version)
	}
	if rules.Body != "UEsDBA==" {
		t.Errorf("Body = %q, want %q", rules.Body, "UEsDBA==")
	}
}

func TestStoreRules_EscapesPayload(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		fmt.Fprint(w, `<s:Envelope><s:Body><u:StoreRulesResponse/></s:Body></s:Envelope>`)
	}))

	err := client.StoreRules(context.Background(), RulesDB{Version: 4, Body: `a<b&c`})
	if err != nil {
		t.Fatalf("StoreRules() error: %v", err)
	}
	if !strings.Contains(gotBody, "<ruleDbVersion>4</ruleDbVersion>") {
		t.Errorf("envelope missing version:\n%s", gotBody)
	}
	if !strings.Contains(gotBody, "<ruleDbBody>a&lt;b&amp;c</ruleDbBody>") {
		t.Errorf("payload not escaped:\n%s", gotBody)
	}
}
