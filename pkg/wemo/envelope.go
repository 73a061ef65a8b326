package wemo

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// soapArg is one named argument inside the action element. Order is
// preserved, some firmware revisions care.
type soapArg struct {
	Name  string
	Value string
}

const envelopeHeader = xml.Header +
	`<s:Envelope xmlns:s="http://schemas.xmlsoap.org/soap/envelope/" ` +
	`s:encodingStyle="http://schemas.xmlsoap.org/soap/encoding/">` +
	`<s:Body>`

const envelopeFooter = `</s:Body></s:Envelope>`

// buildEnvelope wraps an action and its arguments in the SOAP envelope the
// WeMo firmware expects: <u:{action} xmlns:u="{serviceType}">{args}</u:{action}>.
func buildEnvelope(serviceType, action string, args []soapArg) []byte {
	var b bytes.Buffer
	b.WriteString(envelopeHeader)
	fmt.Fprintf(&b, `<u:%s xmlns:u="%s">`, action, serviceType)
	for _, a := range args {
		b.WriteString("<" + a.Name + ">")
		_ = xml.EscapeText(&b, []byte(a.Value))
		b.WriteString("</" + a.Name + ">")
	}
	fmt.Fprintf(&b, `</u:%s>`, action)
	b.WriteString(envelopeFooter)
	return b.Bytes()
}

// extractLeaf scans a response body for the first element with the given
// local name and returns its character data. A body that does not parse as
// XML, or that lacks the element, is a protocol error.
func extractLeaf(body []byte, name string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", fmt.Errorf("%w: no %s element in response", ErrProtocol, name)
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrProtocol, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != name {
			continue
		}

		var text strings.Builder
		for {
			tok, err := dec.Token()
			if err != nil {
				return "", fmt.Errorf("%w: %v", ErrProtocol, err)
			}
			switch t := tok.(type) {
			case xml.CharData:
				text.Write(t)
			case xml.EndElement:
				return strings.TrimSpace(text.String()), nil
			}
		}
	}
}
